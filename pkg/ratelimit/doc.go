// Package ratelimit enforces per-user delivery rate limits with a sliding
// window.
//
// A window is the set of timestamped tokens recorded for a key within the
// trailing window duration. On every check the store evicts tokens older
// than the window, counts the rest, and records a new token only when the
// count is below the limit — as one atomic unit, so concurrent callers for
// the same key cannot both pass a nearly-full window. Keys expire with the
// window so abandoned users cost nothing.
//
// Two stores exist: a Redis sorted-set store (shared across service
// instances; the Lua script is the serialization point) and an in-memory
// store for tests and single-node use.
//
// The limiter fails open: when the store is unreachable the check reports
// allowed and logs the degradation, because delivering notifications is
// worth more than strictly enforcing limits.
package ratelimit
