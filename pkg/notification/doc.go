// Package notification holds the persistent notification record and its
// storage contract.
//
// A record is created exactly once per idempotency key: Storage.Reserve
// inserts the record or, when the key was already used, returns the record
// that won. Delivery code marks the record sent after the channel fan-out
// completes, at most once.
//
// Two Storage implementations ship with the package: MemoryStorage for
// tests and local development, and PostgresStorage for production, which
// leans on a partial unique index for idempotency.
package notification
