// Package templates maps template names to channel-specific format strings
// and renders them against a flat key/value payload.
//
// Rendering is a pure string substitution: every {key} placeholder is
// replaced by the stringified value of data[key]; placeholders without a
// matching key are left in place so a missing value is visible in the
// output instead of silently blanked.
//
// The registry is built once at process start and shared by reference; it
// is safe for concurrent reads.
package templates
