// Package email provides a provider-agnostic interface for sending
// transactional notification emails.
//
// The package is built around the EmailSender interface so providers can be
// swapped without changing delivery code:
//   - PostmarkClient for production delivery with open tracking
//   - DevSender for local development (saves emails to disk)
//
// All implementations validate parameters before sending and report
// failures through the package sentinel errors.
package email
