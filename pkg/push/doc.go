// Package push sends mobile push notifications through Firebase Cloud
// Messaging.
//
// The PushSender interface mirrors the email sender contract so delivery
// channels stay provider-agnostic. FCMClient is the production
// implementation; NoopSender logs instead of sending and serves
// development environments without Firebase credentials.
package push
