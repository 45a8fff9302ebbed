// Package broker defines the message transport the notifier consumes from
// and publishes to.
//
// The surface is deliberately small: a Message with topic, partition key,
// payload and string headers; a Producer that publishes one message; and a
// Consumer that delivers subscribed topics to a handler one message at a
// time per topic stream. Acknowledgement is tied to the handler's return
// value, which is what makes "commit after success" hold: a message is
// acked only after the handler returns nil, and an unacked message is
// redelivered, giving at-least-once semantics.
//
// Two implementations ship with the package. Memory is a process-local
// FIFO used by tests and single-node development. Stream* are backed by
// Redis Streams with consumer groups: one stream per topic, XACK as the
// offset commit, and pending-entry recovery on start so messages survive a
// crash between delivery and ack.
//
// Retry metadata travels in the "x-retry-count" header so that a
// re-injected message carries its attempt count across process restarts.
package broker
