// Package event defines the envelope schema and topic names the notifier
// consumes.
//
// Two event families share one envelope: approval-workflow events
// (request lifecycle and stage timers) and social events (comments, likes,
// mentions). The envelope is a flat superset of both families' fields;
// parsers and handlers read only the fields their event type carries.
package event
