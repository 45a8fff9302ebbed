// Package channels implements the delivery channels a notification fans
// out to: email, in-app, and push.
//
// Every channel satisfies the Channel interface and receives the stored
// notification together with its rendered content. The Fanout runner sends
// to all requested channels concurrently and isolates failures: one
// channel failing never blocks or aborts the others, it is only logged.
package channels
