// Package httpapi exposes the notification read surface and a creation
// endpoint over HTTP.
//
// Authentication is out of scope for this service: callers are trusted
// gateways that put the acting user into the X-User-ID header.
package httpapi
