// Package redisconn establishes the shared Redis connection used by the
// rate limiter, the in-app notification store, and the stream broker.
//
// Connect retries until the server answers PING or the attempts are
// exhausted; Healthcheck returns a probe function suitable for the HTTP
// health endpoint.
package redisconn
