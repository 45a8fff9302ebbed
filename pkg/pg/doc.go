// Package pg bootstraps the PostgreSQL layer backing the durable
// notification store.
//
// It wires three pieces: Connect opens a pgx connection pool with retry,
// Migrate applies goose schema migrations before the service starts
// consuming events, and Healthcheck exposes a probe for the HTTP health
// endpoint. Error helpers classify pgx errors so that callers can treat a
// unique-constraint violation as "record already exists" rather than a
// failure, which is how the idempotency guard works.
package pg
