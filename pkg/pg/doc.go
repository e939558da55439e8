// Package pg provides PostgreSQL connectivity for the service: pgx pool
// construction with retry, goose migrations, health probes, and helpers for
// classifying common PostgreSQL errors.
package pg
