// Package store provides SQLite-backed durable storage for signing
// records: one row per signed-pointer constant a build materialized.
//
// The store implements an append-only log keyed by the constant's
// content-addressed fingerprint, so re-recording the same signing
// decision is a no-op and independent builds producing the same
// constant converge on one row.
//
// All queries use deterministic ordering (ORDER BY seq ASC, id ASC
// COLLATE BINARY) so that inspection output is stable across runs.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Record IDs are the signed-pointer fingerprints computed in
// internal/constant using RFC 8785 canonical JSON and SHA-256 with
// domain separation.
package store
