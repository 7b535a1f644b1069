// Package store provides SQLite-backed persistence for saved form
// submissions.
//
// Forms built by internal/schemaform write their bound values here when the
// harness is configured with withSave. Each submission records the form
// class, the canonical JSON payload and a logical sequence number; reads are
// always ordered by (seq, id) so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
