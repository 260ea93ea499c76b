// Package store is a local SQLite cache of fetched contract snapshots.
//
// Every fetch is written as one batch: a row in fetch_batches plus one row per
// snapshot. Reads return the latest batch for a role, so offline tools (the
// CLI, metrics export) can work from the last known state of the overlay.
//
// # Ordering
//
//   - Batches are ordered by seq, a per-database logical counter, never by
//     fetched_at. Two batches written in the same second still have a total
//     order.
//   - Snapshots within a batch come back in the position they were written.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Snapshot rows are deleted with their batch
//
// Records are stored as JSON text and decoded strictly on read, so a row
// holding an unknown status or enum value fails the read instead of being
// passed on.
package store
