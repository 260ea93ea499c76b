// Package contract provides the snapshot model for Paragon escrow contracts.
//
// A Snapshot is one fetched, immutable view of a contract output at a given
// UTXO version. Spending the output produces a new snapshot with a new
// Outpoint; nothing in this package mutates a snapshot in place.
//
// This package contains value types and pure helpers only. Every other
// internal package imports contract; contract imports nothing internal.
//
// Key design constraints:
//   - NO float types for amounts or timestamps - satoshis and Unix seconds are int64
//   - Enumerations are closed string types; unknown values are rejected at decode
//   - JSON tags follow the backend wire format (camelCase) so fetched documents
//     decode without a translation layer
//   - Functions never read the wall clock; callers pass "now" explicitly
package contract
