// Package bids evaluates the bids of a single contract snapshot.
//
// Every function here works over the real bids of a snapshot (see
// contract.RealBids); placeholder slots never reach a caller. Results are
// fresh slices, inputs are never modified, and nothing reads the wall clock:
// time-relative helpers take "now" in Unix seconds.
//
// Validation outcomes are values. Validate and PrepareOffer never return a Go
// error for a business-rule violation; they return a contract.Validation the
// caller renders as-is.
package bids
