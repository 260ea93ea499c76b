// Package eligibility decides which actions a contract snapshot currently
// permits and summarizes collections of snapshots.
//
// The package is a pure decision layer. It never performs an action: the
// Executor interface names the backend operations a caller delegates to, and
// Guard only refuses to delegate when the snapshot does not permit the
// action. The backend re-validates everything before committing, so the
// answers here are advisory.
//
// Predicates read the policy copies carried by each record, never a
// process-wide configuration. Every enum switch is exhaustive and an unknown
// value denies the action.
//
// Collection helpers compose in a fixed order: status filter, search filter,
// bounty range, no-bids filter, sort. Sorting always sees only the filtered
// subset. See Query.Apply.
package eligibility
