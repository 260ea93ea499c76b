// Package harness runs conformance scenarios against the rule engine.
//
// A scenario is a YAML file describing a fleet of contract snapshots, a
// fixed evaluation time and a flow of evaluations. Each evaluation calls the
// real engine packages (contract, bids, eligibility) and records its result
// in a trace; expect clauses and assertions are checked against that trace,
// and the trace can be compared to a golden file.
//
// # Scenario Format
//
//	name: open_contract
//	description: "What this scenario validates"
//	now: 1700000000
//	role: seeker
//	contracts:
//	  - id: logo
//	    satoshis: 5000
//	    record:
//	      status: initial
//	      bids: [{furnisherKey: "02..", plans: "..", bidAmount: 4000, bond: 0, timeOfBid: 1699990000, timeRequired: 1700076400}]
//	flow:
//	  - op: eligibility
//	    contract: logo
//	    expect: {accept-bid: true}
//	assertions:
//	  - type: permits
//	    contract: logo
//	    action: accept-bid
//	    allowed: true
//
// # Ops
//
// Contract ops take a contract ID: real-bids, eligibility, actions,
// enrich-bids, sort-bids, bid-stats, validate-bid, prepare-offer, deadline,
// split-dispute, invariants and validate-listing. Fleet ops run over
// every contract: aggregate and query.
//
// # Assertion Types
//
//   - trace_contains: an event with the op (and contract) whose result contains the fields
//   - trace_order: ops first appear in the specified order
//   - trace_count: an op appears exactly N times
//   - permits: a role may or may not take an action on a contract
//
// # Deterministic Testing
//
// Nothing reads the wall clock: "now" comes from the scenario, contract
// txids are derived from fixture order, and trace seq numbers count from 1.
// Identical scenarios produce byte-identical golden traces.
package harness
