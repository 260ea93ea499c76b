package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Fixtures(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(scenario.Flow))
		})
	}
}

func TestRunWithGolden_Fixtures(t *testing.T) {
	for _, name := range []string{
		"scenario_b_bounty_exact_amount",
		"scenario_e_fleet_stats",
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestGoldenTrace_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/scenario_a_open_contract.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := GoldenTrace(scenario, first)
	require.NoError(t, err)
	b, err := GoldenTrace(scenario, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.NotEqual(t, byte('\n'), a[len(a)-1])
}

func TestRun_TraceShape(t *testing.T) {
	scenario := mustParse(t, `
name: trace_shape
description: Fleet ops omit the contract; empty args are omitted.
contracts:
  - id: a
    satoshis: 10
    record: {status: initial}
flow:
  - op: real-bids
    contract: a
  - op: query
    contract: a
    args: {status: initial}
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Trace, 2)

	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, "a", result.Trace[0].Contract)
	assert.Nil(t, result.Trace[0].Args)
	assert.Equal(t, int64(0), result.Trace[0].Result["count"])

	assert.Equal(t, int64(2), result.Trace[1].Seq)
	assert.Empty(t, result.Trace[1].Contract)
	assert.Equal(t, map[string]any{"status": "initial"}, result.Trace[1].Args)
	assert.Equal(t, []string{"a"}, result.Trace[1].Result["contracts"])
}

func TestRun_ExpectMismatchFailsScenario(t *testing.T) {
	scenario := mustParse(t, `
name: mismatch
description: An open contract without bids cannot accept one.
contracts:
  - id: a
    record: {status: initial}
flow:
  - op: eligibility
    contract: a
    expect: {accept-bid: true}
`)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "flow[0] eligibility a: .accept-bid: expected true, got false")
}

func TestRun_FixtureOverlay(t *testing.T) {
	scenario := mustParse(t, `
name: overlay
description: Fixture fields override the preset record.
contracts:
  - id: a
    satoshis: 700
    record:
      status: bid-accepted
      contractType: bounty
      bids:
        - {furnisherKey: "0201010101010101010101010101010101010101010101010101010101010101", plans: "p", bidAmount: 700, bond: 0, timeOfBid: 1699000000, timeRequired: 1699086400}
    acceptedBidIndex: 0
  - id: b
flow:
  - op: invariants
    contract: a
    expect: {valid: true, errors: []}
`)

	h, err := newHarness(scenario, nil)
	require.NoError(t, err)

	a := h.byID["a"]
	assert.Equal(t, "bid-accepted", string(a.Record.Status))
	assert.True(t, a.IsBounty())
	require.NotNil(t, a.Record.AcceptedBid)
	assert.Equal(t, int64(700), a.Record.AcceptedBid.BidAmount)
	assert.Equal(t, "seeker", string(a.Record.BidAcceptedBy))
	assert.Equal(t, int64(1000), a.Record.MinAllowableBid, "preset field kept")
	assert.Equal(t, fixtureTxid(1), a.Record.Txid)

	b := h.byID["b"]
	assert.Equal(t, "initial", string(b.Record.Status))
	assert.Equal(t, fixtureTxid(2), b.Record.Txid)
	assert.Empty(t, b.Record.Bids)
	assert.Equal(t, scenario.Now+7*24*3600, b.Record.WorkCompletionDeadline)
}

func TestRun_BrokenScenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "accepted index out of range",
			content: `
name: n
description: d
contracts: [{id: a, acceptedBidIndex: 2}]
flow: [{op: aggregate}]`,
			wantErr: `contract "a": acceptedBidIndex 2 out of range`,
		},
		{
			name: "record type mismatch",
			content: `
name: n
description: d
contracts: [{id: a, record: {status: sleeping}}]
flow: [{op: aggregate}]`,
			wantErr: `contract "a"`,
		},
		{
			name: "fractional arg",
			content: `
name: n
description: d
contracts: [{id: a}]
flow: [{op: validate-bid, contract: a, args: {bidAmount: 1.5}}]`,
			wantErr: "fractional numbers are not allowed",
		},
		{
			name: "null arg",
			content: `
name: n
description: d
contracts: [{id: a}]
flow: [{op: validate-bid, contract: a, args: {bidAmount: null}}]`,
			wantErr: "null values are not allowed",
		},
		{
			name: "wrong arg type",
			content: `
name: n
description: d
contracts: [{id: a}]
flow: [{op: validate-bid, contract: a, args: {bidAmount: lots}}]`,
			wantErr: `arg "bidAmount": want integer, got string`,
		},
		{
			name: "unknown sort key",
			content: `
name: n
description: d
contracts: [{id: a}]
flow: [{op: sort-bids, contract: a, args: {key: random}}]`,
			wantErr: "flow step 0 (sort-bids)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := mustParse(t, tt.content)
			_, err := Run(scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func mustParse(t *testing.T, content string) *Scenario {
	t.Helper()
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)
	return scenario
}
