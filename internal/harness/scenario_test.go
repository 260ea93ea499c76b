package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
contracts:
  - id: logo
    satoshis: 5000
    record: {status: initial}
flow:
  - op: eligibility
    contract: logo
    expect: {accept-bid: false}
assertions:
  - type: trace_count
    op: eligibility
    count: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, DefaultNow, scenario.Now)
	assert.Equal(t, contract.NetworkLocal, scenario.Network)
	assert.Equal(t, contract.RoleSeeker, scenario.Role)
	require.Len(t, scenario.Contracts, 1)
	assert.Equal(t, int64(5000), scenario.Contracts[0].Satoshis)
	require.Len(t, scenario.Flow, 1)
	assert.Equal(t, OpEligibility, scenario.Flow[0].Op)
	assert.Equal(t, false, scenario.Flow[0].Expect["accept-bid"])
	assert.Len(t, scenario.Assertions, 1)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_AllFixturesParse(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			_, err := LoadScenario(file)
			require.NoError(t, err)
		})
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
flow: [{op: aggregate}]`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
flow: [{op: aggregate}]`,
			wantErr: "description is required",
		},
		{
			name: "empty flow",
			content: `
name: n
description: d
flow: []`,
			wantErr: "flow list is required",
		},
		{
			name: "unknown field",
			content: `
name: n
description: d
specs: [a.cue]
flow: [{op: aggregate}]`,
			wantErr: "failed to parse YAML",
		},
		{
			name: "unknown op",
			content: `
name: n
description: d
flow: [{op: launch}]`,
			wantErr: `unknown op "launch"`,
		},
		{
			name: "unknown contract",
			content: `
name: n
description: d
flow: [{op: real-bids, contract: ghost}]`,
			wantErr: `real-bids needs a known contract, got "ghost"`,
		},
		{
			name: "duplicate contract id",
			content: `
name: n
description: d
contracts: [{id: a}, {id: a}]
flow: [{op: aggregate}]`,
			wantErr: `duplicate id "a"`,
		},
		{
			name: "unknown role",
			content: `
name: n
description: d
role: auditor
flow: [{op: aggregate}]`,
			wantErr: "failed to parse YAML",
		},
		{
			name: "permits without allowed",
			content: `
name: n
description: d
contracts: [{id: a}]
flow: [{op: aggregate}]
assertions: [{type: permits, contract: a, action: accept-bid}]`,
			wantErr: "action and allowed are required",
		},
		{
			name: "unknown assertion type",
			content: `
name: n
description: d
flow: [{op: aggregate}]
assertions: [{type: final_state}]`,
			wantErr: `unknown assertion type "final_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
