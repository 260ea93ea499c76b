package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/config"
	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/testutil"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, append(args, nowFlag...)...)
	require.NoError(t, err, out)
	return out
}

func TestContracts_JSON(t *testing.T) {
	fleet := writeFleet(t)

	var list ContractList
	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json"), &list)

	require.Len(t, list.Contracts, 3)
	assert.Equal(t, testutil.Now, list.Now)
	assert.Equal(t, "seeker", list.Role)
	// newest first by first real bid; the resolved contract has none
	assert.Equal(t, outpoint(1), list.Contracts[0].Outpoint)
	assert.Equal(t, outpoint(2), list.Contracts[1].Outpoint)
	assert.Equal(t, outpoint(3), list.Contracts[2].Outpoint)

	open := list.Contracts[0]
	assert.Equal(t, 2, open.Bids)
	assert.Equal(t, []string{"accept-bid", "cancel-contract", "increase-bounty", "view-details"}, open.Actions)

	submitted := list.Contracts[1]
	assert.True(t, submitted.Approaching)
	assert.False(t, submitted.Passed)
	assert.Equal(t, "Write a market report", submitted.Title)
}

func TestContracts_Query(t *testing.T) {
	fleet := writeFleet(t)

	var list ContractList
	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json", "--sort", "amount-high"), &list)
	require.Len(t, list.Contracts, 3)
	assert.Equal(t, []int64{12000, 9000, 5000}, []int64{
		list.Contracts[0].Satoshis, list.Contracts[1].Satoshis, list.Contracts[2].Satoshis,
	})

	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json", "--no-bids"), &list)
	require.Len(t, list.Contracts, 1)
	assert.Equal(t, outpoint(3), list.Contracts[0].Outpoint)

	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json", "--search", "REPORT", "--status", "work-submitted"), &list)
	require.Len(t, list.Contracts, 1)
	assert.Equal(t, outpoint(2), list.Contracts[0].Outpoint)

	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json", "--min-bounty", "6000", "--max-bounty", "10000"), &list)
	require.Len(t, list.Contracts, 1)
	assert.Equal(t, int64(9000), list.Contracts[0].Satoshis)

	decodeData(t, run(t, "contracts", "-i", fleet, "--format", "json", "--sort", "amount-low", "--limit", "2"), &list)
	require.Len(t, list.Contracts, 2)
	assert.Equal(t, int64(5000), list.Contracts[0].Satoshis)
}

func TestContracts_Text(t *testing.T) {
	out := run(t, "contracts", "-i", writeFleet(t), "--status", "initial")

	assert.Contains(t, out, "Design a logo for a coffee shop")
	assert.Contains(t, out, "Open for Bids")
	assert.Contains(t, out, "5,000 sat")
	assert.Contains(t, out, "2 bids")
	assert.Contains(t, out, "1 week from now")
	assert.Contains(t, out, "1 contract(s)")

	out = run(t, "contracts", "-i", writeFleet(t), "--status", "disputed-by-seeker")
	assert.Contains(t, out, "No contracts found.")
}

func TestContracts_InvalidFlags(t *testing.T) {
	fleet := writeFleet(t)
	for _, args := range [][]string{
		{"--status", "paused"},
		{"--sort", "random"},
		{"--min-bounty", "-1"},
	} {
		_, err := execute(t, append([]string{"contracts", "-i", fleet}, args...)...)
		require.Error(t, err, args)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	}
}

func TestActions_Furnisher(t *testing.T) {
	var view ActionsView
	decodeData(t, run(t, "actions", "-i", writeFleet(t), "--format", "json",
		"--role", "furnisher", "--identity", testutil.Key(3), outpoint(2)), &view)

	assert.Equal(t, "furnisher", view.Role)
	assert.Equal(t, []string{"raise-dispute", "view-details"}, view.Actions)
	assert.Equal(t, int64(7200), view.Remaining)
	assert.True(t, view.Approaching)
	assert.Empty(t, view.Invariants)
}

func TestActions_Text(t *testing.T) {
	out := run(t, "actions", "-i", writeFleet(t), "--role", "platform", strings.Replace(outpoint(2), ".", ":", 1))

	assert.Contains(t, out, "status:   Work Submitted")
	assert.Contains(t, out, "12,000 sat")
	assert.Contains(t, out, "(approaching)")
	assert.Contains(t, out, "Actions for platform:\n  - view-details\n")
}

func TestActions_NotFound(t *testing.T) {
	_, err := execute(t, "actions", "-i", writeFleet(t), outpoint(9))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract not found")

	_, err = execute(t, "actions", "-i", writeFleet(t), "nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid outpoint")
}

func TestBids(t *testing.T) {
	fleet := writeFleet(t)

	var view BidsView
	decodeData(t, run(t, "bids", "-i", fleet, "--format", "json", "--sort", "amount-low", outpoint(1)), &view)

	require.Len(t, view.Bids, 2)
	assert.Equal(t, "none", view.Match)
	assert.Equal(t, 1, view.Bids[0].Index)
	assert.Equal(t, int64(3500), view.Bids[0].BidAmount)
	assert.True(t, view.Bids[0].Latest)
	assert.True(t, view.Bids[0].Recent)
	assert.Equal(t, 0, view.Bids[1].Index)
	assert.False(t, view.Bids[1].Recent)
	assert.Equal(t, 2, view.Stats.Count)
	require.NotNil(t, view.Stats.Lowest)
	assert.Equal(t, int64(3500), *view.Stats.Lowest)
	assert.Equal(t, int64(3750), view.Stats.Average)

	decodeData(t, run(t, "bids", "-i", fleet, "--format", "json", outpoint(2)), &view)
	assert.Equal(t, "unique", view.Match)
	require.Len(t, view.Bids, 1)
	assert.True(t, view.Bids[0].Accepted)

	out := run(t, "bids", "-i", fleet, outpoint(1))
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "[latest] [new]")
	assert.Contains(t, out, "lowest 3,500, highest 4,000, average 3,750 sat")

	out = run(t, "bids", "-i", fleet, outpoint(3))
	assert.Contains(t, out, "No bids yet.")

	_, err := execute(t, "bids", "-i", fleet, "--sort", "cheapest", outpoint(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --sort")
}

func TestStats(t *testing.T) {
	fleet := writeFleet(t)

	var view StatsView
	decodeData(t, run(t, "stats", "-i", fleet, "--format", "json"), &view)
	assert.Equal(t, 3, view.TotalContracts)
	assert.Equal(t, 1, view.OpenContracts)
	assert.Equal(t, 1, view.ActiveContracts)
	assert.Equal(t, 1, view.CompletedContracts)
	assert.Equal(t, 0, view.DisputedContracts)
	assert.Equal(t, int64(17000), view.TotalBountyLocked)

	out := run(t, "stats", "-i", fleet)
	assert.Contains(t, out, "Locked:       17,000 sat")
}

func TestValidateBid_Valid(t *testing.T) {
	var result ValidateBidResult
	resp := decodeData(t, run(t, "validate-bid", "-i", writeFleet(t), "--format", "json",
		"--furnisher", testutil.Key(7),
		"--plans", "Three concepts and two rounds of revisions",
		"--amount", "4500",
		outpoint(1),
	), &result)

	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, testutil.Now, result.Bid.TimeOfBid)
	assert.Equal(t, testutil.Now+86400, result.Bid.TimeRequired)
	assert.Equal(t, testutil.Key(7), result.Bid.FurnisherKey)
}

func TestValidateBid_PlansFileAndIdentity(t *testing.T) {
	plans := filepath.Join(t.TempDir(), "plans.txt")
	require.NoError(t, os.WriteFile(plans, []byte("A full report with sources and charts"), 0644))

	out := run(t, "validate-bid", "-i", writeFleet(t),
		"--identity", testutil.Key(8),
		"--plans-file", plans,
		"--amount", "2000",
		"--time-required", "7200",
		outpoint(1),
	)
	assert.Contains(t, out, "Bid of 2,000 sat")
	assert.Contains(t, out, "✓ valid")
}

func TestValidateBid_Invalid(t *testing.T) {
	out, err := execute(t, "validate-bid", "-i", writeFleet(t), "--format", "json",
		"--furnisher", testutil.Key(7),
		"--plans", "Three concepts and two rounds of revisions",
		"--amount", "500",
		"--now", "1700000000",
		outpoint(1),
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidateBidResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidBid, resp.Error.Code)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"Bid amount must be at least 1000 satoshis"}, result.Errors)
}

func TestImportThenReadFromCache(t *testing.T) {
	fleet := writeFleet(t)
	db := filepath.Join(t.TempDir(), "paragon.db")

	var first ImportResult
	decodeData(t, run(t, "import", "--db", db, "--format", "json", fleet), &first)
	assert.Equal(t, int64(1), first.Batch.Seq)
	assert.Equal(t, 3, first.Batch.SnapshotCount)
	assert.Equal(t, contract.RoleSeeker, first.Batch.Role)
	assert.Zero(t, first.Pruned)
	assert.Equal(t, 1, first.Retained)

	var second ImportResult
	decodeData(t, run(t, "import", "--db", db, "--format", "json", "--keep", "1", fleet), &second)
	assert.Equal(t, int64(2), second.Batch.Seq)
	assert.Equal(t, int64(1), second.Pruned)
	assert.Equal(t, 1, second.Retained)

	var list ContractList
	decodeData(t, run(t, "contracts", "--db", db, "--format", "json"), &list)
	assert.Len(t, list.Contracts, 3)

	out := run(t, "import", "--db", db, fleet)
	assert.Contains(t, out, "Imported 3 snapshot(s) for seeker as batch 3")
	assert.Contains(t, out, "2 batch(es) cached for seeker")

	_, err := execute(t, "stats", "--db", db, "--role", "platform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshots cached for role platform")
}

func TestImport_Errors(t *testing.T) {
	_, err := execute(t, "import", writeFleet(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db is required")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"snapshots":[{"satoshis":1}]}`), 0644))
	_, err = execute(t, "import", "--db", filepath.Join(t.TempDir(), "p.db"), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import failed")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfig(t *testing.T) {
	t.Setenv(config.EnvNetwork, "")
	t.Setenv(config.EnvPlatformKey, "")

	var cfg config.GlobalConfig
	decodeData(t, run(t, "config", "--network", "testnet", "--format", "json"), &cfg)
	assert.Equal(t, contract.NetworkTestnet, cfg.NetworkPreset)
	assert.Equal(t, int64(1000), cfg.MinAllowableBid)

	policy := filepath.Join(t.TempDir(), "policy.cue")
	require.NoError(t, os.WriteFile(policy, []byte("minAllowableBid: 5000\n"), 0644))
	out := run(t, "config", "--config", policy)
	assert.Contains(t, out, "minAllowableBid: 5000")
	assert.Contains(t, out, "networkPreset: local")

	_, err := execute(t, "config", "--network", "moonnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --network")

	_, err = execute(t, "config", "--config", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy file not found")
}

func TestMetrics(t *testing.T) {
	fleet := writeFleet(t)

	out := run(t, "metrics", "-i", fleet)
	assert.Contains(t, out, "paragon_bounty_locked_satoshis 17000")
	assert.Contains(t, out, `paragon_contracts{group="total"} 3`)
	assert.Contains(t, out, `paragon_actions_available{action="accept-bid",role="seeker"} 1`)
	assert.Contains(t, out, "paragon_deadline_approaching 1")

	path := filepath.Join(t.TempDir(), "paragon.prom")
	out = run(t, "metrics", "-i", fleet, "--textfile", path)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "paragon_bids 3")
}
