package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/source"
	"github.com/roach88/paragon/internal/testutil"
)

var nowFlag = []string{"--now", strconv.FormatInt(testutil.Now, 10)}

// testFleet is three contracts: an open one with two bids, submitted work
// due in two hours, and a resolved one.
func testFleet() []contract.Snapshot {
	open := testutil.WithBids(testutil.Snapshot(contract.StatusInitial, 5000),
		testutil.RealBid(1, 4000, testutil.Now-7200),
		testutil.RealBid(2, 3500, testutil.Now-600),
		contract.Bid{},
	)

	winner := testutil.RealBid(3, 11000, testutil.Now-2*86400)
	submitted := testutil.WithAccepted(
		testutil.WithBids(testutil.Snapshot(contract.StatusWorkSubmitted, 12000), winner),
		winner, contract.AcceptedBySeeker,
	)
	submitted.Record.Txid = testutil.Txid(2)
	submitted.Record.WorkCompletionDeadline = testutil.Now + 7200
	submitted.Record.WorkDescription = "Write a market report"

	resolved := testutil.Snapshot(contract.StatusResolved, 9000)
	resolved.Record.Txid = testutil.Txid(3)
	resolved.Record.WorkDescription = "Translate a brochure"

	return []contract.Snapshot{open, submitted, resolved}
}

func outpoint(n int) string {
	return testutil.Txid(n) + ".0"
}

func writeFleet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, source.Encode(f, testFleet()))
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData decodes a JSON CLIResponse and its data payload into data.
func decodeData(t *testing.T, output string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &raw), output)
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.CLIResponse
}
