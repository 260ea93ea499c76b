package testutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
)

func TestBuildersProduceConsistentSnapshots(t *testing.T) {
	s := WithBids(Bounty(contract.StatusInitial, 5000), RealBid(1, 5000, Now), contract.Bid{})
	s = WithAccepted(s, s.Record.Bids[0], contract.AcceptedBySeeker)

	assert.True(t, contract.ValidatePublicKey(Key(1)).Valid)
	assert.True(t, contract.ValidateTxid(s.Record.Txid).Valid)
	assert.True(t, contract.CheckInvariants(s).Valid)
}

func TestWithAccepted_CopiesBid(t *testing.T) {
	b := RealBid(1, 5000, Now)
	s := WithAccepted(Snapshot(contract.StatusBidAccepted, 5000), b, contract.AcceptedByPlatform)

	b.BidAmount = 1
	require.NotNil(t, s.Record.AcceptedBid)
	assert.Equal(t, int64(5000), s.Record.AcceptedBid.BidAmount)
}

func TestShuffled_IsPermutation(t *testing.T) {
	in := []contract.Snapshot{
		Snapshot(contract.StatusInitial, 1),
		Snapshot(contract.StatusResolved, 2),
		Snapshot(contract.StatusWorkStarted, 3),
	}

	out := Shuffled(rand.New(rand.NewSource(1)), in)

	assert.ElementsMatch(t, in, out)
	assert.Equal(t, int64(1), in[0].Satoshis, "input untouched")
}
