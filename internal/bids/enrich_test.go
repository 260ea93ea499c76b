package bids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/testutil"
)

func TestEnrich_IndexesRealBidsOnly(t *testing.T) {
	s := testutil.WithBids(testutil.Snapshot(contract.StatusInitial, 10_000),
		testutil.RealBid(1, 2000, testutil.Now-300),
		contract.Bid{},
		testutil.RealBid(2, 3000, testutil.Now-200),
		testutil.RealBid(3, 1500, testutil.Now-100),
	)

	got := Enrich(s)

	require.Len(t, got, 3)
	for i, b := range got {
		assert.Equal(t, i, b.Index)
		assert.Equal(t, i == 2, b.IsLatest)
		assert.False(t, b.IsAccepted)
		assert.Equal(t, contract.BidHash(b.Bid), b.Hash)
	}
	assert.Equal(t, testutil.Key(2), got[1].FurnisherKey)
}

func TestEnrich_Empty(t *testing.T) {
	got := Enrich(testutil.Snapshot(contract.StatusInitial, 10_000))
	assert.Empty(t, got)

	_, state := Accepted(testutil.Snapshot(contract.StatusInitial, 10_000))
	assert.Equal(t, MatchNone, state)
}

func TestAccepted_Unique(t *testing.T) {
	winner := testutil.RealBid(2, 3000, testutil.Now-200)
	s := testutil.WithBids(testutil.Snapshot(contract.StatusBidAccepted, 10_000),
		testutil.RealBid(1, 2000, testutil.Now-300),
		winner,
	)
	s = testutil.WithAccepted(s, winner, contract.AcceptedBySeeker)

	got, state := Accepted(s)

	assert.Equal(t, MatchUnique, state)
	assert.Equal(t, 1, got.Index)
	assert.True(t, got.IsAccepted)
}

func TestAccepted_PairMatchIgnoresAmounts(t *testing.T) {
	bid := testutil.RealBid(1, 2000, testutil.Now-300)
	s := testutil.WithBids(testutil.Snapshot(contract.StatusBidAccepted, 10_000), bid)

	recorded := bid
	recorded.BidAmount = 2500
	s = testutil.WithAccepted(s, recorded, contract.AcceptedBySeeker)

	got, state := Accepted(s)
	assert.Equal(t, MatchUnique, state)
	assert.Equal(t, int64(2000), got.BidAmount)
}

func TestAccepted_CollisionResolvedByFullTuple(t *testing.T) {
	first := testutil.RealBid(1, 2000, testutil.Now-300)
	second := first
	second.TimeOfBid = testutil.Now - 100
	second.BidAmount = 1800

	s := testutil.WithBids(testutil.Snapshot(contract.StatusBidAccepted, 10_000), first, second)
	s = testutil.WithAccepted(s, second, contract.AcceptedBySeeker)

	enriched := Enrich(s)
	assert.False(t, enriched[0].IsAccepted)
	assert.True(t, enriched[1].IsAccepted)

	got, state := Accepted(s)
	assert.Equal(t, MatchUnique, state)
	assert.Equal(t, 1, got.Index)
}

func TestAccepted_CollisionReportedAsAmbiguous(t *testing.T) {
	first := testutil.RealBid(1, 2000, testutil.Now-300)
	second := first
	second.TimeOfBid = testutil.Now - 100

	s := testutil.WithBids(testutil.Snapshot(contract.StatusBidAccepted, 10_000), first, second)
	// Neither slot equals the recorded tuple.
	recorded := first
	recorded.TimeOfBid = testutil.Now - 50
	s = testutil.WithAccepted(s, recorded, contract.AcceptedBySeeker)

	enriched := Enrich(s)
	assert.True(t, enriched[0].IsAccepted)
	assert.True(t, enriched[1].IsAccepted)

	got, state := Accepted(s)
	assert.Equal(t, MatchAmbiguous, state)
	assert.Equal(t, AnnotatedBid{}, got)
	assert.Equal(t, "ambiguous", state.String())
}

func TestAccepted_NoMatchingRealBid(t *testing.T) {
	s := testutil.WithBids(testutil.Snapshot(contract.StatusBidAccepted, 10_000), testutil.RealBid(1, 2000, testutil.Now))
	s = testutil.WithAccepted(s, testutil.RealBid(9, 2000, testutil.Now), contract.AcceptedByPlatform)

	_, state := Accepted(s)
	assert.Equal(t, MatchNone, state)
}

func TestFormatPlans(t *testing.T) {
	assert.Equal(t, "Hello", FormatPlans("48656c6c6f", 100))
	assert.Equal(t, "Hel...", FormatPlans("48656c6c6f", 3))
}
