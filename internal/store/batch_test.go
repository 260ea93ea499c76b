package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/testutil"
)

func fleet() []contract.Snapshot {
	open := testutil.WithBids(testutil.Snapshot(contract.StatusInitial, 5000),
		testutil.RealBid(1, 4000, testutil.Now-100))

	accepted := testutil.Snapshot(contract.StatusBidAccepted, 8000)
	accepted.Record.Txid = testutil.Txid(2)
	accepted = testutil.WithAccepted(accepted, testutil.RealBid(2, 7000, testutil.Now-50), contract.AcceptedBySeeker)

	bounty := testutil.Bounty(contract.StatusWorkStarted, 20000)
	bounty.Record.Txid = testutil.Txid(3)
	bounty.Record.WorkDescription = "Translate <b>docs</b> & keep markup"

	return []contract.Snapshot{open, accepted, bounty}
}

func TestWriteBatch_RoundTrip(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	snaps := fleet()

	batch, err := s.WriteBatch(ctx, contract.RoleSeeker, snaps)
	require.NoError(t, err)
	assert.Equal(t, Batch{
		ID:            "batch-0001",
		Role:          contract.RoleSeeker,
		Seq:           1,
		FetchedAt:     testutil.Now,
		SnapshotCount: 3,
	}, batch)

	got, err := s.ReadSnapshots(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, snaps, got)
}

func TestWriteBatch_EmptyBatch(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	batch, err := s.WriteBatch(ctx, contract.RolePlatform, nil)
	require.NoError(t, err)
	assert.Zero(t, batch.SnapshotCount)

	got, err := s.ReadSnapshots(ctx, batch.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWriteBatch_RejectsDuplicateOutpoint(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	snap := testutil.Snapshot(contract.StatusInitial, 5000)

	_, err := s.WriteBatch(ctx, contract.RoleSeeker, []contract.Snapshot{snap, snap})
	require.Error(t, err)

	// Nothing from the failed batch is visible.
	_, err = s.LatestBatch(ctx, contract.RoleSeeker)
	assert.ErrorIs(t, err, ErrNoBatch)
}

func TestWriteBatch_RejectsUnknownRole(t *testing.T) {
	s, _ := createTestStore(t)

	_, err := s.WriteBatch(context.Background(), contract.Role("auditor"), fleet())
	assert.ErrorContains(t, err, "write batch")
}

func TestLatestBatch_OrdersBySeqNotTime(t *testing.T) {
	s, clock := createTestStore(t)
	ctx := context.Background()

	first, err := s.WriteBatch(ctx, contract.RoleSeeker, fleet()[:1])
	require.NoError(t, err)

	// Same wall second: seq still orders the batches.
	second, err := s.WriteBatch(ctx, contract.RoleSeeker, fleet()[1:])
	require.NoError(t, err)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)

	clock.Advance(60)
	_, err = s.WriteBatch(ctx, contract.RoleFurnisher, fleet())
	require.NoError(t, err)

	latest, snaps, err := s.LatestSnapshots(ctx, contract.RoleSeeker)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, int64(2), latest.Seq)
	assert.Len(t, snaps, 2)
}

func TestLatestBatch_NoBatch(t *testing.T) {
	s, _ := createTestStore(t)

	_, err := s.LatestBatch(context.Background(), contract.RoleFurnisher)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBatch))
}

func TestReadSnapshotsByStatus(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	batch, err := s.WriteBatch(ctx, contract.RoleSeeker, fleet())
	require.NoError(t, err)

	got, err := s.ReadSnapshotsByStatus(ctx, batch.ID, contract.StatusBidAccepted)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testutil.Txid(2), got[0].Record.Txid)
	require.NotNil(t, got[0].Record.AcceptedBid)
	assert.Equal(t, int64(7000), got[0].Record.AcceptedBid.BidAmount)
}

func TestReadSnapshots_RejectsCorruptRecord(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	batch, err := s.WriteBatch(ctx, contract.RoleSeeker, fleet()[:1])
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE snapshots SET record = '{"status":"abandoned"}' WHERE batch_id = ?`, batch.ID)
	require.NoError(t, err)

	_, err = s.ReadSnapshots(ctx, batch.ID)
	assert.ErrorContains(t, err, "unmarshal record")
}

func TestListBatchesAndPrune(t *testing.T) {
	s, clock := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := s.WriteBatch(ctx, contract.RoleSeeker, fleet())
		require.NoError(t, err)
		clock.Advance(3600)
	}
	_, err := s.WriteBatch(ctx, contract.RolePlatform, fleet())
	require.NoError(t, err)

	removed, err := s.Prune(ctx, contract.RoleSeeker, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	batches, err := s.ListBatches(ctx, contract.RoleSeeker)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "batch-0004", batches[0].ID)

	// Snapshots of pruned batches are gone with them.
	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE batch_id = 'batch-0001'`).Scan(&count))
	assert.Zero(t, count)

	// Other roles are untouched.
	platform, err := s.ListBatches(ctx, contract.RolePlatform)
	require.NoError(t, err)
	assert.Len(t, platform, 1)

	_, err = s.Prune(ctx, contract.RoleSeeker, -1)
	assert.Error(t, err)
}
