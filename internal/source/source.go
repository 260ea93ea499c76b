// Package source adapts the places contract snapshots come from to one
// interface. The engine never fetches anything itself; callers fetch through
// a Source and hand the resulting values to the pure packages.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/store"
)

// Source returns the contracts visible to a role.
type Source interface {
	Fetch(ctx context.Context, role contract.Role) ([]contract.Snapshot, error)
}

// Static is a Source over an in-memory fleet. Every role sees all of it.
type Static []contract.Snapshot

// Fetch returns a copy of the fleet.
func (s Static) Fetch(ctx context.Context, role contract.Role) ([]contract.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]contract.Snapshot{}, s...), nil
}

// Cache reads the latest batch stored for the role.
type Cache struct {
	Store *store.Store
}

// Fetch returns the snapshots of the role's latest batch.
// Wraps store.ErrNoBatch when nothing has been imported yet.
func (c Cache) Fetch(ctx context.Context, role contract.Role) ([]contract.Snapshot, error) {
	_, snaps, err := c.Store.LatestSnapshots(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("cache fetch: %w", err)
	}
	return snaps, nil
}

// Recorder fetches from Upstream and writes every successful fetch to Store
// as a new batch.
type Recorder struct {
	Upstream Source
	Store    *store.Store
	Logger   *slog.Logger
}

// Fetch fetches from upstream, then stores the result. A fetch that cannot be
// stored is returned as an error; the snapshots are not.
func (r Recorder) Fetch(ctx context.Context, role contract.Role) ([]contract.Snapshot, error) {
	snaps, err := r.Upstream.Fetch(ctx, role)
	if err != nil {
		return nil, err
	}

	batch, err := r.Store.WriteBatch(ctx, role, snaps)
	if err != nil {
		return nil, fmt.Errorf("record fetch: %w", err)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("recorded fetch", "role", role, "batch", batch.ID, "snapshots", batch.SnapshotCount)
	return snaps, nil
}
