package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/paragon/internal/contract"
)

// ErrNoBatch is returned when no batch has been stored for a role.
var ErrNoBatch = errors.New("no fetch batch stored")

// LatestBatch returns the most recently written batch for role.
// Returns ErrNoBatch if nothing has been stored yet.
func (s *Store) LatestBatch(ctx context.Context, role contract.Role) (Batch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, role, seq, fetched_at, snapshot_count
		FROM fetch_batches
		WHERE role = ?
		ORDER BY seq DESC
		LIMIT 1
	`, string(role))

	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, fmt.Errorf("latest batch for %s: %w", role, ErrNoBatch)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("latest batch for %s: %w", role, err)
	}
	return b, nil
}

// ListBatches returns every batch for role, oldest first.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ListBatches(ctx context.Context, role contract.Role) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, seq, fetched_at, snapshot_count
		FROM fetch_batches
		WHERE role = ?
		ORDER BY seq ASC
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// ReadSnapshots returns the snapshots of a batch in the order they were
// written. Returns an empty slice (not nil) for an empty or unknown batch.
func (s *Store) ReadSnapshots(ctx context.Context, batchID string) ([]contract.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT satoshis, record
		FROM snapshots
		WHERE batch_id = ?
		ORDER BY position ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	return collectSnapshots(rows)
}

// ReadSnapshotsByStatus is ReadSnapshots restricted to one status.
func (s *Store) ReadSnapshotsByStatus(ctx context.Context, batchID string, status contract.Status) ([]contract.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT satoshis, record
		FROM snapshots
		WHERE batch_id = ? AND status = ?
		ORDER BY position ASC
	`, batchID, string(status))
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	return collectSnapshots(rows)
}

// LatestSnapshots reads the snapshots of the latest batch for role.
func (s *Store) LatestSnapshots(ctx context.Context, role contract.Role) (Batch, []contract.Snapshot, error) {
	b, err := s.LatestBatch(ctx, role)
	if err != nil {
		return Batch{}, nil, err
	}
	snaps, err := s.ReadSnapshots(ctx, b.ID)
	if err != nil {
		return Batch{}, nil, err
	}
	return b, snaps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (Batch, error) {
	var b Batch
	var role string
	if err := row.Scan(&b.ID, &role, &b.Seq, &b.FetchedAt, &b.SnapshotCount); err != nil {
		return Batch{}, err
	}
	b.Role = contract.Role(role)
	return b, nil
}

func collectSnapshots(rows *sql.Rows) ([]contract.Snapshot, error) {
	defer rows.Close()

	snaps := []contract.Snapshot{}
	for rows.Next() {
		var satoshis int64
		var data string
		if err := rows.Scan(&satoshis, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		record, err := unmarshalRecord(data)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, contract.Snapshot{Record: record, Satoshis: satoshis})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}
