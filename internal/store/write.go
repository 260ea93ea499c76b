package store

import (
	"context"
	"fmt"

	"github.com/roach88/paragon/internal/contract"
)

// Batch describes one stored fetch.
type Batch struct {
	ID            string        `json:"id"`
	Role          contract.Role `json:"role"`
	Seq           int64         `json:"seq"`
	FetchedAt     int64         `json:"fetchedAt"`
	SnapshotCount int           `json:"snapshotCount"`
}

// WriteBatch stores snaps as a new batch for role and returns it.
//
// The batch and its snapshots are written in one transaction. A batch
// containing the same outpoint twice is rejected and nothing is written.
// An empty batch is valid: it records that the fetch returned nothing.
func (s *Store) WriteBatch(ctx context.Context, role contract.Role, snaps []contract.Snapshot) (Batch, error) {
	if _, err := contract.ParseRole(string(role)); err != nil {
		return Batch{}, fmt.Errorf("write batch: %w", err)
	}

	records := make([]string, len(snaps))
	for i, snap := range snaps {
		data, err := marshalRecord(snap.Record)
		if err != nil {
			return Batch{}, fmt.Errorf("write batch: snapshot %d: %w", i, err)
		}
		records[i] = data
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	batch := Batch{
		ID:            s.ids.Generate(),
		Role:          role,
		FetchedAt:     s.clock.Now(),
		SnapshotCount: len(snaps),
	}
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM fetch_batches`).Scan(&batch.Seq); err != nil {
		return Batch{}, fmt.Errorf("write batch: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fetch_batches (id, role, seq, fetched_at, snapshot_count)
		VALUES (?, ?, ?, ?, ?)
	`, batch.ID, string(batch.Role), batch.Seq, batch.FetchedAt, batch.SnapshotCount)
	if err != nil {
		return Batch{}, fmt.Errorf("write batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshots (batch_id, position, txid, output_index, status, satoshis, record)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Batch{}, fmt.Errorf("write batch: prepare: %w", err)
	}
	defer stmt.Close()

	for i, snap := range snaps {
		_, err := stmt.ExecContext(ctx,
			batch.ID,
			i,
			snap.Record.Txid,
			snap.Record.OutputIndex,
			string(snap.Record.Status),
			snap.Satoshis,
			records[i],
		)
		if err != nil {
			return Batch{}, fmt.Errorf("write batch: snapshot %s: %w", snap.Outpoint(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, fmt.Errorf("write batch: commit: %w", err)
	}

	s.logger.Debug("fetch batch stored",
		"batch", batch.ID,
		"role", batch.Role,
		"seq", batch.Seq,
		"snapshots", batch.SnapshotCount,
	)
	return batch, nil
}

// Prune deletes all but the newest keep batches of role and returns how many
// batches were removed. Snapshot rows go with their batch.
func (s *Store) Prune(ctx context.Context, role contract.Role, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune: keep must be non-negative, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM fetch_batches
		WHERE role = ?
		  AND id NOT IN (
			SELECT id FROM fetch_batches
			WHERE role = ?
			ORDER BY seq DESC
			LIMIT ?
		  )
	`, string(role), string(role), keep)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	if n > 0 {
		s.logger.Info("pruned fetch batches", "role", role, "removed", n, "kept", keep)
	}
	return n, nil
}
