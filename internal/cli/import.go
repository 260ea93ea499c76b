package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/source"
	"github.com/roach88/paragon/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Keep int

	// IDGenerator overrides the batch ID generator (for testing).
	// If nil, the store uses UUIDv7.
	IDGenerator store.IDGenerator
	// Clock overrides the batch fetch time (for testing).
	Clock store.Clock
}

// ImportResult is the import command result.
type ImportResult struct {
	Batch    store.Batch `json:"batch"`
	Pruned   int64       `json:"pruned"`
	Retained int         `json:"retained"` // batches of the role left in the cache
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <snapshots.json>",
		Short: "Record a snapshot document in the cache",
		Long: `Validate a snapshot document and store it in the SQLite cache as a new
fetch batch for --role. Later commands read the role's latest batch with
--db instead of --input.

Examples:
  paragon import --db paragon.db fleet.json
  paragon import --db paragon.db --role platform --keep 10 fleet.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "prune all but the newest N batches of the role (0: keep all)")
	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	if opts.Keep < 0 {
		return NewExitError(ExitCommandError, "--keep must be non-negative")
	}

	storeOpts := []store.Option{store.WithLogger(slog.Default())}
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}

	slog.Debug("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	role := opts.role()
	rec := source.Recorder{
		Upstream: source.File{Path: path},
		Store:    st,
	}
	if _, err := rec.Fetch(ctx, role); err != nil {
		return WrapExitError(ExitCommandError, "import failed", err)
	}

	batch, err := st.LatestBatch(ctx, role)
	if err != nil {
		return WrapExitError(ExitCommandError, "import failed", err)
	}
	result := ImportResult{Batch: batch}

	if opts.Keep > 0 {
		result.Pruned, err = st.Prune(ctx, role, opts.Keep)
		if err != nil {
			return WrapExitError(ExitCommandError, "prune failed", err)
		}
	}

	kept, err := st.ListBatches(ctx, role)
	if err != nil {
		return WrapExitError(ExitCommandError, "import failed", err)
	}
	result.Retained = len(kept)
	return opts.formatter(cmd).Success(result)
}

func (r ImportResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Imported %s snapshot(s) for %s as batch %d (%s)\n",
		humanize.Comma(int64(r.Batch.SnapshotCount)), r.Batch.Role, r.Batch.Seq, r.Batch.ID)
	if r.Pruned > 0 {
		fmt.Fprintf(w, "Pruned %d older batch(es)\n", r.Pruned)
	}
	_, err := fmt.Fprintf(w, "%d batch(es) cached for %s\n", r.Retained, r.Batch.Role)
	return err
}
