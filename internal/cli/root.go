package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/config"
	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/source"
	"github.com/roach88/paragon/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Network string // overrides PARAGON_NETWORK
	Config  string // CUE policy file applied over the preset

	Database string // SQLite snapshot cache
	Input    string // snapshot document; takes precedence over Database

	Role     string
	Identity string
	Now      int64 // Unix seconds; 0 reads the wall clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the paragon CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "paragon",
		Short: "Paragon escrow contract rules",
		Long: `Inspect escrow contract snapshots with the Paragon rule engine.

Snapshots come from a JSON document (--input) or from the SQLite cache
filled by "paragon import" (--db). Every command evaluates them as the
party given by --role and --identity, at --now or the current time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := contract.ParseRole(opts.Role); err != nil {
				return WrapExitError(ExitCommandError, "invalid --role", err)
			}

			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Network, "network", "", "network preset (mainnet|testnet|local), default $"+config.EnvNetwork+" or local")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE policy file applied over the network preset")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite snapshot cache")
	cmd.PersistentFlags().StringVarP(&opts.Input, "input", "i", "", "snapshot document (JSON)")
	cmd.PersistentFlags().StringVar(&opts.Role, "role", string(contract.RoleSeeker), "viewing party (seeker|furnisher|platform)")
	cmd.PersistentFlags().StringVar(&opts.Identity, "identity", "", "viewer's identity public key")
	cmd.PersistentFlags().Int64Var(&opts.Now, "now", 0, "evaluation time in Unix seconds (default: current time)")

	// Add subcommands
	cmd.AddCommand(NewContractsCommand(opts))
	cmd.AddCommand(NewActionsCommand(opts))
	cmd.AddCommand(NewBidsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewValidateBidCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewMetricsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// role returns the parsed --role. PersistentPreRunE has already checked it.
func (o *RootOptions) role() contract.Role {
	r, _ := contract.ParseRole(o.Role)
	return r
}

func (o *RootOptions) now() int64 {
	if o.Now != 0 {
		return o.Now
	}
	return time.Now().Unix()
}

// loadConfig builds the effective GlobalConfig: the --network preset (or the
// environment's), with the --config policy file applied over it.
func (o *RootOptions) loadConfig() (config.GlobalConfig, error) {
	var (
		cfg config.GlobalConfig
		err error
	)
	if o.Network != "" {
		network, perr := contract.ParseNetwork(o.Network)
		if perr != nil {
			return config.GlobalConfig{}, WrapExitError(ExitCommandError, "invalid --network", perr)
		}
		cfg, err = config.Preset(network)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.GlobalConfig{}, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	if o.Config != "" {
		cfg, err = config.LoadFile(o.Config, cfg)
		if err != nil {
			return config.GlobalConfig{}, WrapExitError(ExitCommandError, "failed to load policy file", err)
		}
	}
	return cfg, nil
}

// fetchSnapshots reads the viewer's snapshots from --input or --db.
func (o *RootOptions) fetchSnapshots(ctx context.Context) ([]contract.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case o.Input != "":
		snaps, err := source.File{Path: o.Input}.Fetch(ctx, o.role())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read snapshots", err)
		}
		return snaps, nil

	case o.Database != "":
		st, err := store.Open(o.Database)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		snaps, err := source.Cache{Store: st}.Fetch(ctx, o.role())
		if errors.Is(err, store.ErrNoBatch) {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("no snapshots cached for role %s (run paragon import first)", o.role()), err)
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read snapshot cache", err)
		}
		return snaps, nil
	}

	return nil, NewExitError(ExitCommandError, "either --input or --db is required")
}

// findSnapshot returns the snapshot at the outpoint named by arg
// ("txid.index" or "txid:index").
func findSnapshot(snaps []contract.Snapshot, arg string) (contract.Snapshot, error) {
	op, err := contract.ParseOutpoint(arg)
	if err != nil {
		return contract.Snapshot{}, WrapExitError(ExitCommandError, "invalid outpoint", err)
	}
	for _, s := range snaps {
		if strings.EqualFold(s.Record.Txid, op.Txid) && s.Record.OutputIndex == op.Index {
			return s, nil
		}
	}
	return contract.Snapshot{}, NewExitError(ExitCommandError, fmt.Sprintf("contract not found: %s", op))
}
