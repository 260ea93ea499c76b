package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/eligibility"
)

// StatsView is the stats command result.
type StatsView struct {
	eligibility.ContractStats
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the fleet",
		Long: `Count contracts by lifecycle group and total the satoshis still locked
in unresolved contracts.

Examples:
  paragon stats -i fleet.json
  paragon stats --db paragon.db --role platform --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := rootOpts.fetchSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(StatsView{eligibility.Aggregate(snaps)})
		},
	}
}

func (v StatsView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Contracts:    %s\n", humanize.Comma(int64(v.TotalContracts)))
	fmt.Fprintf(w, "  open:       %s\n", humanize.Comma(int64(v.OpenContracts)))
	fmt.Fprintf(w, "  active:     %s\n", humanize.Comma(int64(v.ActiveContracts)))
	fmt.Fprintf(w, "  completed:  %s\n", humanize.Comma(int64(v.CompletedContracts)))
	fmt.Fprintf(w, "  disputed:   %s\n", humanize.Comma(int64(v.DisputedContracts)))
	_, err := fmt.Fprintf(w, "Locked:       %s sat\n", humanize.Comma(v.TotalBountyLocked))
	return err
}
