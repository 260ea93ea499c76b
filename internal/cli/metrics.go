package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/metrics"
)

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	var textfile string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Export fleet gauges in the Prometheus text format",
		Long: `Evaluate the fleet as the viewing party and export the result as
Prometheus gauges: contracts per lifecycle group and status, locked
satoshis, real bids, available actions and deadline counts.

Without --textfile the exposition is written to stdout. With it, the
file is replaced atomically for node_exporter's textfile collector.
--format does not apply to the exposition.

Examples:
  paragon metrics -i fleet.json
  paragon metrics --db paragon.db --textfile /var/lib/node_exporter/paragon.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := rootOpts.fetchSnapshots(cmd.Context())
			if err != nil {
				return err
			}

			exp := metrics.NewExporter()
			exp.Observe(snaps, rootOpts.role(), rootOpts.Identity, rootOpts.now())

			if textfile == "" {
				return exp.WriteText(cmd.OutOrStdout())
			}
			if err := exp.WriteTextfile(textfile); err != nil {
				return WrapExitError(ExitCommandError, "failed to write textfile", err)
			}
			return rootOpts.formatter(cmd).Success(fmt.Sprintf("wrote %s", textfile))
		},
	}

	cmd.Flags().StringVar(&textfile, "textfile", "", "write to this file instead of stdout")
	return cmd
}
