package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/paragon/internal/config"
)

// ConfigView is the config command result.
type ConfigView struct {
	config.GlobalConfig
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective global configuration",
		Long: `Print the configuration new contracts are created with: the network
preset (--network or $PARAGON_NETWORK), the platform key from
$PARAGON_PLATFORM_KEY and the --config policy file, in that order.

Examples:
  paragon config
  paragon config --network testnet --config policy.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Success(ConfigView{cfg})
		},
	}
}

// RenderText prints the configuration as YAML.
func (v ConfigView) RenderText(w io.Writer) error {
	data, err := yaml.Marshal(v.GlobalConfig)
	if err != nil {
		return fmt.Errorf("render configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}
