package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/bids"
	"github.com/roach88/paragon/internal/contract"
)

// ValidateBidOptions holds flags for the validate-bid command.
type ValidateBidOptions struct {
	*RootOptions
	bids.Offer
	PlansFile string
}

// ValidateBidResult is the validate-bid command result.
type ValidateBidResult struct {
	Outpoint string       `json:"outpoint"`
	Valid    bool         `json:"valid"`
	Errors   []string     `json:"errors"`
	Bid      contract.Bid `json:"bid"`
}

// NewValidateBidCommand creates the validate-bid command.
func NewValidateBidCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateBidOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate-bid <txid.index>",
		Short: "Check a bid offer against a contract's rules",
		Long: `Check a bid offer against the contract it would be placed on.

The offer is converted to the bid the contract would record at --now
(time required becomes an absolute completion time) and validated against
the contract's own policy: minimum bid or exact bounty amount, bonding
mode, work plan length and the furnisher key format.

Exit codes:
  0 - The bid is valid
  1 - The bid is invalid
  2 - Command error

Examples:
  paragon validate-bid -i fleet.json 4f1c...e2.0 --furnisher 02ab.. --amount 4000 --plans "Three concepts, two revisions"
  paragon validate-bid -i fleet.json 4f1c...e2.0 --furnisher 02ab.. --amount 4000 --plans-file plans.txt --time-required 172800`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateBid(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FurnisherKey, "furnisher", "", "furnisher public key (defaults to --identity)")
	cmd.Flags().StringVar(&opts.Plans, "plans", "", "work plan")
	cmd.Flags().StringVar(&opts.PlansFile, "plans-file", "", "read the work plan from a file")
	cmd.Flags().Int64Var(&opts.BidAmount, "amount", 0, "bid amount in satoshis")
	cmd.Flags().Int64Var(&opts.Bond, "bond", 0, "bond in satoshis")
	cmd.Flags().Int64Var(&opts.TimeRequired, "time-required", bids.DefaultTimeRequired, "time required in seconds")

	return cmd
}

func runValidateBid(opts *ValidateBidOptions, outpoint string, cmd *cobra.Command) error {
	offer := opts.Offer
	if offer.FurnisherKey == "" {
		offer.FurnisherKey = opts.Identity
	}
	if opts.PlansFile != "" {
		data, err := os.ReadFile(opts.PlansFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read plans file", err)
		}
		offer.Plans = string(data)
	}

	snaps, err := opts.fetchSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	s, err := findSnapshot(snaps, outpoint)
	if err != nil {
		return err
	}

	bid, v := bids.PrepareOffer(offer, s, opts.now())
	result := ValidateBidResult{
		Outpoint: s.Outpoint().String(),
		Valid:    v.Valid,
		Errors:   v.Errors,
		Bid:      bid,
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	out := opts.formatter(cmd)
	if !v.Valid {
		msg := fmt.Sprintf("bid is invalid: %d problem(s)", len(v.Errors))
		if err := out.Failure(CodeInvalidBid, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return out.Success(result)
}

func (r ValidateBidResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Bid of %s sat on %s\n", humanize.Comma(r.Bid.BidAmount), r.Outpoint)
	fmt.Fprintf(w, "  completes at %d\n", r.Bid.TimeRequired)
	if r.Valid {
		_, err := fmt.Fprintln(w, "✓ valid")
		return err
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "✗ %s\n", e)
	}
	return nil
}
