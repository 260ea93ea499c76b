package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/eligibility"
)

// ActionsView is the actions command result.
type ActionsView struct {
	Outpoint    string   `json:"outpoint"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Satoshis    int64    `json:"satoshis"`
	Actions     []string `json:"actions"`
	Deadline    int64    `json:"deadline"`
	Remaining   int64    `json:"remaining"`
	Approaching bool     `json:"deadlineApproaching"`
	Passed      bool     `json:"deadlinePassed"`
	Invariants  []string `json:"invariantViolations,omitempty"`

	now int64
}

// NewActionsCommand creates the actions command.
func NewActionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "actions <txid.index>",
		Short: "Show the actions the viewer may take on one contract",
		Long: `Show the actions the viewing party may take on one contract, with its
deadline state. Snapshots the backend should never produce are reported
as invariant violations; the actions are still evaluated.

Examples:
  paragon actions -i fleet.json 4f1c...e2.0
  paragon actions -i fleet.json --role furnisher --identity 02ab.. 4f1c...e2:0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(rootOpts, args[0], cmd)
		},
	}
}

func runActions(opts *RootOptions, outpoint string, cmd *cobra.Command) error {
	snaps, err := opts.fetchSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	s, err := findSnapshot(snaps, outpoint)
	if err != nil {
		return err
	}

	now := opts.now()
	deadline := s.Record.WorkCompletionDeadline
	view := ActionsView{
		Outpoint:    s.Outpoint().String(),
		Role:        string(opts.role()),
		Status:      string(s.Record.Status),
		Satoshis:    s.Satoshis,
		Actions:     eligibility.ActionsFor(opts.role(), opts.Identity, s).Strings(),
		Deadline:    deadline,
		Remaining:   eligibility.TimeRemaining(deadline, now),
		Approaching: eligibility.IsDeadlineApproaching(deadline, now),
		Passed:      eligibility.IsDeadlinePassed(deadline, now),
		Invariants:  contract.CheckInvariants(s).Errors,
		now:         now,
	}
	return opts.formatter(cmd).Success(view)
}

// RenderText prints the contract state and one action per line.
func (v ActionsView) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Contract %s\n", v.Outpoint)
	fmt.Fprintf(w, "  status:   %s\n", contract.Status(v.Status).Label())
	fmt.Fprintf(w, "  bounty:   %s sat\n", humanize.Comma(v.Satoshis))
	fmt.Fprintf(w, "  deadline: %s", relTime(v.Deadline, v.now))
	switch {
	case v.Passed:
		fmt.Fprint(w, " (passed)")
	case v.Approaching:
		fmt.Fprint(w, " (approaching)")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Actions for %s:\n", v.Role)
	for _, a := range v.Actions {
		fmt.Fprintf(w, "  - %s\n", a)
	}
	if len(v.Invariants) > 0 {
		fmt.Fprintf(w, "Warning: %s\n", strings.Join(v.Invariants, "; "))
	}
	return nil
}
