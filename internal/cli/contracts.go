package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/eligibility"
)

const titleWidth = 40

// ContractsOptions holds flags for the contracts command.
type ContractsOptions struct {
	*RootOptions
	Status    string
	Search    string
	Sort      string
	MinBounty int64
	MaxBounty int64
	NoBids    bool
	Limit     int
}

// ContractRow is one contract of a listing.
type ContractRow struct {
	Outpoint     string   `json:"outpoint"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	ContractType string   `json:"contractType"`
	Satoshis     int64    `json:"satoshis"`
	Bids         int      `json:"bids"`
	Deadline     int64    `json:"deadline"`
	Approaching  bool     `json:"deadlineApproaching"`
	Passed       bool     `json:"deadlinePassed"`
	Actions      []string `json:"actions"`
}

// ContractList is the contracts command result.
type ContractList struct {
	Now       int64         `json:"now"`
	Role      string        `json:"role"`
	Contracts []ContractRow `json:"contracts"`
}

// NewContractsCommand creates the contracts command.
func NewContractsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContractsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "List contracts with the actions available to the viewer",
		Long: `List contract snapshots filtered and sorted like the marketplace view.

Filters apply in order: status, search, bounty range, no-bids; the sort
runs last.

Examples:
  paragon contracts -i fleet.json
  paragon contracts -i fleet.json --status initial --search logo --sort amount-high
  paragon contracts --db paragon.db --role furnisher --identity 02ab.. --no-bids`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContracts(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "all", "status filter (all or a contract status)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive work description search")
	cmd.Flags().StringVar(&opts.Sort, "sort", string(eligibility.SortNewest), "sort key")
	cmd.Flags().Int64Var(&opts.MinBounty, "min-bounty", 0, "minimum locked satoshis")
	cmd.Flags().Int64Var(&opts.MaxBounty, "max-bounty", 0, "maximum locked satoshis (0: unbounded)")
	cmd.Flags().BoolVar(&opts.NoBids, "no-bids", false, "only contracts without real bids")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many contracts (0: all)")

	return cmd
}

func runContracts(opts *ContractsOptions, cmd *cobra.Command) error {
	q, err := opts.query()
	if err != nil {
		return err
	}

	snaps, err := opts.fetchSnapshots(cmd.Context())
	if err != nil {
		return err
	}

	matched := q.Apply(snaps)
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	now := opts.now()
	role := opts.role()
	list := ContractList{
		Now:       now,
		Role:      string(role),
		Contracts: make([]ContractRow, 0, len(matched)),
	}
	for _, s := range matched {
		list.Contracts = append(list.Contracts, contractRow(s, role, opts.Identity, now))
	}

	opts.formatter(cmd).VerboseLog("%d of %d contracts matched", len(matched), len(snaps))
	return opts.formatter(cmd).Success(list)
}

func (o *ContractsOptions) query() (eligibility.Query, error) {
	status, err := eligibility.ParseStatusFilter(o.Status)
	if err != nil {
		return eligibility.Query{}, WrapExitError(ExitCommandError, "invalid --status", err)
	}
	sortKey, err := eligibility.ParseContractSortKey(o.Sort)
	if err != nil {
		return eligibility.Query{}, WrapExitError(ExitCommandError, "invalid --sort", err)
	}
	if o.MinBounty < 0 || o.MaxBounty < 0 {
		return eligibility.Query{}, NewExitError(ExitCommandError, "bounty bounds must be non-negative")
	}
	return eligibility.Query{
		Status:          status,
		Search:          o.Search,
		Sort:            sortKey,
		MinBounty:       o.MinBounty,
		MaxBounty:       o.MaxBounty,
		OnlyWithoutBids: o.NoBids,
	}, nil
}

func contractRow(s contract.Snapshot, role contract.Role, identity string, now int64) ContractRow {
	deadline := s.Record.WorkCompletionDeadline
	return ContractRow{
		Outpoint:     s.Outpoint().String(),
		Title:        contract.Title(s.Record.WorkDescription, titleWidth),
		Status:       string(s.Record.Status),
		ContractType: string(s.Record.ContractType),
		Satoshis:     s.Satoshis,
		Bids:         contract.RealBidCount(s),
		Deadline:     deadline,
		Approaching:  eligibility.IsDeadlineApproaching(deadline, now),
		Passed:       eligibility.IsDeadlinePassed(deadline, now),
		Actions:      eligibility.ActionsFor(role, identity, s).Strings(),
	}
}

// RenderText prints one block per contract.
func (l ContractList) RenderText(w io.Writer) error {
	if len(l.Contracts) == 0 {
		_, err := fmt.Fprintln(w, "No contracts found.")
		return err
	}

	for _, c := range l.Contracts {
		fmt.Fprintf(w, "%s  %s\n", contract.Abbreviate(c.Outpoint, 8, 4), c.Title)
		fmt.Fprintf(w, "  %-22s %s sat  %s  due %s%s\n",
			contract.Status(c.Status).Label(),
			humanize.Comma(c.Satoshis),
			pluralBids(c.Bids),
			relTime(c.Deadline, l.Now),
			deadlineMark(c),
		)
		fmt.Fprintf(w, "  actions: %v\n", c.Actions)
	}
	_, err := fmt.Fprintf(w, "\n%s contract(s)\n", humanize.Comma(int64(len(l.Contracts))))
	return err
}

func pluralBids(n int) string {
	if n == 1 {
		return "1 bid"
	}
	return fmt.Sprintf("%d bids", n)
}

func deadlineMark(c ContractRow) string {
	switch {
	case c.Passed:
		return " (passed)"
	case c.Approaching:
		return " (approaching)"
	}
	return ""
}

// relTime renders ts relative to now without reading the wall clock.
func relTime(ts, now int64) string {
	return humanize.RelTime(time.Unix(ts, 0), time.Unix(now, 0), "ago", "from now")
}
