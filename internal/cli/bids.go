package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/paragon/internal/bids"
	"github.com/roach88/paragon/internal/contract"
)

const plansWidth = 60

// BidRow is one real bid of a contract.
type BidRow struct {
	Index        int    `json:"index"`
	FurnisherKey string `json:"furnisherKey"`
	Plans        string `json:"plans"`
	BidAmount    int64  `json:"bidAmount"`
	Bond         int64  `json:"bond"`
	TotalCost    int64  `json:"totalCost"`
	TimeOfBid    int64  `json:"timeOfBid"`
	TimeRequired int64  `json:"timeRequired"`
	Accepted     bool   `json:"accepted"`
	Latest       bool   `json:"latest"`
	Recent       bool   `json:"recent"`
	Hash         string `json:"hash"`
}

// BidsView is the bids command result.
type BidsView struct {
	Outpoint string     `json:"outpoint"`
	Match    string     `json:"acceptedMatch"`
	Sort     string     `json:"sort"`
	Bids     []BidRow   `json:"bids"`
	Stats    bids.Stats `json:"stats"`

	now int64
}

// NewBidsCommand creates the bids command.
func NewBidsCommand(rootOpts *RootOptions) *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:   "bids <txid.index>",
		Short: "List the real bids of a contract",
		Long: `List the real bids of a contract with their statistics.

Placeholder slots are skipped. Each bid keeps the index an accept-bid
request refers to, whatever the sort order. The accepted bid is marked
when it resolves to exactly one real bid.

Examples:
  paragon bids -i fleet.json 4f1c...e2.0
  paragon bids -i fleet.json 4f1c...e2.0 --sort amount-low --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := bids.ParseSortKey(sortKey)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --sort", err)
			}
			return runBids(rootOpts, args[0], key, cmd)
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", string(bids.SortNewest), "sort key (newest|oldest|amount-low|amount-high|time-required)")
	return cmd
}

func runBids(opts *RootOptions, outpoint string, key bids.SortKey, cmd *cobra.Command) error {
	snaps, err := opts.fetchSnapshots(cmd.Context())
	if err != nil {
		return err
	}
	s, err := findSnapshot(snaps, outpoint)
	if err != nil {
		return err
	}

	now := opts.now()
	_, match := bids.Accepted(s)
	sorted := bids.Sort(bids.Enrich(s), key)

	view := BidsView{
		Outpoint: s.Outpoint().String(),
		Match:    match.String(),
		Sort:     string(key),
		Bids:     make([]BidRow, 0, len(sorted)),
		Stats:    bids.Statistics(s.Record.Bids),
		now:      now,
	}
	for _, b := range sorted {
		view.Bids = append(view.Bids, BidRow{
			Index:        b.Index,
			FurnisherKey: b.FurnisherKey,
			Plans:        bids.FormatPlans(b.Plans, plansWidth),
			BidAmount:    b.BidAmount,
			Bond:         b.Bond,
			TotalCost:    bids.TotalCost(b.Bid),
			TimeOfBid:    b.TimeOfBid,
			TimeRequired: b.TimeRequired,
			Accepted:     b.IsAccepted,
			Latest:       b.IsLatest,
			Recent:       bids.IsRecentBid(b.TimeOfBid, now),
			Hash:         b.Hash,
		})
	}
	return opts.formatter(cmd).Success(view)
}

// RenderText prints one block per bid followed by the statistics.
func (v BidsView) RenderText(w io.Writer) error {
	if len(v.Bids) == 0 {
		_, err := fmt.Fprintln(w, "No bids yet.")
		return err
	}

	for _, b := range v.Bids {
		marks := ""
		if b.Accepted {
			marks += " [accepted]"
		}
		if b.Latest {
			marks += " [latest]"
		}
		if b.Recent {
			marks += " [new]"
		}
		fmt.Fprintf(w, "#%d %s%s\n", b.Index, contract.Abbreviate(b.FurnisherKey, 8, 6), marks)
		fmt.Fprintf(w, "  %s sat", humanize.Comma(b.BidAmount))
		if b.Bond > 0 {
			fmt.Fprintf(w, " + %s sat bond (%s locked)", humanize.Comma(b.Bond), humanize.Comma(b.TotalCost))
		}
		fmt.Fprintf(w, ", bid %s, done %s\n", relTime(b.TimeOfBid, v.now), relTime(b.TimeRequired, v.now))
		if b.Plans != "" {
			fmt.Fprintf(w, "  %s\n", b.Plans)
		}
	}

	fmt.Fprintf(w, "\n%d bid(s)", v.Stats.Count)
	if v.Stats.Lowest != nil {
		fmt.Fprintf(w, ": lowest %s, highest %s, average %s sat",
			humanize.Comma(*v.Stats.Lowest),
			humanize.Comma(*v.Stats.Highest),
			humanize.Comma(v.Stats.Average),
		)
	}
	if v.Match == bids.MatchAmbiguous.String() {
		fmt.Fprint(w, "\nWarning: the accepted bid matches several real bids")
	}
	_, err := fmt.Fprintln(w)
	return err
}
