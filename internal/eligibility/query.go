package eligibility

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/paragon/internal/contract"
)

// StatusFilter selects snapshots by status. StatusAll keeps everything.
type StatusFilter string

const StatusAll StatusFilter = "all"

// ParseStatusFilter accepts "all" or any contract status. An empty string
// means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(StatusAll) {
		return StatusAll, nil
	}
	st, err := contract.ParseStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(st), nil
}

func (f StatusFilter) matches(st contract.Status) bool {
	return f == "" || f == StatusAll || contract.Status(f) == st
}

// FilterByStatus returns the snapshots matching f, in input order.
func FilterByStatus(snaps []contract.Snapshot, f StatusFilter) []contract.Snapshot {
	out := make([]contract.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if f.matches(s.Record.Status) {
			out = append(out, s)
		}
	}
	return out
}

// FilterBySearch returns the snapshots whose decoded work description
// contains query, ignoring case. A blank query keeps every snapshot.
func FilterBySearch(snaps []contract.Snapshot, query string) []contract.Snapshot {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(nonNil(snaps))
	}

	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]contract.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		text := fold.String(contract.DecodeText(s.Record.WorkDescription))
		if strings.Contains(text, needle) {
			out = append(out, s)
		}
	}
	return out
}

// ContractSortKey orders a list of snapshots.
type ContractSortKey string

const (
	SortNewest       ContractSortKey = "newest"        // first real bid time, descending
	SortOldest       ContractSortKey = "oldest"        // first real bid time, ascending
	SortAmountHigh   ContractSortKey = "amount-high"   // satoshis descending
	SortAmountLow    ContractSortKey = "amount-low"    // satoshis ascending
	SortBountyHigh   ContractSortKey = "bounty-high"   // alias of amount-high
	SortBountyLow    ContractSortKey = "bounty-low"    // alias of amount-low
	SortTimeRequired ContractSortKey = "time-required" // committed completion time, ascending
	SortDeadline     ContractSortKey = "deadline"      // WorkCompletionDeadline ascending
)

// ContractSortKeys lists every ContractSortKey.
var ContractSortKeys = []ContractSortKey{
	SortNewest, SortOldest, SortAmountHigh, SortAmountLow,
	SortBountyHigh, SortBountyLow, SortTimeRequired, SortDeadline,
}

// ParseContractSortKey converts a raw string to a ContractSortKey.
func ParseContractSortKey(s string) (ContractSortKey, error) {
	k := ContractSortKey(s)
	if !slices.Contains(ContractSortKeys, k) {
		return "", fmt.Errorf("unknown contract sort key %q", s)
	}
	return k, nil
}

// SortContracts returns a stably sorted copy of snaps. An unknown or empty
// key returns the copy in input order.
func SortContracts(snaps []contract.Snapshot, key ContractSortKey) []contract.Snapshot {
	out := slices.Clone(nonNil(snaps))

	var compare func(a, b contract.Snapshot) int
	switch key {
	case SortNewest:
		compare = func(a, b contract.Snapshot) int { return cmp.Compare(firstBidTime(b), firstBidTime(a)) }
	case SortOldest:
		compare = func(a, b contract.Snapshot) int { return cmp.Compare(firstBidTime(a), firstBidTime(b)) }
	case SortAmountHigh, SortBountyHigh:
		compare = func(a, b contract.Snapshot) int { return cmp.Compare(b.Satoshis, a.Satoshis) }
	case SortAmountLow, SortBountyLow:
		compare = func(a, b contract.Snapshot) int { return cmp.Compare(a.Satoshis, b.Satoshis) }
	case SortTimeRequired:
		compare = func(a, b contract.Snapshot) int { return cmp.Compare(committedTime(a), committedTime(b)) }
	case SortDeadline:
		compare = func(a, b contract.Snapshot) int {
			return cmp.Compare(a.Record.WorkCompletionDeadline, b.Record.WorkCompletionDeadline)
		}
	default:
		return out
	}

	slices.SortStableFunc(out, compare)
	return out
}

// firstBidTime is the submission time of the first real bid, 0 without bids.
func firstBidTime(s contract.Snapshot) int64 {
	for _, b := range s.Record.Bids {
		if contract.IsRealBid(b) {
			return b.TimeOfBid
		}
	}
	return 0
}

// committedTime is the accepted bid's TimeRequired, else the first real
// bid's. Contracts with neither sort last.
func committedTime(s contract.Snapshot) int64 {
	if accepted := s.Record.Accepted(); accepted != nil {
		return accepted.TimeRequired
	}
	for _, b := range s.Record.Bids {
		if contract.IsRealBid(b) {
			return b.TimeRequired
		}
	}
	return math.MaxInt64
}

// Query is a composed collection view.
type Query struct {
	Status          StatusFilter    `json:"status" yaml:"status"`
	Search          string          `json:"search" yaml:"search"`
	Sort            ContractSortKey `json:"sort" yaml:"sort"`
	MinBounty       int64           `json:"minBounty" yaml:"minBounty"`
	MaxBounty       int64           `json:"maxBounty" yaml:"maxBounty"` // 0 means unbounded
	OnlyWithoutBids bool            `json:"onlyWithoutBids" yaml:"onlyWithoutBids"`
}

// Apply runs the query over snaps: status filter, search filter, bounty
// range, no-bids filter, then sort. The input is not modified.
func (q Query) Apply(snaps []contract.Snapshot) []contract.Snapshot {
	out := FilterByStatus(snaps, q.Status)
	out = FilterBySearch(out, q.Search)

	kept := out[:0:0]
	for _, s := range out {
		if s.Satoshis < q.MinBounty {
			continue
		}
		if q.MaxBounty > 0 && s.Satoshis > q.MaxBounty {
			continue
		}
		if q.OnlyWithoutBids && contract.RealBidCount(s) > 0 {
			continue
		}
		kept = append(kept, s)
	}
	return SortContracts(kept, q.Sort)
}

func nonNil(snaps []contract.Snapshot) []contract.Snapshot {
	if snaps == nil {
		return []contract.Snapshot{}
	}
	return snaps
}
