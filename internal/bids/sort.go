package bids

import (
	"cmp"
	"fmt"
	"slices"
)

// SortKey orders a list of bids.
type SortKey string

const (
	SortNewest       SortKey = "newest"        // TimeOfBid descending
	SortOldest       SortKey = "oldest"        // TimeOfBid ascending
	SortAmountLow    SortKey = "amount-low"    // BidAmount ascending
	SortAmountHigh   SortKey = "amount-high"   // BidAmount descending
	SortTimeRequired SortKey = "time-required" // TimeRequired ascending
)

// SortKeys lists every SortKey.
var SortKeys = []SortKey{SortNewest, SortOldest, SortAmountLow, SortAmountHigh, SortTimeRequired}

// ParseSortKey converts a raw string to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNewest, SortOldest, SortAmountLow, SortAmountHigh, SortTimeRequired:
		return k, nil
	}
	return "", fmt.Errorf("unknown bid sort key %q", s)
}

func (k *SortKey) UnmarshalText(b []byte) error {
	v, err := ParseSortKey(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Sort returns a stably sorted copy of bids. Equal elements keep their
// relative order, so sorting an already sorted list by the same key is a
// no-op. An unknown key returns the copy in input order.
func Sort(bids []AnnotatedBid, key SortKey) []AnnotatedBid {
	out := slices.Clone(bids)
	if out == nil {
		out = []AnnotatedBid{}
	}

	var less func(a, b AnnotatedBid) int
	switch key {
	case SortNewest:
		less = func(a, b AnnotatedBid) int { return cmp.Compare(b.TimeOfBid, a.TimeOfBid) }
	case SortOldest:
		less = func(a, b AnnotatedBid) int { return cmp.Compare(a.TimeOfBid, b.TimeOfBid) }
	case SortAmountLow:
		less = func(a, b AnnotatedBid) int { return cmp.Compare(a.BidAmount, b.BidAmount) }
	case SortAmountHigh:
		less = func(a, b AnnotatedBid) int { return cmp.Compare(b.BidAmount, a.BidAmount) }
	case SortTimeRequired:
		less = func(a, b AnnotatedBid) int { return cmp.Compare(a.TimeRequired, b.TimeRequired) }
	default:
		return out
	}

	slices.SortStableFunc(out, less)
	return out
}
