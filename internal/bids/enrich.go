package bids

import "github.com/roach88/paragon/internal/contract"

// AnnotatedBid is a real bid with its position and display flags.
type AnnotatedBid struct {
	contract.Bid `yaml:",inline"`

	// Index is the zero-based position within the real-bid sequence, the
	// index an accept-bid request refers to.
	Index int `json:"index" yaml:"index"`

	IsAccepted bool   `json:"isAccepted" yaml:"isAccepted"`
	IsLatest   bool   `json:"isLatest" yaml:"isLatest"`
	Hash       string `json:"hash" yaml:"hash"`
}

// MatchState describes how the snapshot's accepted bid resolved against its
// real bids.
type MatchState int

const (
	// MatchNone: no accepted bid, or it matches no real bid.
	MatchNone MatchState = iota
	// MatchUnique: exactly one real bid is the accepted one.
	MatchUnique
	// MatchAmbiguous: several real bids share the accepted (furnisherKey,
	// plans) pair and the full bid tuple cannot single one out.
	MatchAmbiguous
)

func (m MatchState) String() string {
	switch m {
	case MatchNone:
		return "none"
	case MatchUnique:
		return "unique"
	case MatchAmbiguous:
		return "ambiguous"
	}
	return "unknown"
}

// Enrich annotates each real bid of s, in slot order.
//
// A bid is accepted when it carries the accepted bid's (furnisherKey, plans)
// pair. If more than one real bid carries that pair, the full-tuple hash is
// used as a tie-break; when it still does not isolate exactly one bid, every
// pair match stays marked and Accepted reports MatchAmbiguous.
func Enrich(s contract.Snapshot) []AnnotatedBid {
	realBids := contract.RealBids(s)
	out := make([]AnnotatedBid, len(realBids))
	for i, b := range realBids {
		out[i] = AnnotatedBid{
			Bid:      b,
			Index:    i,
			IsLatest: i == len(realBids)-1,
			Hash:     contract.BidHash(b),
		}
	}

	accepted := s.Record.Accepted()
	if accepted == nil {
		return out
	}

	var pair []int
	for i, b := range realBids {
		if contract.SamePair(b, *accepted) {
			pair = append(pair, i)
		}
	}
	if len(pair) > 1 {
		want := contract.BidHash(*accepted)
		var exact []int
		for _, i := range pair {
			if out[i].Hash == want {
				exact = append(exact, i)
			}
		}
		if len(exact) == 1 {
			pair = exact
		}
	}
	for _, i := range pair {
		out[i].IsAccepted = true
	}
	return out
}

// Accepted returns the accepted bid of s with its annotations.
//
// The bid is only returned for MatchUnique. A collision is reported as
// MatchAmbiguous rather than resolved by picking one of the candidates.
func Accepted(s contract.Snapshot) (AnnotatedBid, MatchState) {
	var found AnnotatedBid
	n := 0
	for _, b := range Enrich(s) {
		if b.IsAccepted {
			found = b
			n++
		}
	}
	switch n {
	case 0:
		return AnnotatedBid{}, MatchNone
	case 1:
		return found, MatchUnique
	default:
		return AnnotatedBid{}, MatchAmbiguous
	}
}

// FormatPlans decodes a bid's plans for display, truncated to max runes.
func FormatPlans(plans string, max int) string {
	return contract.Truncate(contract.DecodeText(plans), max)
}
