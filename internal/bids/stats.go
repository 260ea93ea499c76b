package bids

import "github.com/roach88/paragon/internal/contract"

// RecentWindow is how long after submission a bid counts as recent.
const RecentWindow int64 = 3600

// Stats summarizes the real bids of a contract. Lowest and Highest are nil
// and Average is 0 when Count is 0.
type Stats struct {
	Count   int    `json:"count" yaml:"count"`
	Lowest  *int64 `json:"lowest" yaml:"lowest"`
	Highest *int64 `json:"highest" yaml:"highest"`
	Average int64  `json:"average" yaml:"average"` // floor of the mean
}

// Statistics computes Stats over the real entries of bids. Placeholders in
// the input are skipped.
func Statistics(bids []contract.Bid) Stats {
	var (
		st        Stats
		sum       int64
		low, high int64
	)
	for _, b := range bids {
		if !contract.IsRealBid(b) {
			continue
		}
		if st.Count == 0 || b.BidAmount < low {
			low = b.BidAmount
		}
		if st.Count == 0 || b.BidAmount > high {
			high = b.BidAmount
		}
		sum += b.BidAmount
		st.Count++
	}
	if st.Count == 0 {
		return st
	}

	st.Lowest = &low
	st.Highest = &high
	// Amounts are positive, so truncating division is the floor.
	st.Average = sum / int64(st.Count)
	return st
}

// IsRecentBid reports whether a bid placed at timeOfBid is at most an hour
// old at now.
func IsRecentBid(timeOfBid, now int64) bool {
	return timeOfBid >= now-RecentWindow
}

// TotalCost is what a furnisher locks up for a bid: the amount plus the bond.
func TotalCost(b contract.Bid) int64 {
	return b.BidAmount + b.Bond
}
