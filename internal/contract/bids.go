package contract

// BidSlots is the capacity of the on-chain bid array. Unused slots are
// filled with placeholder bids.
const BidSlots = 4

// IsRealBid reports whether b is an actual offer rather than an empty slot.
func IsRealBid(b Bid) bool {
	return b.BidAmount > 0 && b.TimeOfBid > 0
}

// IsPlaceholder reports whether b is an empty slot of the fixed bid array.
func IsPlaceholder(b Bid) bool {
	return b.BidAmount == 0 && b.TimeOfBid == 0
}

// RealBids returns the snapshot's real bids in their original slot order.
//
// The order carries index semantics (a bid is accepted by its position in
// this sequence), so the result is never reordered.
func RealBids(s Snapshot) []Bid {
	return FilterReal(s.Record.Bids)
}

// FilterReal returns the real entries of bids, preserving order. The input
// slice is not modified.
func FilterReal(bids []Bid) []Bid {
	out := make([]Bid, 0, len(bids))
	for _, b := range bids {
		if IsRealBid(b) {
			out = append(out, b)
		}
	}
	return out
}

// RealBidCount returns the number of real bids on the snapshot.
func RealBidCount(s Snapshot) int {
	n := 0
	for _, b := range s.Record.Bids {
		if IsRealBid(b) {
			n++
		}
	}
	return n
}

// HasFreeSlot reports whether another bid fits into the on-chain array.
func HasFreeSlot(s Snapshot) bool {
	return RealBidCount(s) < BidSlots
}

// SamePair reports whether two bids share the (furnisherKey, plans) pair the
// backend uses to identify an accepted bid.
func SamePair(a, b Bid) bool {
	return a.FurnisherKey == b.FurnisherKey && a.Plans == b.Plans
}

// Accepted returns the record's accepted bid, or nil before acceptance.
// The backend keeps an empty slot in acceptedBid until a bid is accepted,
// so a placeholder counts as no accepted bid.
func (r Record) Accepted() *Bid {
	if r.AcceptedBid == nil || IsPlaceholder(*r.AcceptedBid) {
		return nil
	}
	return r.AcceptedBid
}
