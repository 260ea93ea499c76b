package contract

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainBid = "paragon/bid/v1"
)

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalBid returns the bid as a canonical JSON object.
func CanonicalBid(b Bid) map[string]any {
	return map[string]any{
		"furnisher_key": b.FurnisherKey,
		"plans":         b.Plans,
		"bid_amount":    b.BidAmount,
		"bond":          b.Bond,
		"time_of_bid":   b.TimeOfBid,
		"time_required": b.TimeRequired,
	}
}

// BidHash computes the content hash of the full bid tuple.
//
// Unlike the (furnisherKey, plans) pair, the hash covers TimeOfBid and the
// amounts, so two proposals with the same text from the same furnisher stay
// distinguishable.
func BidHash(b Bid) string {
	// Only strings and int64s: cannot fail.
	canonical, _ := MarshalCanonical(CanonicalBid(b))
	return hashWithDomain(DomainBid, canonical)
}
