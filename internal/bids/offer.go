package bids

import (
	"strings"
	"unicode/utf8"

	"github.com/roach88/paragon/internal/contract"
)

// Offer bounds.
const (
	DefaultTimeRequired int64 = 86400
	MinTimeRequired     int64 = 3600
	MinPlansRunes             = 20
	MaxPlansRunes             = 2000
)

// Offer is a bid as a furnisher enters it: TimeRequired is a duration in
// seconds, not yet the absolute timestamp the contract stores.
type Offer struct {
	FurnisherKey string `json:"furnisherKey" yaml:"furnisherKey"`
	Plans        string `json:"plans" yaml:"plans"`
	BidAmount    int64  `json:"bidAmount" yaml:"bidAmount"`
	Bond         int64  `json:"bond" yaml:"bond"`
	TimeRequired int64  `json:"timeRequired" yaml:"timeRequired"` // seconds; 0 selects DefaultTimeRequired
}

// PrepareOffer converts an Offer into the Bid the contract would record at
// now, and validates it against s.
//
// The returned Bid is populated even when validation fails, so callers can
// show what would have been submitted.
func PrepareOffer(o Offer, s contract.Snapshot, now int64) (contract.Bid, contract.Validation) {
	v := contract.NewValidation()

	duration := o.TimeRequired
	if duration == 0 {
		duration = DefaultTimeRequired
	}
	if duration < MinTimeRequired {
		v.Addf("Time required must be at least %d hour", MinTimeRequired/3600)
	}

	n := utf8.RuneCountInString(strings.TrimSpace(o.Plans))
	switch {
	case n < MinPlansRunes:
		v.Addf("Work plan must be at least %d characters", MinPlansRunes)
	case n > MaxPlansRunes:
		v.Addf("Work plan must be less than %d characters", MaxPlansRunes)
	}

	v.Merge(contract.ValidatePublicKey(o.FurnisherKey))

	b := contract.Bid{
		FurnisherKey: strings.TrimSpace(o.FurnisherKey),
		Plans:        o.Plans,
		BidAmount:    o.BidAmount,
		Bond:         o.Bond,
		TimeOfBid:    now,
		TimeRequired: now + duration,
	}
	v.Merge(Validate(b, s))
	return b, v
}
