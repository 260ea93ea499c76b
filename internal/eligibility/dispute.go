package eligibility

import (
	"math/bits"

	"github.com/roach88/paragon/internal/contract"
)

// MaxFeeBasisPoints is 100%.
const MaxFeeBasisPoints int64 = 10_000

// Split is how a platform decision distributes the accepted bid amount.
type Split struct {
	Seeker      int64 `json:"seeker" yaml:"seeker"`
	Furnisher   int64 `json:"furnisher" yaml:"furnisher"`
	PlatformFee int64 `json:"platformFee" yaml:"platformFee"`
}

// SplitDispute computes the payout of a disputed contract.
//
// The platform keeps floor(amount * feeBps / 10000) of the accepted bid
// amount; the winning party receives the rest and the other party nothing.
func SplitDispute(r contract.Record, awardToFurnisher bool) (Split, error) {
	s := contract.Snapshot{Record: r}
	if !r.Status.IsDisputed() {
		return Split{}, newRuleError(ErrCodeNotDisputed, s, "contract status is %s, not disputed", r.Status)
	}
	accepted := r.Accepted()
	if accepted == nil {
		return Split{}, newRuleError(ErrCodeNoAcceptedBid, s, "disputed contract has no accepted bid")
	}
	bps := r.EscrowServiceFeeBasisPoints
	if bps < 0 || bps > MaxFeeBasisPoints {
		return Split{}, newRuleError(ErrCodeInvalidFee, s, "fee %d basis points is outside 0..%d", bps, MaxFeeBasisPoints)
	}

	amount := accepted.BidAmount
	if amount < 0 {
		return Split{}, newRuleError(ErrCodeInvalidAmount, s, "accepted bid amount %d is negative", amount)
	}
	fee := feeOf(amount, bps)
	split := Split{PlatformFee: fee}
	if awardToFurnisher {
		split.Furnisher = amount - fee
	} else {
		split.Seeker = amount - fee
	}
	return split, nil
}

// feeOf is floor(amount * bps / 10000) computed in 128 bits. The quotient
// never exceeds amount, so it fits in an int64.
func feeOf(amount, bps int64) int64 {
	hi, lo := bits.Mul64(uint64(amount), uint64(bps))
	q, _ := bits.Div64(hi, lo, uint64(MaxFeeBasisPoints))
	return int64(q)
}
