package bids

import "github.com/roach88/paragon/internal/contract"

// Validate checks a candidate bid against the contract's own policy fields.
//
// Bounty contracts fix the reward: the bid amount must equal the locked
// satoshis and the minimum bid does not apply. Bid contracts require
// BidAmount >= MinAllowableBid. The bond must conform to the contract's
// bonding mode in both cases.
func Validate(b contract.Bid, s contract.Snapshot) contract.Validation {
	v := contract.NewValidation()
	r := s.Record

	switch r.ContractType {
	case contract.TypeBounty:
		if b.BidAmount != s.Satoshis {
			v.Addf("Bid amount must be exactly %d satoshis for a bounty contract", s.Satoshis)
		}
	case contract.TypeBid:
		if b.BidAmount < r.MinAllowableBid {
			v.Addf("Bid amount must be at least %d satoshis", r.MinAllowableBid)
		}
	default:
		v.Addf("Contract type %q is not recognized", r.ContractType)
	}

	if b.Bond < 0 {
		v.Addf("Bond cannot be negative")
	}
	switch r.FurnisherBondingMode {
	case contract.BondingForbidden:
		if b.Bond > 0 {
			v.Addf("Bond is not allowed for this contract")
		}
	case contract.BondingRequired:
		if b.Bond < r.RequiredBondAmount {
			v.Addf("Bond amount must be at least %d satoshis", r.RequiredBondAmount)
		}
	case contract.BondingOptional:
	default:
		v.Addf("Bonding mode %q is not recognized", r.FurnisherBondingMode)
	}
	return v
}
