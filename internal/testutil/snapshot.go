package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/roach88/paragon/internal/contract"
)

// Now is the reference time used across tests: 2023-11-14T22:13:20Z.
const Now int64 = 1_700_000_000

// Key returns a well-formed compressed public key derived from n.
func Key(n int) string {
	return "02" + strings.Repeat(fmt.Sprintf("%02x", n%256), 32)
}

// Txid returns a well-formed transaction ID derived from n.
func Txid(n int) string {
	return strings.Repeat(fmt.Sprintf("%02x", n%256), 32)
}

// Snapshot returns a bid-type contract in the given status, with the default
// policy fields and no bids.
func Snapshot(status contract.Status, satoshis int64) contract.Snapshot {
	return contract.Snapshot{
		Satoshis: satoshis,
		Record: contract.Record{
			Txid:                          Txid(1),
			MinAllowableBid:               1000,
			EscrowServiceFeeBasisPoints:   250,
			PlatformAuthorizationRequired: true,
			EscrowMustBeFullyDecisive:     true,
			BountySolversNeedApproval:     true,
			FurnisherBondingMode:          contract.BondingOptional,
			MaxWorkStartDelay:             7 * 24 * 3600,
			MaxWorkApprovalDelay:          3 * 24 * 3600,
			DelayUnit:                     contract.DelaySeconds,
			WorkCompletionDeadline:        Now + 7*24*3600,
			ApprovalMode:                  contract.ApprovalSeekerOrPlatform,
			ContractType:                  contract.TypeBid,
			BountyIncreaseAllowanceMode:   contract.AllowanceBySeekerOrPlatform,
			BountyIncreaseCutoffPoint:     contract.CutoffBidAcceptance,
			SeekerKey:                     Key(0xa0),
			PlatformKey:                   Key(0xb0),
			BidAcceptedBy:                 contract.NotYetAccepted,
			Status:                        status,
			WorkDescription:               "Design a logo for a coffee shop",
		},
	}
}

// Bounty returns a bounty-type contract locking satoshis.
func Bounty(status contract.Status, satoshis int64) contract.Snapshot {
	s := Snapshot(status, satoshis)
	s.Record.ContractType = contract.TypeBounty
	return s
}

// RealBid returns a real bid from furnisher n.
func RealBid(n int, amount, timeOfBid int64) contract.Bid {
	return contract.Bid{
		FurnisherKey: Key(n),
		Plans:        fmt.Sprintf("Plan number %d for the requested work", n),
		BidAmount:    amount,
		TimeOfBid:    timeOfBid,
		TimeRequired: timeOfBid + 86400,
	}
}

// WithBids returns s with its bid slots replaced.
func WithBids(s contract.Snapshot, bids ...contract.Bid) contract.Snapshot {
	s.Record.Bids = append([]contract.Bid(nil), bids...)
	return s
}

// WithAccepted returns s with b recorded as the accepted bid.
func WithAccepted(s contract.Snapshot, b contract.Bid, by contract.Acceptor) contract.Snapshot {
	accepted := b
	s.Record.AcceptedBid = &accepted
	s.Record.BidAcceptedBy = by
	return s
}

// Shuffled returns a permutation of snaps drawn from rng. The input is not
// modified.
func Shuffled(rng *rand.Rand, snaps []contract.Snapshot) []contract.Snapshot {
	out := append([]contract.Snapshot(nil), snaps...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
