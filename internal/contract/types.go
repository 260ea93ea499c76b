package contract

import "fmt"

// Bid is one furnisher's offer, as stored in a fixed-size on-chain slot.
type Bid struct {
	FurnisherKey string `json:"furnisherKey" yaml:"furnisherKey"`
	Plans        string `json:"plans" yaml:"plans"`               // hex-encoded or plain text proposal
	BidAmount    int64  `json:"bidAmount" yaml:"bidAmount"`       // satoshis
	Bond         int64  `json:"bond" yaml:"bond"`                 // satoshis
	TimeOfBid    int64  `json:"timeOfBid" yaml:"timeOfBid"`       // Unix seconds
	TimeRequired int64  `json:"timeRequired" yaml:"timeRequired"` // absolute Unix seconds, not a duration
}

// Outpoint identifies one version of a contract: the UTXO currently holding it.
type Outpoint struct {
	Txid  string `json:"txid" yaml:"txid"`
	Index int    `json:"outputIndex" yaml:"outputIndex"`
}

// String renders the outpoint as "txid.index".
func (o Outpoint) String() string {
	return fmt.Sprintf("%s.%d", o.Txid, o.Index)
}

// Record is the decoded state of an escrow contract output.
//
// Each record carries its own copy of the policy fields agreed in the
// GlobalConfig at creation time; eligibility decisions read these copies,
// never the process-wide configuration.
type Record struct {
	Txid        string `json:"txid" yaml:"txid"`
	OutputIndex int    `json:"outputIndex" yaml:"outputIndex"`

	MinAllowableBid               int64 `json:"minAllowableBid" yaml:"minAllowableBid"`
	EscrowServiceFeeBasisPoints   int64 `json:"escrowServiceFeeBasisPoints" yaml:"escrowServiceFeeBasisPoints"`
	PlatformAuthorizationRequired bool  `json:"platformAuthorizationRequired" yaml:"platformAuthorizationRequired"`
	EscrowMustBeFullyDecisive     bool  `json:"escrowMustBeFullyDecisive" yaml:"escrowMustBeFullyDecisive"`
	BountySolversNeedApproval     bool  `json:"bountySolversNeedApproval" yaml:"bountySolversNeedApproval"`

	FurnisherBondingMode BondingMode `json:"furnisherBondingMode" yaml:"furnisherBondingMode"`
	RequiredBondAmount   int64       `json:"requiredBondAmount" yaml:"requiredBondAmount"`

	MaxWorkStartDelay      int64        `json:"maxWorkStartDelay" yaml:"maxWorkStartDelay"`
	MaxWorkApprovalDelay   int64        `json:"maxWorkApprovalDelay" yaml:"maxWorkApprovalDelay"`
	DelayUnit              DelayUnit    `json:"delayUnit" yaml:"delayUnit"`
	WorkCompletionDeadline int64        `json:"workCompletionDeadline" yaml:"workCompletionDeadline"`
	ApprovalMode           ApprovalMode `json:"approvalMode" yaml:"approvalMode"`
	ContractType           ContractType `json:"contractType" yaml:"contractType"`

	ContractSurvivesAdverseFurnisherDisputeResolution bool `json:"contractSurvivesAdverseFurnisherDisputeResolution" yaml:"contractSurvivesAdverseFurnisherDisputeResolution"`

	BountyIncreaseAllowanceMode AllowanceMode `json:"bountyIncreaseAllowanceMode" yaml:"bountyIncreaseAllowanceMode"`
	BountyIncreaseCutoffPoint   CutoffPoint   `json:"bountyIncreaseCutoffPoint" yaml:"bountyIncreaseCutoffPoint"`

	Bids          []Bid    `json:"bids" yaml:"bids"`
	SeekerKey     string   `json:"seekerKey" yaml:"seekerKey"`
	PlatformKey   string   `json:"platformKey" yaml:"platformKey"`
	AcceptedBid   *Bid     `json:"acceptedBid,omitempty" yaml:"acceptedBid,omitempty"`
	BidAcceptedBy Acceptor `json:"bidAcceptedBy,omitempty" yaml:"bidAcceptedBy,omitempty"`

	WorkCompletionTime        int64  `json:"workCompletionTime" yaml:"workCompletionTime"`
	Status                    Status `json:"status" yaml:"status"`
	WorkDescription           string `json:"workDescription" yaml:"workDescription"`                                         // hex-encoded or plain text
	WorkCompletionDescription string `json:"workCompletionDescription,omitempty" yaml:"workCompletionDescription,omitempty"` // hex-encoded or plain text
}

// Snapshot is one fetched view of a contract: the decoded record plus the
// satoshis locked in its output.
//
// Snapshots are values. Helpers in this module take them by value and never
// write through the Bids slice or AcceptedBid pointer.
type Snapshot struct {
	Record   Record `json:"record" yaml:"record"`
	Satoshis int64  `json:"satoshis" yaml:"satoshis"`
}

// Outpoint returns the snapshot's identity.
func (s Snapshot) Outpoint() Outpoint {
	return Outpoint{Txid: s.Record.Txid, Index: s.Record.OutputIndex}
}

// IsBounty reports whether the bid amount is fixed to the locked satoshis.
func (s Snapshot) IsBounty() bool {
	return s.Record.ContractType == TypeBounty
}
