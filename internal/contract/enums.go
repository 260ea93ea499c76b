package contract

import "fmt"

// Status is the lifecycle state of an escrow contract.
//
//	initial ──► bid-accepted ──► work-started ──► work-submitted ──► resolved
//	                                  │                  │
//	                                  └──────────────────┴──► disputed-by-seeker
//	                                                          disputed-by-furnisher
//
// Disputed states wait for a platform decision, which resolves them outside
// this model. Cancellation destroys the contract from initial and has no
// Status value of its own.
type Status string

const (
	StatusInitial             Status = "initial"
	StatusBidAccepted         Status = "bid-accepted"
	StatusWorkStarted         Status = "work-started"
	StatusWorkSubmitted       Status = "work-submitted"
	StatusResolved            Status = "resolved"
	StatusDisputedBySeeker    Status = "disputed-by-seeker"
	StatusDisputedByFurnisher Status = "disputed-by-furnisher"
)

// Statuses lists every Status in lifecycle order.
var Statuses = []Status{
	StatusInitial,
	StatusBidAccepted,
	StatusWorkStarted,
	StatusWorkSubmitted,
	StatusResolved,
	StatusDisputedBySeeker,
	StatusDisputedByFurnisher,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown contract status %q", s)
	}
	return st, nil
}

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusInitial, StatusBidAccepted, StatusWorkStarted, StatusWorkSubmitted,
		StatusResolved, StatusDisputedBySeeker, StatusDisputedByFurnisher:
		return true
	}
	return false
}

// IsDisputed reports whether the contract awaits a platform decision.
func (s Status) IsDisputed() bool {
	return s == StatusDisputedBySeeker || s == StatusDisputedByFurnisher
}

// IsActive reports whether a bid has been accepted and work is not yet
// approved or disputed.
func (s Status) IsActive() bool {
	switch s {
	case StatusBidAccepted, StatusWorkStarted, StatusWorkSubmitted:
		return true
	}
	return false
}

// Label returns the display name used by dashboards.
func (s Status) Label() string {
	switch s {
	case StatusInitial:
		return "Open for Bids"
	case StatusBidAccepted:
		return "Bid Accepted"
	case StatusWorkStarted:
		return "Work in Progress"
	case StatusWorkSubmitted:
		return "Work Submitted"
	case StatusResolved:
		return "Completed"
	case StatusDisputedBySeeker:
		return "Disputed by Seeker"
	case StatusDisputedByFurnisher:
		return "Disputed by Furnisher"
	}
	return string(s)
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ContractType selects fixed-reward (bounty) or open-price (bid) semantics.
type ContractType string

const (
	TypeBid    ContractType = "bid"
	TypeBounty ContractType = "bounty"
)

func ParseContractType(s string) (ContractType, error) {
	switch t := ContractType(s); t {
	case TypeBid, TypeBounty:
		return t, nil
	}
	return "", fmt.Errorf("unknown contract type %q", s)
}

func (t *ContractType) UnmarshalText(b []byte) error {
	v, err := ParseContractType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// BondingMode controls whether furnishers post a bond with their bid.
type BondingMode string

const (
	BondingForbidden BondingMode = "forbidden"
	BondingOptional  BondingMode = "optional"
	BondingRequired  BondingMode = "required"
)

func ParseBondingMode(s string) (BondingMode, error) {
	switch m := BondingMode(s); m {
	case BondingForbidden, BondingOptional, BondingRequired:
		return m, nil
	}
	return "", fmt.Errorf("unknown bonding mode %q", s)
}

func (m *BondingMode) UnmarshalText(b []byte) error {
	v, err := ParseBondingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// AllowanceMode names who may add funds to a contract's bounty.
type AllowanceMode string

const (
	AllowanceForbidden          AllowanceMode = "forbidden"
	AllowanceBySeeker           AllowanceMode = "by-seeker"
	AllowanceByPlatform         AllowanceMode = "by-platform"
	AllowanceBySeekerOrPlatform AllowanceMode = "by-seeker-or-platform"
	AllowanceByAnyone           AllowanceMode = "by-anyone"
)

func ParseAllowanceMode(s string) (AllowanceMode, error) {
	switch m := AllowanceMode(s); m {
	case AllowanceForbidden, AllowanceBySeeker, AllowanceByPlatform,
		AllowanceBySeekerOrPlatform, AllowanceByAnyone:
		return m, nil
	}
	return "", fmt.Errorf("unknown bounty increase allowance mode %q", s)
}

func (m *AllowanceMode) UnmarshalText(b []byte) error {
	v, err := ParseAllowanceMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// CutoffPoint is the last lifecycle milestone before which the bounty may
// still be increased.
type CutoffPoint string

const (
	CutoffBidAcceptance    CutoffPoint = "bid-acceptance"
	CutoffStartOfWork      CutoffPoint = "start-of-work"
	CutoffSubmissionOfWork CutoffPoint = "submission-of-work"
	CutoffAcceptanceOfWork CutoffPoint = "acceptance-of-work"
)

func ParseCutoffPoint(s string) (CutoffPoint, error) {
	switch c := CutoffPoint(s); c {
	case CutoffBidAcceptance, CutoffStartOfWork, CutoffSubmissionOfWork, CutoffAcceptanceOfWork:
		return c, nil
	}
	return "", fmt.Errorf("unknown bounty increase cutoff point %q", s)
}

func (c *CutoffPoint) UnmarshalText(b []byte) error {
	v, err := ParseCutoffPoint(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ApprovalMode names who may approve submitted work.
type ApprovalMode string

const (
	ApprovalSeeker           ApprovalMode = "seeker"
	ApprovalPlatform         ApprovalMode = "platform"
	ApprovalSeekerOrPlatform ApprovalMode = "seeker-or-platform"
)

func ParseApprovalMode(s string) (ApprovalMode, error) {
	switch m := ApprovalMode(s); m {
	case ApprovalSeeker, ApprovalPlatform, ApprovalSeekerOrPlatform:
		return m, nil
	}
	return "", fmt.Errorf("unknown approval mode %q", s)
}

func (m *ApprovalMode) UnmarshalText(b []byte) error {
	v, err := ParseApprovalMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DelayUnit is the unit of MaxWorkStartDelay and MaxWorkApprovalDelay.
type DelayUnit string

const (
	DelayBlocks  DelayUnit = "blocks"
	DelaySeconds DelayUnit = "seconds"
)

func ParseDelayUnit(s string) (DelayUnit, error) {
	switch u := DelayUnit(s); u {
	case DelayBlocks, DelaySeconds:
		return u, nil
	}
	return "", fmt.Errorf("unknown delay unit %q", s)
}

func (u *DelayUnit) UnmarshalText(b []byte) error {
	v, err := ParseDelayUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Acceptor records which party accepted the winning bid.
type Acceptor string

const (
	AcceptedByPlatform Acceptor = "platform"
	AcceptedBySeeker   Acceptor = "seeker"
	NotYetAccepted     Acceptor = "not-yet-accepted"
)

func ParseAcceptor(s string) (Acceptor, error) {
	switch a := Acceptor(s); a {
	case AcceptedByPlatform, AcceptedBySeeker, NotYetAccepted:
		return a, nil
	}
	return "", fmt.Errorf("unknown bid acceptor %q", s)
}

func (a *Acceptor) UnmarshalText(b []byte) error {
	v, err := ParseAcceptor(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Network is the environment preset a process runs against.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkLocal   Network = "local"
)

func ParseNetwork(s string) (Network, error) {
	switch n := Network(s); n {
	case NetworkMainnet, NetworkTestnet, NetworkLocal:
		return n, nil
	}
	return "", fmt.Errorf("unknown network %q", s)
}

func (n *Network) UnmarshalText(b []byte) error {
	v, err := ParseNetwork(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Role is the marketplace party a client acts as.
type Role string

const (
	RoleSeeker    Role = "seeker"
	RoleFurnisher Role = "furnisher"
	RolePlatform  Role = "platform"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSeeker, RoleFurnisher, RolePlatform:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
