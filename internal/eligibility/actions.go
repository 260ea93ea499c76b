package eligibility

import (
	"fmt"
	"slices"

	"github.com/roach88/paragon/internal/contract"
)

// Action is a state transition a client may offer for a contract.
type Action string

const (
	ActionAcceptBid      Action = "accept-bid"
	ActionApproveWork    Action = "approve-work"
	ActionRaiseDispute   Action = "raise-dispute"
	ActionCancelContract Action = "cancel-contract"
	ActionIncreaseBounty Action = "increase-bounty"
	ActionPlaceBid       Action = "place-bid"
	ActionStartWork      Action = "start-work"
	ActionSubmitWork     Action = "submit-work"
	ActionDecideDispute  Action = "decide-dispute"
	ActionViewDetails    Action = "view-details"
)

// Actions lists every Action in presentation order. ActionSets are always
// ordered this way.
var Actions = []Action{
	ActionAcceptBid,
	ActionApproveWork,
	ActionRaiseDispute,
	ActionCancelContract,
	ActionIncreaseBounty,
	ActionPlaceBid,
	ActionStartWork,
	ActionSubmitWork,
	ActionDecideDispute,
	ActionViewDetails,
}

// ParseAction converts a raw string to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !slices.Contains(Actions, a) {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ActionSet is a set of actions in presentation order.
type ActionSet []Action

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return slices.Contains(s, a)
}

// Strings returns the action names.
func (s ActionSet) Strings() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = string(a)
	}
	return out
}

// newActionSet orders the permitted actions. view-details is always added.
func newActionSet(permitted map[Action]bool) ActionSet {
	set := make(ActionSet, 0, len(permitted)+1)
	for _, a := range Actions {
		if permitted[a] || a == ActionViewDetails {
			set = append(set, a)
		}
	}
	return set
}

// CanCancelContract reports whether the contract is still open for bids.
func CanCancelContract(s contract.Snapshot) bool {
	return s.Record.Status == contract.StatusInitial
}

// CanAcceptBid requires an open contract with at least one real bid.
func CanAcceptBid(s contract.Snapshot) bool {
	return s.Record.Status == contract.StatusInitial && contract.RealBidCount(s) > 0
}

// CanApproveWork requires submitted work.
func CanApproveWork(s contract.Snapshot) bool {
	return s.Record.Status == contract.StatusWorkSubmitted
}

// CanRaiseDispute requires work to be under way or submitted.
func CanRaiseDispute(s contract.Snapshot) bool {
	switch s.Record.Status {
	case contract.StatusWorkStarted, contract.StatusWorkSubmitted:
		return true
	}
	return false
}

// CanIncreaseBounty applies the record's bounty-increase allowance and
// cutoff point from the seeker's side.
func CanIncreaseBounty(s contract.Snapshot) bool {
	switch s.Record.BountyIncreaseAllowanceMode {
	case contract.AllowanceBySeeker, contract.AllowanceBySeekerOrPlatform, contract.AllowanceByAnyone:
		return beforeCutoff(s.Record.BountyIncreaseCutoffPoint, s.Record.Status)
	case contract.AllowanceForbidden, contract.AllowanceByPlatform:
		return false
	}
	return false
}

// beforeCutoff reports whether status is still before the cutoff milestone.
func beforeCutoff(cutoff contract.CutoffPoint, status contract.Status) bool {
	if !status.Valid() {
		return false
	}
	switch cutoff {
	case contract.CutoffBidAcceptance:
		return status == contract.StatusInitial
	case contract.CutoffStartOfWork:
		return status == contract.StatusInitial || status == contract.StatusBidAccepted
	case contract.CutoffSubmissionOfWork:
		return status == contract.StatusInitial || status == contract.StatusBidAccepted ||
			status == contract.StatusWorkStarted
	case contract.CutoffAcceptanceOfWork:
		return status != contract.StatusResolved
	}
	return false
}

// AvailableActions returns the actions a seeker may take on s. view-details
// is always included.
func AvailableActions(s contract.Snapshot) ActionSet {
	return newActionSet(map[Action]bool{
		ActionAcceptBid:      CanAcceptBid(s),
		ActionApproveWork:    CanApproveWork(s),
		ActionRaiseDispute:   CanRaiseDispute(s),
		ActionCancelContract: CanCancelContract(s),
		ActionIncreaseBounty: CanIncreaseBounty(s),
	})
}

// ActionsFor returns the actions the party identified by identityKey may
// take on s when acting as role.
//
// Furnisher actions past bidding belong to the furnisher of the accepted
// bid. A furnisher with a real bid already in the contract cannot bid again.
// An unknown role gets view-details only.
func ActionsFor(role contract.Role, identityKey string, s contract.Snapshot) ActionSet {
	switch role {
	case contract.RoleSeeker:
		return AvailableActions(s)
	case contract.RoleFurnisher:
		return furnisherActions(identityKey, s)
	case contract.RolePlatform:
		return newActionSet(map[Action]bool{
			ActionDecideDispute: s.Record.Status.IsDisputed(),
		})
	}
	return newActionSet(nil)
}

func furnisherActions(identityKey string, s contract.Snapshot) ActionSet {
	status := s.Record.Status
	winner := isAcceptedFurnisher(identityKey, s)

	return newActionSet(map[Action]bool{
		ActionPlaceBid:     status == contract.StatusInitial && contract.HasFreeSlot(s) && !hasBid(identityKey, s),
		ActionStartWork:    status == contract.StatusBidAccepted && winner,
		ActionSubmitWork:   status == contract.StatusWorkStarted && winner,
		ActionRaiseDispute: status == contract.StatusWorkSubmitted && winner,
	})
}

func isAcceptedFurnisher(identityKey string, s contract.Snapshot) bool {
	accepted := s.Record.Accepted()
	return identityKey != "" && accepted != nil && accepted.FurnisherKey == identityKey
}

func hasBid(identityKey string, s contract.Snapshot) bool {
	for _, b := range contract.RealBids(s) {
		if b.FurnisherKey == identityKey {
			return true
		}
	}
	return false
}

// Permits reports whether role may take action a on s.
func Permits(role contract.Role, identityKey string, a Action, s contract.Snapshot) bool {
	return ActionsFor(role, identityKey, s).Has(a)
}
