package eligibility

import (
	"context"

	"github.com/roach88/paragon/internal/contract"
)

// Executor performs contract operations against the backend. The backend
// builds, signs and broadcasts the transaction, and re-validates the rules.
type Executor interface {
	AcceptBid(ctx context.Context, s contract.Snapshot, bidIndex int) error
	ApproveWork(ctx context.Context, s contract.Snapshot) error
	RaiseDispute(ctx context.Context, s contract.Snapshot) error
	Cancel(ctx context.Context, s contract.Snapshot) error
	IncreaseBounty(ctx context.Context, s contract.Snapshot, amount int64) error
}

// Guard delegates to an Executor only when the snapshot permits the action
// for the configured party.
type Guard struct {
	exec     Executor
	role     contract.Role
	identity string
}

// NewGuard creates a guard for the party identified by identityKey acting as
// role.
func NewGuard(exec Executor, role contract.Role, identityKey string) *Guard {
	return &Guard{exec: exec, role: role, identity: identityKey}
}

// check returns a RuleError unless the action is permitted on s.
func (g *Guard) check(a Action, s *contract.Snapshot) error {
	if s == nil {
		return &RuleError{Code: ErrCodeInvalidRequest, Message: "nil snapshot", Action: a}
	}
	if !Permits(g.role, g.identity, a, *s) {
		err := newRuleError(ErrCodeNotPermitted, *s, "%s is not permitted for %s in status %s", a, g.role, s.Record.Status)
		err.Action = a
		return err
	}
	return nil
}

// AcceptBid accepts the real bid at bidIndex (see bids.Enrich).
func (g *Guard) AcceptBid(ctx context.Context, s *contract.Snapshot, bidIndex int) error {
	if err := g.check(ActionAcceptBid, s); err != nil {
		return err
	}
	if n := contract.RealBidCount(*s); bidIndex < 0 || bidIndex >= n {
		return newRuleError(ErrCodeInvalidRequest, *s, "bid index %d out of range [0,%d)", bidIndex, n)
	}
	return g.exec.AcceptBid(ctx, *s, bidIndex)
}

func (g *Guard) ApproveWork(ctx context.Context, s *contract.Snapshot) error {
	if err := g.check(ActionApproveWork, s); err != nil {
		return err
	}
	return g.exec.ApproveWork(ctx, *s)
}

func (g *Guard) RaiseDispute(ctx context.Context, s *contract.Snapshot) error {
	if err := g.check(ActionRaiseDispute, s); err != nil {
		return err
	}
	return g.exec.RaiseDispute(ctx, *s)
}

func (g *Guard) Cancel(ctx context.Context, s *contract.Snapshot) error {
	if err := g.check(ActionCancelContract, s); err != nil {
		return err
	}
	return g.exec.Cancel(ctx, *s)
}

// IncreaseBounty adds amount satoshis to the contract's bounty.
func (g *Guard) IncreaseBounty(ctx context.Context, s *contract.Snapshot, amount int64) error {
	if err := g.check(ActionIncreaseBounty, s); err != nil {
		return err
	}
	if amount <= 0 {
		return newRuleError(ErrCodeInvalidRequest, *s, "bounty increase must be positive, got %d", amount)
	}
	return g.exec.IncreaseBounty(ctx, *s, amount)
}
