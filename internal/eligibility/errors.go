package eligibility

import (
	"errors"
	"fmt"

	"github.com/roach88/paragon/internal/contract"
)

// ErrNotPermitted is matched by errors.Is for any refusal from Guard.
var ErrNotPermitted = errors.New("action not permitted")

// RuleError represents a request the rule engine refuses.
//
// Rule errors include:
//   - Not permitted: the snapshot does not allow the action
//   - Not disputed: a dispute split was requested for an undisputed contract
//   - No accepted bid: the operation needs an accepted bid
//   - Invalid request: a programmer error such as a nil snapshot
type RuleError struct {
	// Code identifies the error category.
	Code RuleErrorCode

	// Message is a human-readable description.
	Message string

	// Contract identifies the affected snapshot, when known.
	Contract contract.Outpoint

	// Action is the refused action, for permission errors.
	Action Action
}

// RuleErrorCode categorizes rule errors.
type RuleErrorCode string

const (
	ErrCodeNotPermitted   RuleErrorCode = "NOT_PERMITTED"
	ErrCodeNotDisputed    RuleErrorCode = "NOT_DISPUTED"
	ErrCodeNoAcceptedBid  RuleErrorCode = "NO_ACCEPTED_BID"
	ErrCodeInvalidFee     RuleErrorCode = "INVALID_FEE"
	ErrCodeInvalidAmount  RuleErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidRequest RuleErrorCode = "INVALID_REQUEST"
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Contract.Txid != "" {
		return fmt.Sprintf("%s: %s (contract=%s)", e.Code, e.Message, e.Contract)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrNotPermitted) match permission refusals.
func (e *RuleError) Is(target error) bool {
	return target == ErrNotPermitted && e.Code == ErrCodeNotPermitted
}

func newRuleError(code RuleErrorCode, s contract.Snapshot, format string, args ...any) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...), Contract: s.Outpoint()}
}

// IsNotPermitted returns true if err is a permission refusal.
// Uses errors.Is to handle wrapped errors.
func IsNotPermitted(err error) bool {
	return errors.Is(err, ErrNotPermitted)
}

// IsNotDisputed returns true if err reports an undisputed contract.
func IsNotDisputed(err error) bool {
	return hasCode(err, ErrCodeNotDisputed)
}

// IsNoAcceptedBid returns true if err reports a missing accepted bid.
func IsNoAcceptedBid(err error) bool {
	return hasCode(err, ErrCodeNoAcceptedBid)
}

func hasCode(err error, code RuleErrorCode) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
