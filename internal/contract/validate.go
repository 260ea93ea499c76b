package contract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Bounds applied to seeker-side work creation.
const (
	MinBounty           int64 = 1_000
	MaxBounty           int64 = 100_000_000
	MaxDeadlineHorizon  int64 = 365 * 24 * 60 * 60
	MinDescriptionRunes       = 10
	MaxDescriptionRunes       = 5000
)

// Validation is the structured outcome of a business-rule check.
// Errors are user-facing messages; Valid is true iff Errors is empty.
type Validation struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors" yaml:"errors"`
}

// NewValidation returns a passing validation with an empty error list.
func NewValidation() Validation {
	return Validation{Valid: true, Errors: []string{}}
}

// Addf records a failed check.
func (v *Validation) Addf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
	v.Valid = false
}

// Merge appends the errors of other.
func (v *Validation) Merge(other Validation) {
	for _, e := range other.Errors {
		v.Addf("%s", e)
	}
}

// ValidateBounty checks an amount a seeker wants to lock into a new contract.
func ValidateBounty(amount, minAllowable int64) Validation {
	v := NewValidation()
	switch {
	case amount <= 0:
		v.Addf("Bounty must be a positive number")
	case amount < minAllowable:
		v.Addf("Bounty must be at least %d satoshis", minAllowable)
	case amount > MaxBounty:
		v.Addf("Bounty cannot exceed %d satoshis", MaxBounty)
	}
	return v
}

// ValidateDeadline checks a work completion deadline against now.
func ValidateDeadline(deadline, now int64) Validation {
	v := NewValidation()
	switch {
	case deadline <= 0:
		v.Addf("Please select a valid deadline")
	case deadline <= now:
		v.Addf("Deadline must be in the future")
	case deadline > now+MaxDeadlineHorizon:
		v.Addf("Deadline cannot be more than 1 year in the future")
	}
	return v
}

// ValidateWorkDescription checks the plain-text description of a new contract.
func ValidateWorkDescription(text string) Validation {
	v := NewValidation()
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		v.Addf("Work description is required")
	case n < MinDescriptionRunes:
		v.Addf("Work description must be at least %d characters", MinDescriptionRunes)
	case n > MaxDescriptionRunes:
		v.Addf("Work description must be less than %d characters", MaxDescriptionRunes)
	}
	return v
}

// ValidateListing checks a contract's description, bounty and deadline as
// they are checked when the seeker creates it. Every failing field is
// reported.
func ValidateListing(s Snapshot, now int64) Validation {
	v := NewValidation()
	v.Merge(ValidateWorkDescription(DecodeText(s.Record.WorkDescription)))
	v.Merge(ValidateBounty(s.Satoshis, s.Record.MinAllowableBid))
	v.Merge(ValidateDeadline(s.Record.WorkCompletionDeadline, now))
	return v
}

// ValidatePublicKey checks a compressed public key: 33 bytes, hex-encoded.
func ValidatePublicKey(key string) Validation {
	v := NewValidation()
	trimmed := strings.TrimSpace(key)
	switch {
	case trimmed == "":
		v.Addf("Public key is required")
	case len(trimmed) != 66:
		v.Addf("Invalid public key format")
	case !isHex(trimmed):
		v.Addf("Public key must be hexadecimal")
	}
	return v
}

// ValidateTxid checks a transaction ID: 32 bytes, hex-encoded.
func ValidateTxid(txid string) Validation {
	v := NewValidation()
	trimmed := strings.TrimSpace(txid)
	switch {
	case trimmed == "":
		v.Addf("Transaction ID is required")
	case len(trimmed) != 64:
		v.Addf("Invalid transaction ID format")
	case !isHex(trimmed):
		v.Addf("Transaction ID must be hexadecimal")
	}
	return v
}

// ValidateOutputIndex checks an output index.
func ValidateOutputIndex(index int) Validation {
	v := NewValidation()
	if index < 0 {
		v.Addf("Output index must be a non-negative integer")
	}
	return v
}

// ParseOutpoint parses "txid.index" (or "txid:index") into an Outpoint.
func ParseOutpoint(s string) (Outpoint, error) {
	s = strings.TrimSpace(s)
	sep := strings.LastIndexAny(s, ".:")
	if sep < 0 {
		return Outpoint{}, fmt.Errorf("outpoint %q: expected txid.index", s)
	}

	txid, rawIndex := s[:sep], s[sep+1:]
	if v := ValidateTxid(txid); !v.Valid {
		return Outpoint{}, fmt.Errorf("outpoint %q: %s", s, v.Errors[0])
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return Outpoint{}, fmt.Errorf("outpoint %q: invalid output index: %w", s, err)
	}
	if v := ValidateOutputIndex(index); !v.Valid {
		return Outpoint{}, fmt.Errorf("outpoint %q: %s", s, v.Errors[0])
	}
	return Outpoint{Txid: strings.ToLower(txid), Index: index}, nil
}

// CheckInvariants reports snapshot states the backend should never produce.
// The result is advisory: the engine still evaluates such snapshots.
func CheckInvariants(s Snapshot) Validation {
	v := NewValidation()
	r := s.Record

	if len(r.Bids) > BidSlots {
		v.Addf("contract holds %d bid slots, capacity is %d", len(r.Bids), BidSlots)
	}

	realBids := RealBids(s)
	for i, b := range realBids {
		switch r.ContractType {
		case TypeBounty:
			if b.BidAmount != s.Satoshis {
				v.Addf("bid %d amount %d differs from bounty %d", i, b.BidAmount, s.Satoshis)
			}
		case TypeBid:
			if b.BidAmount < r.MinAllowableBid {
				v.Addf("bid %d amount %d is below minimum %d", i, b.BidAmount, r.MinAllowableBid)
			}
		}
	}

	if accepted := r.Accepted(); accepted != nil {
		if r.ContractType == TypeBounty && accepted.BidAmount != s.Satoshis {
			v.Addf("accepted bid amount %d differs from bounty %d", accepted.BidAmount, s.Satoshis)
		}
		matches := 0
		for _, b := range realBids {
			if SamePair(b, *accepted) {
				matches++
			}
		}
		if matches != 1 {
			v.Addf("accepted bid matches %d real bids, expected exactly 1", matches)
		}
	}
	return v
}
