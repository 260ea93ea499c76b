package eligibility

import "github.com/roach88/paragon/internal/contract"

// ContractStats is the fleet-level summary of a set of snapshots.
type ContractStats struct {
	TotalContracts     int   `json:"totalContracts" yaml:"totalContracts"`
	OpenContracts      int   `json:"openContracts" yaml:"openContracts"`
	ActiveContracts    int   `json:"activeContracts" yaml:"activeContracts"`
	CompletedContracts int   `json:"completedContracts" yaml:"completedContracts"`
	DisputedContracts  int   `json:"disputedContracts" yaml:"disputedContracts"`
	TotalBountyLocked  int64 `json:"totalBountyLocked" yaml:"totalBountyLocked"` // satoshis held by unresolved contracts
}

// Aggregate reduces snapshots to ContractStats in one pass.
//
// Each snapshot contributes independently of the others, so the result does
// not depend on input order.
func Aggregate(snaps []contract.Snapshot) ContractStats {
	st := ContractStats{TotalContracts: len(snaps)}
	for _, s := range snaps {
		st.add(s)
	}
	return st
}

func (st *ContractStats) add(s contract.Snapshot) {
	switch s.Record.Status {
	case contract.StatusInitial:
		st.OpenContracts++
	case contract.StatusBidAccepted, contract.StatusWorkStarted, contract.StatusWorkSubmitted:
		st.ActiveContracts++
	case contract.StatusResolved:
		st.CompletedContracts++
	case contract.StatusDisputedBySeeker, contract.StatusDisputedByFurnisher:
		st.DisputedContracts++
	}

	if s.Record.Status != contract.StatusResolved {
		st.TotalBountyLocked += s.Satoshis
	}
}
