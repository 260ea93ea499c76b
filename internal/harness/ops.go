package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/paragon/internal/bids"
	"github.com/roach88/paragon/internal/contract"
	"github.com/roach88/paragon/internal/eligibility"
)

// evaluate runs one op against the engine and returns its result in
// canonical-JSON-friendly form.
func (h *Harness) evaluate(step FlowStep, args map[string]any) (map[string]any, error) {
	now := h.scenario.Now

	switch step.Op {
	case OpAggregate:
		return statsResult(eligibility.Aggregate(h.fleet)), nil
	case OpQuery:
		return h.query(args)
	}

	s := h.byID[step.Contract]
	switch step.Op {
	case OpRealBids:
		return map[string]any{"count": int64(len(contract.RealBids(s)))}, nil

	case OpEligibility:
		role, identity := h.viewer(step)
		out := make(map[string]any, len(eligibility.Actions))
		for _, a := range eligibility.Actions {
			out[string(a)] = eligibility.Permits(role, identity, a, s)
		}
		return out, nil

	case OpActions:
		role, identity := h.viewer(step)
		return map[string]any{"actions": eligibility.ActionsFor(role, identity, s).Strings()}, nil

	case OpEnrichBids:
		_, match := bids.Accepted(s)
		return map[string]any{
			"match": match.String(),
			"bids":  annotatedResult(bids.Enrich(s)),
		}, nil

	case OpSortBids:
		raw, err := stringArg(args, "key", "")
		if err != nil {
			return nil, err
		}
		key, err := bids.ParseSortKey(raw)
		if err != nil {
			return nil, err
		}
		sorted := bids.Sort(bids.Enrich(s), key)
		order := make([]any, len(sorted))
		for i, b := range sorted {
			order[i] = int64(b.Index)
		}
		return map[string]any{"order": order}, nil

	case OpBidStats:
		st := bids.Statistics(s.Record.Bids)
		out := map[string]any{
			"count":   int64(st.Count),
			"average": st.Average,
		}
		if st.Lowest != nil {
			out["lowest"] = *st.Lowest
			out["highest"] = *st.Highest
		}
		return out, nil

	case OpValidateBid:
		amount, err := intArg(args, "bidAmount", 0)
		if err != nil {
			return nil, err
		}
		bond, err := intArg(args, "bond", 0)
		if err != nil {
			return nil, err
		}
		b := contract.Bid{BidAmount: amount, Bond: bond, TimeOfBid: now}
		return validationResult(bids.Validate(b, s)), nil

	case OpPrepareOffer:
		o, err := offerArg(args)
		if err != nil {
			return nil, err
		}
		bid, v := bids.PrepareOffer(o, s, now)
		out := validationResult(v)
		out["timeOfBid"] = bid.TimeOfBid
		out["timeRequired"] = bid.TimeRequired
		return out, nil

	case OpDeadline:
		deadline := s.Record.WorkCompletionDeadline
		return map[string]any{
			"approaching": eligibility.IsDeadlineApproaching(deadline, now),
			"passed":      eligibility.IsDeadlinePassed(deadline, now),
			"remaining":   eligibility.TimeRemaining(deadline, now),
		}, nil

	case OpSplitDispute:
		award, err := boolArg(args, "awardToFurnisher", false)
		if err != nil {
			return nil, err
		}
		split, err := eligibility.SplitDispute(s.Record, award)
		var re *eligibility.RuleError
		if errors.As(err, &re) {
			return map[string]any{"error": string(re.Code)}, nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"seeker":      split.Seeker,
			"furnisher":   split.Furnisher,
			"platformFee": split.PlatformFee,
		}, nil

	case OpInvariants:
		return validationResult(contract.CheckInvariants(s)), nil

	case OpListing:
		return validationResult(contract.ValidateListing(s, now)), nil
	}

	return nil, fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) query(args map[string]any) (map[string]any, error) {
	var q eligibility.Query

	status, err := stringArg(args, "status", "")
	if err != nil {
		return nil, err
	}
	if q.Status, err = eligibility.ParseStatusFilter(status); err != nil {
		return nil, err
	}
	if q.Search, err = stringArg(args, "search", ""); err != nil {
		return nil, err
	}
	sortKey, err := stringArg(args, "sort", string(eligibility.SortNewest))
	if err != nil {
		return nil, err
	}
	if q.Sort, err = eligibility.ParseContractSortKey(sortKey); err != nil {
		return nil, err
	}
	if q.MinBounty, err = intArg(args, "minBounty", 0); err != nil {
		return nil, err
	}
	if q.MaxBounty, err = intArg(args, "maxBounty", 0); err != nil {
		return nil, err
	}
	if q.OnlyWithoutBids, err = boolArg(args, "onlyWithoutBids", false); err != nil {
		return nil, err
	}

	matched := q.Apply(h.fleet)
	ids := make([]string, len(matched))
	for i, s := range matched {
		ids[i] = h.ids[s.Outpoint()]
	}
	return map[string]any{"contracts": ids}, nil
}

func statsResult(st eligibility.ContractStats) map[string]any {
	return map[string]any{
		"totalContracts":     int64(st.TotalContracts),
		"openContracts":      int64(st.OpenContracts),
		"activeContracts":    int64(st.ActiveContracts),
		"completedContracts": int64(st.CompletedContracts),
		"disputedContracts":  int64(st.DisputedContracts),
		"totalBountyLocked":  st.TotalBountyLocked,
	}
}

func validationResult(v contract.Validation) map[string]any {
	errs := v.Errors
	if errs == nil {
		errs = []string{}
	}
	return map[string]any{"valid": v.Valid, "errors": errs}
}

func annotatedResult(annotated []bids.AnnotatedBid) []any {
	out := make([]any, len(annotated))
	for i, b := range annotated {
		out[i] = map[string]any{
			"index":      int64(b.Index),
			"bidAmount":  b.BidAmount,
			"isAccepted": b.IsAccepted,
			"isLatest":   b.IsLatest,
		}
	}
	return out
}

func offerArg(args map[string]any) (bids.Offer, error) {
	var o bids.Offer
	var err error
	if o.FurnisherKey, err = stringArg(args, "furnisherKey", ""); err != nil {
		return o, err
	}
	if o.Plans, err = stringArg(args, "plans", ""); err != nil {
		return o, err
	}
	if o.BidAmount, err = intArg(args, "bidAmount", 0); err != nil {
		return o, err
	}
	if o.Bond, err = intArg(args, "bond", 0); err != nil {
		return o, err
	}
	if o.TimeRequired, err = intArg(args, "timeRequired", 0); err != nil {
		return o, err
	}
	return o, nil
}

func stringArg(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %q: want string, got %T", key, v)
	}
	return s, nil
}

func intArg(args map[string]any, key string, def int64) (int64, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("arg %q: want integer, got %T", key, v)
	}
	return n, nil
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("arg %q: want bool, got %T", key, v)
	}
	return b, nil
}
