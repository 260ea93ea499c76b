package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/paragon/internal/config"
	"github.com/roach88/paragon/internal/contract"
)

// Harness is the scenario execution engine for one scenario.
type Harness struct {
	scenario *Scenario
	fleet    []contract.Snapshot
	byID     map[string]contract.Snapshot
	ids      map[contract.Outpoint]string
	seq      int64
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// A returned error means the scenario itself is broken (a fixture that does
// not decode, an op argument of the wrong type). Engine outcomes that differ
// from the expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h, err := newHarness(scenario, logger)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, err
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	fleet, err := buildFleet(scenario)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		scenario: scenario,
		fleet:    fleet,
		byID:     make(map[string]contract.Snapshot, len(fleet)),
		ids:      make(map[contract.Outpoint]string, len(fleet)),
		logger:   logger,
	}
	for i, snap := range fleet {
		id := scenario.Contracts[i].ID
		if prev, dup := h.ids[snap.Outpoint()]; dup {
			return nil, fmt.Errorf("contracts %q and %q share outpoint %s", prev, id, snap.Outpoint())
		}
		h.byID[id] = snap
		h.ids[snap.Outpoint()] = id
	}
	return h, nil
}

// buildFleet turns the fixtures into snapshots. Every record starts from
// the network preset's NewRecord and is then overlaid with the fixture.
func buildFleet(scenario *Scenario) ([]contract.Snapshot, error) {
	cfg, err := config.Preset(scenario.Network)
	if err != nil {
		return nil, err
	}

	fleet := make([]contract.Snapshot, 0, len(scenario.Contracts))
	for i, fx := range scenario.Contracts {
		rec := cfg.NewRecord(fixtureKey(0xa0), "Scenario contract "+fx.ID, scenario.Now+7*24*3600)
		rec.Txid = fixtureTxid(i + 1)
		rec.Bids = []contract.Bid{}

		if !fx.Record.IsZero() {
			if err := fx.Record.Decode(&rec); err != nil {
				return nil, fmt.Errorf("contract %q: %w", fx.ID, err)
			}
		}

		if fx.AcceptedBidIndex != nil {
			idx := *fx.AcceptedBidIndex
			if idx < 0 || idx >= len(rec.Bids) {
				return nil, fmt.Errorf("contract %q: acceptedBidIndex %d out of range", fx.ID, idx)
			}
			accepted := rec.Bids[idx]
			rec.AcceptedBid = &accepted
			if rec.BidAcceptedBy == contract.NotYetAccepted {
				rec.BidAcceptedBy = contract.AcceptedBySeeker
			}
		}

		fleet = append(fleet, contract.Snapshot{Record: rec, Satoshis: fx.Satoshis})
	}
	return fleet, nil
}

func fixtureKey(n int) string {
	return "02" + strings.Repeat(fmt.Sprintf("%02x", n%256), 32)
}

func fixtureTxid(n int) string {
	return strings.Repeat(fmt.Sprintf("%02x", n%256), 32)
}

// executeStep runs one evaluation, records it and checks its expect clause.
func (h *Harness) executeStep(i int, step FlowStep, result *Result) error {
	args, err := normalizeArgs(step.Args)
	if err != nil {
		return fmt.Errorf("flow step %d: failed to convert args: %w", i, err)
	}

	out, err := h.evaluate(step, args)
	if err != nil {
		return fmt.Errorf("flow step %d (%s): %w", i, step.Op, err)
	}

	h.seq++
	event := TraceEvent{Seq: h.seq, Op: step.Op, Result: out}
	if !fleetOps[step.Op] {
		event.Contract = step.Contract
	}
	if len(args) > 0 {
		event.Args = args
	}
	result.AddTrace(event)

	if step.Expect != nil {
		if diff := matchSubset(out, step.Expect); diff != "" {
			result.AddError(fmt.Sprintf("flow[%d] %s %s: %s", i, step.Op, step.Contract, diff))
		}
	}

	h.logger.Info("flow step completed",
		"step", i,
		"op", step.Op,
		"contract", step.Contract,
		"seq", h.seq,
	)
	return nil
}

// viewer resolves the role and identity a step evaluates as.
func (h *Harness) viewer(step FlowStep) (contract.Role, string) {
	role := h.scenario.Role
	if step.Role != "" {
		role = step.Role
	}
	identity := h.scenario.Identity
	if step.Identity != nil {
		identity = *step.Identity
	}
	return role, identity
}

// normalizeArgs converts YAML-parsed values to the types canonical JSON
// accepts: string, bool, int64, []any and map[string]any.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	if args == nil {
		return nil, nil
	}
	out := make(map[string]any, len(args))
	for key, val := range args {
		v, err := normalizeValue(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func normalizeValue(val any) (any, error) {
	switch v := val.(type) {
	case nil:
		return nil, fmt.Errorf("null values are not allowed in args")
	case string, bool, int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
		return nil, fmt.Errorf("fractional numbers are not allowed: %v", v)
	case []any:
		arr := make([]any, len(v))
		for i, elem := range v {
			e, err := normalizeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		return normalizeArgs(v)
	default:
		return nil, fmt.Errorf("unsupported type %T", val)
	}
}
