package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/paragon/internal/contract"
)

// Scenario defines a conformance scenario: a fleet of contracts, a fixed
// "now", and a flow of engine evaluations with expected results.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the evaluation time in Unix seconds. Defaults to 1700000000.
	Now int64 `yaml:"now,omitempty"`

	// Network selects the preset new contract records start from.
	// Defaults to local.
	Network contract.Network `yaml:"network,omitempty"`

	// Role and Identity are the default viewer for role-dependent steps.
	// Role defaults to seeker.
	Role     contract.Role `yaml:"role,omitempty"`
	Identity string        `yaml:"identity,omitempty"`

	// Contracts is the fleet. Each record starts from the network preset and
	// is overlaid with the fixture's record fields.
	Contracts []ContractFixture `yaml:"contracts"`

	// Flow contains the evaluations, run in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ContractFixture is one contract of the scenario fleet.
type ContractFixture struct {
	// ID names the contract in steps and results.
	ID string `yaml:"id"`

	Satoshis int64 `yaml:"satoshis"`

	// Record holds the fields that differ from the preset record, using the
	// wire field names (status, bids, contractType, ...).
	Record yaml.Node `yaml:"record,omitempty"`

	// AcceptedBidIndex copies Bids[i] into AcceptedBid. BidAcceptedBy becomes
	// seeker unless the record sets it.
	AcceptedBidIndex *int `yaml:"acceptedBidIndex,omitempty"`
}

// FlowStep is one engine evaluation.
type FlowStep struct {
	// Op is the evaluation to run; see the Op constants.
	Op string `yaml:"op"`

	// Contract is the fixture ID the op runs on. Fleet ops ignore it.
	Contract string `yaml:"contract,omitempty"`

	// Role and Identity override the scenario viewer for this step.
	Role     contract.Role `yaml:"role,omitempty"`
	Identity *string       `yaml:"identity,omitempty"`

	// Args are op-specific inputs.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect is a subset match against the op's result.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Evaluation ops.
const (
	OpRealBids     = "real-bids"
	OpEligibility  = "eligibility"
	OpActions      = "actions"
	OpEnrichBids   = "enrich-bids"
	OpSortBids     = "sort-bids"
	OpBidStats     = "bid-stats"
	OpValidateBid  = "validate-bid"
	OpPrepareOffer = "prepare-offer"
	OpDeadline     = "deadline"
	OpSplitDispute = "split-dispute"
	OpInvariants   = "invariants"
	OpListing      = "validate-listing"
	OpAggregate    = "aggregate"
	OpQuery        = "query"
)

// fleetOps run over every contract and take no contract ID.
var fleetOps = map[string]bool{
	OpAggregate: true,
	OpQuery:     true,
}

var contractOps = map[string]bool{
	OpRealBids:     true,
	OpEligibility:  true,
	OpActions:      true,
	OpEnrichBids:   true,
	OpSortBids:     true,
	OpBidStats:     true,
	OpValidateBid:  true,
	OpPrepareOffer: true,
	OpDeadline:     true,
	OpSplitDispute: true,
	OpInvariants:   true,
	OpListing:      true,
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event with Op (and Contract, if set) whose
	//   result contains Result
	// - "trace_order": the Ops appear in order
	// - "trace_count": Op appears exactly Count times
	// - "permits": Role may (or may not) take Action on Contract
	Type string `yaml:"type"`

	Op       string         `yaml:"op,omitempty"`
	Contract string         `yaml:"contract,omitempty"`
	Result   map[string]any `yaml:"result,omitempty"`
	Count    int            `yaml:"count,omitempty"`
	Ops      []string       `yaml:"ops,omitempty"`

	Role     contract.Role `yaml:"role,omitempty"`
	Identity string        `yaml:"identity,omitempty"`
	Action   string        `yaml:"action,omitempty"`
	Allowed  *bool         `yaml:"allowed,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertPermits       = "permits"
)

// DefaultNow is the evaluation time of scenarios that do not set one.
const DefaultNow int64 = 1_700_000_000

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML and applies defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Now == 0 {
		scenario.Now = DefaultNow
	}
	if scenario.Network == "" {
		scenario.Network = contract.NetworkLocal
	}
	if scenario.Role == "" {
		scenario.Role = contract.RoleSeeker
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	ids := make(map[string]bool, len(s.Contracts))
	for i, c := range s.Contracts {
		if c.ID == "" {
			return fmt.Errorf("contracts[%d]: id is required", i)
		}
		if ids[c.ID] {
			return fmt.Errorf("contracts[%d]: duplicate id %q", i, c.ID)
		}
		ids[c.ID] = true
	}

	for i, step := range s.Flow {
		switch {
		case fleetOps[step.Op]:
		case contractOps[step.Op]:
			if !ids[step.Contract] {
				return fmt.Errorf("flow[%d]: %s needs a known contract, got %q", i, step.Op, step.Contract)
			}
		case step.Op == "":
			return fmt.Errorf("flow[%d]: op is required", i)
		default:
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, ids); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, ids map[string]bool) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertPermits:
		if !ids[a.Contract] {
			return fmt.Errorf("assertions[%d]: permits needs a known contract, got %q", index, a.Contract)
		}
		if a.Action == "" || a.Allowed == nil {
			return fmt.Errorf("assertions[%d]: action and allowed are required for permits", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
