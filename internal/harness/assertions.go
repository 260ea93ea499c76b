package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/paragon/internal/eligibility"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %v\n", event.Seq, event.Op, event.Contract, event.Result)
		}
	}
	return buf.String()
}

// assertTraceContains checks for an event with the op (and contract, when
// given) whose result contains the expected fields.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Op != assertion.Op {
			continue
		}
		if assertion.Contract != "" && event.Contract != assertion.Contract {
			continue
		}
		if matchSubset(event.Result, assertion.Result) == "" {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s on %q with result %v", assertion.Op, assertion.Contract, assertion.Result),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops first appear in the specified order.
// Intervening ops are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if positions[event.Op] == 0 {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Ops); i++ {
		prev, curr := assertion.Ops[i-1], assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the op appears exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertPermits asks the engine directly whether the viewer may act.
func (h *Harness) assertPermits(assertion Assertion) error {
	action, err := eligibility.ParseAction(assertion.Action)
	if err != nil {
		return err
	}

	role := assertion.Role
	if role == "" {
		role = h.scenario.Role
	}
	identity := assertion.Identity
	if identity == "" {
		identity = h.scenario.Identity
	}

	got := eligibility.Permits(role, identity, action, h.byID[assertion.Contract])
	if got != *assertion.Allowed {
		return &AssertionError{
			Type:     AssertPermits,
			Expected: fmt.Sprintf("%s may %s %s: %t", role, action, assertion.Contract, *assertion.Allowed),
			Actual:   fmt.Sprintf("%t", got),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, h *Harness) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertPermits:
			if h == nil {
				err = fmt.Errorf("assertion[%d]: permits requires a fleet", i)
			} else {
				err = h.assertPermits(assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// matchSubset reports how actual differs from expected, or "" when every
// field in expected is present in actual with an equal value. Maps match as
// subsets; lists must match element for element.
//
// Both sides go through JSON first, so YAML ints, int64 results and enum
// strings compare by value.
func matchSubset(actual map[string]any, expected map[string]any) string {
	if len(expected) == 0 {
		return ""
	}
	a, err := jsonValue(actual)
	if err != nil {
		return err.Error()
	}
	e, err := jsonValue(expected)
	if err != nil {
		return err.Error()
	}
	return diffValues("", a, e)
}

func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return out, nil
}

func diffValues(path string, actual, expected any) string {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return fmt.Sprintf("%s: expected object, got %v", pathOrRoot(path), actual)
		}
		keys := make([]string, 0, len(exp))
		for k := range exp {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			av, exists := act[k]
			if !exists {
				return fmt.Sprintf("%s: missing field", path+"."+k)
			}
			if d := diffValues(path+"."+k, av, exp[k]); d != "" {
				return d
			}
		}
		return ""

	case []any:
		act, ok := actual.([]any)
		if !ok || len(act) != len(exp) {
			return fmt.Sprintf("%s: expected %v, got %v", pathOrRoot(path), exp, actual)
		}
		for i := range exp {
			if d := diffValues(fmt.Sprintf("%s[%d]", path, i), act[i], exp[i]); d != "" {
				return d
			}
		}
		return ""

	default:
		if fmt.Sprint(actual) != fmt.Sprint(expected) {
			return fmt.Sprintf("%s: expected %v, got %v", pathOrRoot(path), expected, actual)
		}
		return ""
	}
}

func pathOrRoot(path string) string {
	if path == "" {
		return "result"
	}
	return path
}
