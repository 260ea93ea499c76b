package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/paragon/internal/contract"
)

// GoldenTrace renders a scenario's trace as canonical JSON:
// {"now":..,"scenario":..,"trace":[{"args":..,"contract":..,"op":..,"result":..,"seq":..}]}.
// Keys are sorted and the output has no trailing newline, so it is
// byte-stable across runs.
func GoldenTrace(scenario *Scenario, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		m := map[string]any{
			"seq":    event.Seq,
			"op":     event.Op,
			"result": event.Result,
		}
		if event.Contract != "" {
			m["contract"] = event.Contract
		}
		if len(event.Args) > 0 {
			m["args"] = event.Args
		}
		trace[i] = m
	}

	return contract.MarshalCanonical(map[string]any{
		"scenario": scenario.Name,
		"now":      scenario.Now,
		"trace":    trace,
	})
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario, result)
}

// AssertGolden compares an existing result's trace against its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	traceJSON, err := GoldenTrace(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}
