package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// traceSnapshot is the golden-file serialization of a scenario run.
type traceSnapshot struct {
	Scenario string           `json:"scenario"`
	Trace    []map[string]any `json:"trace"`
}

// RunWithGolden executes a scenario and compares the trace against the
// golden file testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %q failed to run: %v", scenario.Name, err)
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %q: %s", scenario.Name, msg)
	}

	snapshot := traceSnapshot{
		Scenario: scenario.Name,
		Trace:    result.Trace,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("scenario %q: marshal trace: %v", scenario.Name, err)
	}
	data = append(data, '\n')

	g := goldie.New(t)
	g.Assert(t, scenario.Name, data)
	return result
}

// LoadAndRunGolden loads a scenario file and runs it against its golden.
func LoadAndRunGolden(t *testing.T, path string) *Result {
	t.Helper()
	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return RunWithGolden(t, scenario)
}
