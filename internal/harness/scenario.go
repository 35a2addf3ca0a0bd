package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a declarative simulation test case: a sequence of steps run
// against a fresh store with a deterministic clock and fixed unit ids.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description documents intent; not used by the runner.
	Description string `yaml:"description,omitempty"`

	// Multiplier is the cosmetic multiplier for the whole run (default 1).
	Multiplier float64 `yaml:"multiplier,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// Step is one scenario action or expectation. Exactly one field should be
// set per step; Validate enforces this.
type Step struct {
	// Advance moves the clock forward by this many milliseconds.
	Advance int64 `yaml:"advance,omitempty"`

	// Accrue credits income up to the current clock reading.
	Accrue bool `yaml:"accrue,omitempty"`

	// Purchase buys one unit by catalog id.
	Purchase string `yaml:"purchase,omitempty"`

	// Boost activates the boost; the value is the expected success result.
	Boost *bool `yaml:"boost,omitempty"`

	// SetMultiplier changes the cosmetic multiplier mid-scenario, as when
	// the player equips a different skin.
	SetMultiplier float64 `yaml:"set_multiplier,omitempty"`

	// ExpectBalance asserts the current balance (exact float comparison -
	// scenarios are authored with values that are exact in binary).
	ExpectBalance *float64 `yaml:"expect_balance,omitempty"`

	// ExpectUnits asserts the owned-unit count.
	ExpectUnits *int `yaml:"expect_units,omitempty"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks scenario shape before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	if s.Multiplier != 0 && s.Multiplier < 1 {
		return fmt.Errorf("scenario %q multiplier must be >= 1", s.Name)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("scenario %q step %d: %w", s.Name, i, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	set := 0
	if st.Advance != 0 {
		if st.Advance < 0 {
			return fmt.Errorf("advance must be positive")
		}
		set++
	}
	if st.Accrue {
		set++
	}
	if st.Purchase != "" {
		set++
	}
	if st.Boost != nil {
		set++
	}
	if st.SetMultiplier != 0 {
		if st.SetMultiplier < 1 {
			return fmt.Errorf("set_multiplier must be >= 1")
		}
		set++
	}
	if st.ExpectBalance != nil {
		set++
	}
	if st.ExpectUnits != nil {
		set++
	}
	if set == 0 {
		return fmt.Errorf("empty step")
	}
	if set > 1 {
		return fmt.Errorf("step sets %d fields, want exactly one", set)
	}
	return nil
}
