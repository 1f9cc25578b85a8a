package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance case: an expression document plus the
// compiled output it must produce, or the failure it must report.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden snapshots are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Expression is the inline expression document, in the same form the
	// YAML expression surface accepts.
	Expression map[string]any `yaml:"expression"`

	// Want is the expected compiled output, compared structurally.
	// Exactly one of Want and WantError must be set.
	Want map[string]any `yaml:"want,omitempty"`

	// WantError is a substring the compilation failure must contain.
	WantError string `yaml:"want_error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario under dir, sorted by file name
// so suite order is stable.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Expression == nil {
		return fmt.Errorf("expression is required")
	}
	if s.Want == nil && s.WantError == "" {
		return fmt.Errorf("one of want or want_error is required")
	}
	if s.Want != nil && s.WantError != "" {
		return fmt.Errorf("want and want_error are mutually exclusive")
	}
	return nil
}
