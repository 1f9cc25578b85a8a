package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/querycomp"
)

// Result holds one scenario execution. Exactly one of Rendered and
// CompileErr is set: the scenario's document decoded either way, so a
// compile failure is an outcome to check, not a harness error.
type Result struct {
	Rendered   []byte
	CompileErr error
}

// Run decodes and compiles a scenario's expression. A document that does
// not decode is a malformed scenario and fails the run itself.
func Run(s *Scenario) (*Result, error) {
	root, err := expr.DecodeDoc(s.Expression)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: decode expression: %w", s.Name, err)
	}

	out, err := querycomp.New().Compile(root)
	if err != nil {
		return &Result{CompileErr: err}, nil
	}

	rendered, err := out.Render()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: render output: %w", s.Name, err)
	}
	return &Result{Rendered: rendered}, nil
}

// Check compares a result against the scenario's expectation.
func Check(s *Scenario, r *Result) error {
	if s.WantError != "" {
		if r.CompileErr == nil {
			return fmt.Errorf("scenario %s: expected failure containing %q, compiled to %s",
				s.Name, s.WantError, r.Rendered)
		}
		if !strings.Contains(r.CompileErr.Error(), s.WantError) {
			return fmt.Errorf("scenario %s: failure %q does not contain %q",
				s.Name, r.CompileErr, s.WantError)
		}
		return nil
	}

	if r.CompileErr != nil {
		return fmt.Errorf("scenario %s: unexpected failure: %w", s.Name, r.CompileErr)
	}

	want, err := canonicalize(s.Want)
	if err != nil {
		return fmt.Errorf("scenario %s: want is not renderable: %w", s.Name, err)
	}
	got, err := canonicalize(json.RawMessage(r.Rendered))
	if err != nil {
		return fmt.Errorf("scenario %s: output is not renderable: %w", s.Name, err)
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("scenario %s: output mismatch\nwant: %v\ngot:  %s",
			s.Name, s.Want, r.Rendered)
	}
	return nil
}

// RunAll runs and checks every scenario, returning the first failure.
func RunAll(scenarios []*Scenario) error {
	for _, s := range scenarios {
		result, err := Run(s)
		if err != nil {
			return err
		}
		if err := Check(s, result); err != nil {
			return err
		}
	}
	return nil
}

// canonicalize round-trips a value through JSON so both sides of a
// comparison use the same container and number types.
func canonicalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
