package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCompilesExpression(t *testing.T) {
	s := &Scenario{
		Name:        "plain",
		Description: "direct variable",
		Expression: map[string]any{
			"and": []any{
				map[string]any{"field": "author", "value": "admin"},
			},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.NoError(t, result.CompileErr)
	assert.JSONEq(t, `{"author": "admin"}`, string(result.Rendered))
}

func TestRunCapturesCompileFailure(t *testing.T) {
	s := &Scenario{
		Name:        "negated_root",
		Description: "negated root conjunction",
		Expression: map[string]any{
			"and": []any{
				map[string]any{"field": "author", "value": "admin"},
			},
			"negated": true,
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	require.Error(t, result.CompileErr)
	assert.Nil(t, result.Rendered)
}

func TestRunRejectsMalformedDocument(t *testing.T) {
	s := &Scenario{
		Name:        "malformed",
		Description: "comparison without a field",
		Expression: map[string]any{
			"and": []any{
				map[string]any{"value": "admin"},
			},
		},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field")
}

func TestCheckWant(t *testing.T) {
	s := &Scenario{
		Name:        "plain",
		Description: "direct variable",
		Want:        map[string]any{"author": "admin"},
	}

	err := Check(s, &Result{Rendered: []byte(`{"author":"admin"}`)})
	assert.NoError(t, err)

	err = Check(s, &Result{Rendered: []byte(`{"author":"editor"}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestCheckWantError(t *testing.T) {
	s := &Scenario{
		Name:        "failing",
		Description: "expected failure",
		WantError:   "conjunction",
	}

	err := Check(s, &Result{CompileErr: assert.AnError})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not contain")

	err = Check(s, &Result{Rendered: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected failure")
}

func TestScenarioSuite(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.NoError(t, Check(s, result))
		})
	}
}
