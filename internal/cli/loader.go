package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/exprdef"
)

// LoadExpression reads an expression tree from path. YAML files hold a
// single expression document; CUE files hold named definitions, selected
// with name (empty picks the only definition, or fails when several are
// declared).
func LoadExpression(path, name string) (expr.Node, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if name != "" {
			return nil, fmt.Errorf("--name only applies to CUE definition files")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read expression: %w", err)
		}
		return expr.DecodeYAML(data)
	case ".cue":
		defs, err := exprdef.Load(path)
		if err != nil {
			return nil, err
		}
		if name == "" {
			if len(defs) > 1 {
				return nil, fmt.Errorf("%s declares %d filters; pick one with --name", path, len(defs))
			}
			return defs[0].Root, nil
		}
		def, ok := exprdef.Find(defs, name)
		if !ok {
			return nil, fmt.Errorf("%s declares no filter %q", path, name)
		}
		return def.Root, nil
	default:
		return nil, fmt.Errorf("unsupported expression file %q: expected .yaml, .yml, or .cue", path)
	}
}
