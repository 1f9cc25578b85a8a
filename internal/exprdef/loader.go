// Package exprdef loads named filter definitions from CUE files.
//
// A definition file declares reusable filter expressions under a top-level
// filters struct:
//
//	filters: {
//		frontpage: {
//			and: [
//				{field: "author", value: "admin"},
//				{and: [{field: "tax.category", op: "in", value: ["news"]}]},
//			]
//		}
//	}
//
// Each filter body uses the same document forms the YAML surface accepts;
// the loader materializes them through expr.DecodeDoc. CUE buys upstream
// tooling schema validation, references, and composition before the
// documents ever reach the compiler.
package exprdef

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/arborq/arborq/internal/expr"
)

// Definition is one named filter expression.
type Definition struct {
	Name string
	Root expr.Node
}

// Load reads and materializes every filter definition in the CUE file at
// path. Definitions are returned in declaration order.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data, path)
}

// Parse materializes filter definitions from CUE source. The filename only
// feeds positions in error messages.
func Parse(data []byte, filename string) ([]Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile definitions: %w", err)
	}

	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if !filtersVal.Exists() {
		return nil, fmt.Errorf("%s: no filters struct declared", filename)
	}

	iter, err := filtersVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("filters must be a struct: %w", err)
	}

	var defs []Definition
	for iter.Next() {
		name := iter.Label()

		var doc any
		if err := iter.Value().Decode(&doc); err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}
		root, err := expr.DecodeDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}
		defs = append(defs, Definition{Name: name, Root: root})
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: filters struct declares no filters", filename)
	}
	return defs, nil
}

// Find returns the named definition from defs.
func Find(defs []Definition, name string) (Definition, bool) {
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}
