package catalog

import (
	"context"
	"fmt"

	"github.com/arborq/arborq/internal/queryargs"
)

// Issue reports one mismatch between a compiled output and the registered
// schema.
type Issue struct {
	Kind    string // "taxonomy" or "meta_key"
	Name    string
	Message string
}

// String renders the issue for diagnostics.
func (i Issue) String() string {
	return fmt.Sprintf("%s %q: %s", i.Kind, i.Name, i.Message)
}

// Validate checks a compiled output's taxonomy names and attribute keys
// against the registry. It returns one issue per unknown name; an empty
// slice means the output only references registered schema.
//
// Validation is a post-compilation check. It never alters the output and
// unknown names are findings, not errors - only registry access failures
// return a non-nil error.
func Validate(ctx context.Context, reg Registry, args *queryargs.Args) ([]Issue, error) {
	var issues []Issue

	if val, ok := args.Get("tax_query"); ok {
		if err := walkRelation(ctx, val, &issues, func(ctx context.Context, entry *queryargs.Args) error {
			return checkTaxonomy(ctx, reg, entry, &issues)
		}); err != nil {
			return nil, err
		}
	}
	if val, ok := args.Get("meta_query"); ok {
		if err := walkRelation(ctx, val, &issues, func(ctx context.Context, entry *queryargs.Args) error {
			return checkMetaKey(ctx, reg, entry, &issues)
		}); err != nil {
			return nil, err
		}
	}
	return issues, nil
}

// walkRelation visits every leaf entry of a relation block, recursing into
// nested blocks.
func walkRelation(ctx context.Context, val queryargs.Value, issues *[]Issue,
	visit func(context.Context, *queryargs.Args) error) error {
	switch v := val.(type) {
	case *queryargs.Relation:
		for _, child := range v.Children {
			if err := walkRelation(ctx, child, issues, visit); err != nil {
				return err
			}
		}
		return nil
	case *queryargs.Args:
		return visit(ctx, v)
	default:
		return nil
	}
}

func checkTaxonomy(ctx context.Context, reg Registry, entry *queryargs.Args, issues *[]Issue) error {
	raw, ok := entry.Get("taxonomy")
	if !ok {
		return nil
	}
	name, ok := raw.(queryargs.String)
	if !ok {
		return nil
	}
	known, err := reg.HasTaxonomy(ctx, string(name))
	if err != nil {
		return err
	}
	if !known {
		*issues = append(*issues, Issue{
			Kind:    "taxonomy",
			Name:    string(name),
			Message: "not a registered taxonomy",
		})
	}
	return nil
}

func checkMetaKey(ctx context.Context, reg Registry, entry *queryargs.Args, issues *[]Issue) error {
	raw, ok := entry.Get("key")
	if !ok {
		return nil
	}
	key, ok := raw.(queryargs.String)
	if !ok {
		return nil
	}
	registeredCast, known, err := reg.CastType(ctx, string(key))
	if err != nil {
		return err
	}
	if !known {
		*issues = append(*issues, Issue{
			Kind:    "meta_key",
			Name:    string(key),
			Message: "not a registered attribute key",
		})
		return nil
	}
	if rawCast, ok := entry.Get("type"); ok {
		if cast, ok := rawCast.(queryargs.String); ok && string(cast) != registeredCast {
			*issues = append(*issues, Issue{
				Kind:    "meta_key",
				Name:    string(key),
				Message: fmt.Sprintf("compiled cast %s does not match registered cast %s", cast, registeredCast),
			})
		}
	}
	return nil
}
