package querycomp

import (
	"fmt"

	"github.com/arborq/arborq/internal/expr"
	"github.com/arborq/arborq/internal/queryargs"
	"github.com/arborq/arborq/internal/queryerr"
)

// Output map keys for the relation-block shapes.
const (
	KeyMetaQuery = "meta_query"
	KeyTaxQuery  = "tax_query"
)

// TraceEvent records one strategy attempt during top-level compilation.
// Err is nil for the accepted strategy.
type TraceEvent struct {
	Term     int
	Strategy string
	Err      error
}

// TraceFunc receives strategy attempts when tracing is enabled.
type TraceFunc func(TraceEvent)

// Compiler is the compilation entry point. The zero value is usable;
// options only add observation hooks. Compiler is stateless across calls
// and safe for concurrent use.
type Compiler struct {
	trace TraceFunc
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTrace installs a hook receiving every strategy attempt. Tracing is
// purely observational - it never changes what the compiler accepts.
func WithTrace(fn TraceFunc) Option {
	return func(c *Compiler) { c.trace = fn }
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// strategy is one candidate output shape for a root child term. Strategies
// are ordinary functions returning error values; the dispatcher iterates
// them in order and short-circuits on the first success.
type strategy struct {
	name string
	run  func(expr.Node) (*queryargs.Args, error)
}

// Strategy priority order: attribute relation, then taxonomy relation,
// then plain compare.
var strategies = []strategy{
	{name: "meta_query", run: compileMetaRelation},
	{name: "tax_query", run: compileTaxRelation},
	{name: "compare", run: compilePlainTerm},
}

func compileMetaRelation(n expr.Node) (*queryargs.Args, error) {
	group, ok := n.(*expr.Logical)
	if !ok {
		return nil, queryerr.NewUnsupportedExpression(n, "attribute relation requires a logical group")
	}
	block, err := CompileRelation(group, ModeMeta)
	if err != nil {
		return nil, err
	}
	out := queryargs.New()
	out.Set(KeyMetaQuery, block)
	return out, nil
}

func compileTaxRelation(n expr.Node) (*queryargs.Args, error) {
	group, ok := n.(*expr.Logical)
	if !ok {
		return nil, queryerr.NewUnsupportedExpression(n, "taxonomy relation requires a logical group")
	}
	block, err := CompileRelation(group, ModeTax)
	if err != nil {
		return nil, err
	}
	out := queryargs.New()
	out.Set(KeyTaxQuery, block)
	return out, nil
}

func compilePlainTerm(n expr.Node) (*queryargs.Args, error) {
	rel, ok := n.(*expr.Relational)
	if !ok {
		return nil, queryerr.NewUnsupportedExpression(n, "plain compare requires a relational node")
	}
	return CompilePlainCompare(rel)
}

// Compile compiles the root expression into the target argument map.
//
// The root must be a non-negated conjunction; any other root shape fails
// immediately with no fallback. Each child term is attempted against the
// strategy list in priority order and the first success is merged into the
// output: relation blocks under their meta_query/tax_query keys, plain
// compare entries directly. A term matching no strategy fails the whole
// compilation, aggregating every strategy's cause for diagnostics.
//
// Sibling terms producing the same top-level key overwrite one another
// (last term wins, original key position kept). Only one meta_query and one
// tax_query group per conjunction is therefore effective.
//
// Compilation is all-or-nothing: on failure no partial output is returned.
func (c *Compiler) Compile(root expr.Node) (*queryargs.Args, error) {
	group, ok := root.(*expr.Logical)
	if !ok || group == nil {
		return nil, queryerr.NewUnsupportedExpression(root, "root expression must be a conjunction")
	}
	if group.Op != expr.BoolAnd || group.Negated {
		return nil, queryerr.NewUnsupportedExpression(root, "root expression must be a non-negated conjunction")
	}

	out := queryargs.New()
	for i, term := range group.Terms {
		node, ok := term.(expr.Node)
		if !ok {
			return nil, queryerr.NewUnsupportedExpression(term,
				fmt.Sprintf("root term %d is not an expression node", i))
		}

		var causes []error
		matched := false
		for _, s := range strategies {
			part, err := s.run(node)
			if c.trace != nil {
				c.trace(TraceEvent{Term: i, Strategy: s.name, Err: err})
			}
			if err != nil {
				causes = append(causes, err)
				continue
			}
			out.Merge(part)
			matched = true
			break
		}
		if !matched {
			return nil, queryerr.NewUnsupportedExpression(node,
				fmt.Sprintf("root term %d matches no compilation strategy", i), causes...)
		}
	}
	return out, nil
}
