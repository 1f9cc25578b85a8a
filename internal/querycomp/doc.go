// Package querycomp compiles logical-expression trees into the argument
// structure consumed by the target search/filter layer.
//
// The target structure is not uniform. A sub-expression compiles into one of
// three mutually exclusive shapes depending on what it means:
//
//   - plain compare: a direct query-variable entry ({field: value})
//   - meta compare: an attribute comparison ({key, value, type, compare})
//     emitted inside a meta_query relation block
//   - taxonomy compare: a membership comparison ({taxonomy, field, terms,
//     operator}) emitted inside a tax_query relation block
//
// ARCHITECTURE:
//
// Components, leaf-first:
//
//   - Context: operator tables resolving a comparison type plus negation
//     flag to the target operator token, specialized per output shape.
//   - Leaf compilers: CompilePlainCompare, CompileMetaCompare,
//     CompileTaxCompare - one relational node to one output shape.
//   - CompileRelation: a logical group to a relation block, dispatching
//     relational children to the leaf compiler the mode selects and
//     recursing into nested groups.
//   - Compiler.Compile: the entry point. The root must be a conjunction;
//     each child term is attempted against an ordered strategy list
//     (meta relation, then taxonomy relation, then plain compare) and the
//     first success is merged into the output.
//
// STRATEGY DISPATCH:
//
// Classification is by elimination, not by inspection. Each strategy simply
// tries to compile the term; a classification failure means "not this
// shape" and the dispatcher moves on. Only when every strategy has failed
// is the term's failure surfaced, aggregating all causes for diagnostics.
// There is no exception unwinding - strategies are ordinary functions
// returning error values, iterated in a fixed order.
//
// DETERMINISM:
//
// The compiler is a pure, synchronous transformation. It never mutates the
// input tree, holds no state between calls, and produces either a complete
// output or none: any unrecovered failure aborts the whole compilation.
// Compiling the same tree twice yields structurally identical output, and
// independent compilations may run concurrently without coordination.
package querycomp
