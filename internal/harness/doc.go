// Package harness provides conformance testing for the expression
// compiler.
//
// The harness loads scenario files, compiles the expression each one
// declares, and checks the compiled output against the scenario's
// expectation or against a golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	expression:
//	  and:
//	    - {field: author, value: admin}
//	    - or:
//	        - {field: tax.category, op: in, value: [news]}
//	want:
//	  author: admin
//	  tax_query:
//	    relation: OR
//	    "0": {taxonomy: category, field: slug, terms: [news]}
//
// A scenario expecting compilation to fail declares want_error with a
// substring of the expected failure message instead of want.
//
// # Deterministic Snapshots
//
// Compiled output renders with a stable member order (insertion order for
// argument maps, relation-first plus positional keys for relation blocks),
// so the rendered bytes are identical across runs and safe to pin in
// golden files under testdata/golden.
package harness
