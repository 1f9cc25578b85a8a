// Package catalog stores the target site's filter schema: which taxonomies
// exist and which attribute keys are registered, with their comparison cast
// types.
//
// The compiler itself never consults the catalog - classification is purely
// structural. The catalog backs the validate surface, which checks a
// compiled output's taxonomy names and attribute keys against a known
// schema after compilation.
//
// Store persists the schema in SQLite. Registry is the read contract;
// MemRegistry satisfies it without a database for tests and embedding.
package catalog
