// Package catalog holds the exam reference data consumed by order intake and
// result entry: exam definitions, required materials, structured result field
// definitions, and analysis methods with reference ranges.
//
// Unlike the order aggregate, catalog data carries no lifecycle of its own.
// It is read-mostly reference data maintained outside this core, so the types
// here are plain structs with exported fields rather than encapsulated
// aggregates. All operations are side-effect free; failures are surfaced to
// the caller, never retried.
package catalog
