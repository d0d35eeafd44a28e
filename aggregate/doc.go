// Package aggregate implements the aggregation library over the core
// collection contract: counts, lengths, extrema, bounded top-k selection,
// value collection and distinct elements. Every aggregation is expressed
// through ParallelDo, GroupByKey and CombineValues alone, so each runs
// unchanged on any Engine honoring the contract.
package aggregate
