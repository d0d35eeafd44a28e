package aggregate

import (
	"github.com/go-riffle/riffle"
)

// soloKey tags every element of a collection-wide aggregation with the same
// group key, so the tagged values converge on a single grouping context no
// matter how the source is partitioned.
const soloKey = 0

// Count derives the table mapping each distinct element of c to the number of
// times it occurs
func Count[T comparable](c riffle.Collection[T]) (riffle.Table[T, int64], error) {
	keyed, err := riffle.ParallelDoToTable(c, "count", riffle.MapPairs(func(el T) (T, int64, error) {
		return el, 1, nil
	}))
	if err != nil {
		return riffle.Table[T, int64]{}, err
	}
	grouped, err := keyed.GroupByKey()
	if err != nil {
		return riffle.Table[T, int64]{}, err
	}
	return grouped.CombineValues(sumCombineFn[T, int64]())
}

// Length produces a Scalar resolving to the number of elements of c, counting
// duplicates. An empty c resolves to an errors.EmptyAggregationError.
func Length[T any](c riffle.Collection[T]) (*riffle.Scalar[int64], error) {
	keyed, err := riffle.ParallelDoToTable(c, "length", riffle.MapPairs(func(el T) (int, int64, error) {
		return soloKey, 1, nil
	}))
	if err != nil {
		return nil, err
	}
	grouped, err := keyed.GroupByKey(1)
	if err != nil {
		return nil, err
	}
	summed, err := grouped.CombineValues(sumCombineFn[int, int64]())
	if err != nil {
		return nil, err
	}
	vals, err := summed.Values()
	if err != nil {
		return nil, err
	}
	return riffle.First(vals), nil
}
