package aggregate

import (
	"golang.org/x/exp/constraints"

	"github.com/go-riffle/riffle"
)

// Number spans the built-in numeric types a sum combiner accepts
type Number interface {
	constraints.Integer | constraints.Float
}

// SumValues derives the table mapping each distinct key of t to the sum of
// its values
func SumValues[K comparable, N Number](t riffle.Table[K, N]) (riffle.Table[K, N], error) {
	grouped, err := t.GroupByKey()
	if err != nil {
		return riffle.Table[K, N]{}, err
	}
	return grouped.CombineValues(sumCombineFn[K, N]())
}

// sumCombineFn folds a key's values into their sum. Addition is associative
// and commutative, so the fold may run at any reduction level.
func sumCombineFn[K comparable, N Number]() riffle.CombineFn[K, N] {
	return func(key K, values riffle.ValueIterator[N], emit riffle.Emitter[N]) error {
		var sum N
		for values.HasNextValue() {
			v, err := values.NextValue()
			if err != nil {
				return err
			}
			sum += v
		}
		return emit(sum)
	}
}
