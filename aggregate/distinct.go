package aggregate

import (
	"github.com/go-riffle/riffle"
)

// Distinct derives the collection of distinct elements of c. Each partition
// deduplicates with a private set before grouping funnels the survivors of
// equal elements together.
func Distinct[T comparable](c riffle.Collection[T]) (riffle.Collection[T], error) {
	staged, err := riffle.ParallelDoToTable(c, "pre-distinct", func() riffle.DoFn[T, riffle.Pair[T, bool]] {
		return &preDistinctFn[T]{}
	})
	if err != nil {
		return riffle.Collection[T]{}, err
	}
	grouped, err := staged.GroupByKey()
	if err != nil {
		return riffle.Collection[T]{}, err
	}
	folded, err := riffle.MapValues(grouped, "distinct", func(key T, values riffle.ValueIterator[bool]) (bool, error) {
		return true, nil
	})
	if err != nil {
		return riffle.Collection[T]{}, err
	}
	return riffle.Keys(folded)
}

// preDistinctFn deduplicates within one partition, emitting each element the
// first time it is seen
type preDistinctFn[T comparable] struct {
	seen map[T]struct{}
}

func (f *preDistinctFn[T]) Initialize() error {
	f.seen = make(map[T]struct{})
	return nil
}

func (f *preDistinctFn[T]) Process(el T, emit riffle.Emitter[riffle.Pair[T, bool]]) error {
	if _, ok := f.seen[el]; ok {
		return nil
	}
	f.seen[el] = struct{}{}
	return emit(riffle.Pair[T, bool]{Key: el, Value: true})
}

func (f *preDistinctFn[T]) Cleanup(emit riffle.Emitter[riffle.Pair[T, bool]]) error {
	return nil
}
