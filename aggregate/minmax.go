package aggregate

import (
	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
)

// Max produces a Scalar resolving to the greatest element of c per ord. A nil
// ord yields an errors.UnsupportedTypeError before any work is planned; an
// empty c resolves to an errors.EmptyAggregationError. Among equal greatest
// elements the earliest arrival wins.
func Max[T any](c riffle.Collection[T], ord riffle.Ordering[T]) (*riffle.Scalar[T], error) {
	return extremum(c, "max", ord)
}

// Min produces a Scalar resolving to the least element of c per ord. A nil
// ord yields an errors.UnsupportedTypeError before any work is planned; an
// empty c resolves to an errors.EmptyAggregationError. Among equal least
// elements the earliest arrival wins.
func Min[T any](c riffle.Collection[T], ord riffle.Ordering[T]) (*riffle.Scalar[T], error) {
	return extremum(c, "min", riffle.Reverse(ord))
}

// extremum runs the two-level fold selecting the element ranking highest per
// ord: each partition folds down to at most one candidate, the candidates
// converge on a single group, and the same fold selects among them.
func extremum[T any](c riffle.Collection[T], name string, ord riffle.Ordering[T]) (*riffle.Scalar[T], error) {
	if ord == nil {
		return nil, errors.UnsupportedTypeError{Operation: name}
	}
	keyed, err := riffle.ParallelDoToTable(c, name, func() riffle.DoFn[T, riffle.Pair[int, T]] {
		return &extremumFn[T]{ord: ord}
	})
	if err != nil {
		return nil, err
	}
	grouped, err := keyed.GroupByKey(1)
	if err != nil {
		return nil, err
	}
	folded, err := grouped.CombineValues(func(key int, values riffle.ValueIterator[T], emit riffle.Emitter[T]) error {
		var best T
		found := false
		for values.HasNextValue() {
			v, err := values.NextValue()
			if err != nil {
				return err
			}
			if !found || ord(v, best) > 0 {
				best = v
				found = true
			}
		}
		if !found {
			return nil
		}
		return emit(best)
	})
	if err != nil {
		return nil, err
	}
	vals, err := folded.Values()
	if err != nil {
		return nil, err
	}
	return riffle.First(vals), nil
}

// extremumFn folds one partition down to its highest-ranking element,
// releasing it under the solo key on Cleanup. Empty partitions release
// nothing.
type extremumFn[T any] struct {
	ord   riffle.Ordering[T]
	best  T
	found bool
}

func (f *extremumFn[T]) Initialize() error {
	f.found = false
	return nil
}

func (f *extremumFn[T]) Process(el T, emit riffle.Emitter[riffle.Pair[int, T]]) error {
	if !f.found || f.ord(el, f.best) > 0 {
		f.best = el
		f.found = true
	}
	return nil
}

func (f *extremumFn[T]) Cleanup(emit riffle.Emitter[riffle.Pair[int, T]]) error {
	if !f.found {
		return nil
	}
	return emit(riffle.Pair[int, T]{Key: soloKey, Value: f.best})
}
