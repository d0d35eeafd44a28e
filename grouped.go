package riffle

import (
	"fmt"

	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/internal/util"
)

// A GroupedTable is a typed handle for the grouped form of a Table, in which
// all values sharing a key occupy a single grouping context. It is produced
// only by Table.GroupByKey. The zero GroupedTable is not bound to an engine
// and rejects all operations.
type GroupedTable[K comparable, V any] struct {
	eng Engine
	ds  Dataset
}

// CombineValues derives a Table by folding each key's values through fn. fn
// must be associative and commutative over each key's value multiset; the
// engine chooses how many times, and at which reduction levels, fn is invoked.
func (g GroupedTable[K, V]) CombineValues(fn CombineFn[K, V]) (Table[K, V], error) {
	if g.eng == nil {
		return Table[K, V]{}, errors.InvalidArgumentError{Reason: "grouped table is not bound to an engine"}
	}
	if fn == nil {
		return Table[K, V]{}, errors.InvalidArgumentError{Reason: "CombineFn must not be nil"}
	}
	ds, err := g.eng.CombineValues(g.ds, eraseCombineFn("combineValues", fn))
	if err != nil {
		return Table[K, V]{}, err
	}
	return Table[K, V]{eng: g.eng, ds: ds}, nil
}

// MapValues derives a Table by folding each key group of g through fn exactly
// once, keeping the key. Unlike CombineValues, fn carries no associativity
// obligation and may change the value type.
func MapValues[K comparable, V any, U any](g GroupedTable[K, V], name string, fn func(key K, values ValueIterator[V]) (U, error)) (Table[K, U], error) {
	if g.eng == nil {
		return Table[K, U]{}, errors.InvalidArgumentError{Reason: "grouped table is not bound to an engine"}
	}
	if fn == nil {
		return Table[K, U]{}, errors.InvalidArgumentError{Reason: "fold function must not be nil"}
	}
	factory := UntypedDoFnFactory(func() UntypedDoFn {
		return &mapValuesFn[K, V, U]{name: name, fn: fn}
	})
	ds, err := g.eng.ParallelDo(name, g.ds, factory)
	if err != nil {
		return Table[K, U]{}, err
	}
	return Table[K, U]{eng: g.eng, ds: ds}, nil
}

// mapValuesFn drives a per-key fold over grouped elements, such that panics in
// client code are recovered and nice error messages are constructed
type mapValuesFn[K comparable, V any, U any] struct {
	name string
	fn   func(key K, values ValueIterator[V]) (U, error)
}

func (m *mapValuesFn[K, V, U]) Initialize() error { return nil }

func (m *mapValuesFn[K, V, U]) Process(el interface{}, emit EmitFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = fmt.Errorf("%s: Process Panic: %w\n%s", m.name, anErr, util.GetTrace())
			} else {
				err = fmt.Errorf("%s: Process Panic: %v\n%s", m.name, r, util.GetTrace())
			}
		} else if err != nil {
			err = fmt.Errorf("%s: Process Error: %w", m.name, err)
		}
	}()
	kg, ok := el.(KeyGroup)
	if !ok {
		return errors.WrongElementTypeError{Operation: m.name, Element: el}
	}
	k, ok := kg.Key.(K)
	if !ok {
		return errors.WrongElementTypeError{Operation: m.name, Element: kg.Key}
	}
	res, ferr := m.fn(k, &typedValues[V]{op: m.name, values: kg.Values})
	if ferr != nil {
		return ferr
	}
	return emit(KV{Key: kg.Key, Value: res})
}

func (m *mapValuesFn[K, V, U]) Cleanup(emit EmitFunc) error { return nil }
