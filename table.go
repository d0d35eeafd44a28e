package riffle

import (
	"context"

	"github.com/go-riffle/riffle/errors"
)

// A Table is a typed handle for a lazy multimap of keys to values, planned on
// an Engine. A key may appear in any number of pairs. Tables are immutable;
// every transform derives a new one. The zero Table is not bound to an engine
// and rejects all operations.
type Table[K comparable, V any] struct {
	eng Engine
	ds  Dataset
}

// CreateTable binds an engine Dataset to a typed Table handle. It is intended
// for Engine implementations; every element of ds must be a KV whose Key and
// Value are assignable to K and V.
func CreateTable[K comparable, V any](eng Engine, ds Dataset) Table[K, V] {
	return Table[K, V]{eng: eng, ds: ds}
}

// GroupByKey derives the GroupedTable in which all of this Table's values
// sharing a key occupy a single grouping context. An optional numPartitions
// hints how many partitions the grouped data should occupy; omitted or
// non-positive leaves the choice to the engine.
func (t Table[K, V]) GroupByKey(numPartitions ...int) (GroupedTable[K, V], error) {
	if t.eng == nil {
		return GroupedTable[K, V]{}, errors.InvalidArgumentError{Reason: "table is not bound to an engine"}
	}
	n := 0
	if len(numPartitions) > 0 {
		n = numPartitions[0]
	}
	ds, err := t.eng.GroupByKey(t.ds, n)
	if err != nil {
		return GroupedTable[K, V]{}, err
	}
	return GroupedTable[K, V]{eng: t.eng, ds: ds}, nil
}

// Values projects this Table onto its values
func (t Table[K, V]) Values() (Collection[V], error) {
	if t.eng == nil {
		return Collection[V]{}, errors.InvalidArgumentError{Reason: "table is not bound to an engine"}
	}
	ds, err := t.eng.Values(t.ds)
	if err != nil {
		return Collection[V]{}, err
	}
	return Collection[V]{eng: t.eng, ds: ds}, nil
}

// Materialize computes this Table and returns its pairs. No pair order is
// promised by the contract, though engines may document one.
func (t Table[K, V]) Materialize(ctx context.Context) ([]Pair[K, V], error) {
	if t.eng == nil {
		return nil, errors.InvalidArgumentError{Reason: "table is not bound to an engine"}
	}
	cur, err := t.eng.Materialize(ctx, t.ds)
	if err != nil {
		return nil, err
	}
	unbox := unboxPair[K, V]("materialize")
	var res []Pair[K, V]
	for cur.HasNext() {
		el, err := cur.Next()
		if err != nil {
			return nil, err
		}
		p, err := unbox(el)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

// ParallelDoTable derives a Table by applying one fresh pair-to-pair DoFn from
// fn to each partition of t
func ParallelDoTable[K comparable, V any, K2 comparable, V2 any](t Table[K, V], name string, fn DoFnFactory[Pair[K, V], Pair[K2, V2]]) (Table[K2, V2], error) {
	if t.eng == nil {
		return Table[K2, V2]{}, errors.InvalidArgumentError{Reason: "table is not bound to an engine"}
	}
	if fn == nil {
		return Table[K2, V2]{}, errors.InvalidArgumentError{Reason: "DoFnFactory must not be nil"}
	}
	ds, err := t.eng.ParallelDo(name, t.ds, eraseDoFnFactory(name, fn, unboxPair[K, V](name), boxPair[K2, V2]))
	if err != nil {
		return Table[K2, V2]{}, err
	}
	return Table[K2, V2]{eng: t.eng, ds: ds}, nil
}

// Keys projects t onto its keys. Multiplicity is preserved: a key appears once
// per pair it belongs to.
func Keys[K comparable, V any](t Table[K, V]) (Collection[K], error) {
	if t.eng == nil {
		return Collection[K]{}, errors.InvalidArgumentError{Reason: "table is not bound to an engine"}
	}
	fn := Map(func(p Pair[K, V]) (K, error) { return p.Key, nil })
	ds, err := t.eng.ParallelDo("keys", t.ds, eraseDoFnFactory("keys", fn, unboxPair[K, V]("keys"), boxElement[K]))
	if err != nil {
		return Collection[K]{}, err
	}
	return Collection[K]{eng: t.eng, ds: ds}, nil
}
