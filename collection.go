package riffle

import (
	"context"
	"math/rand"

	"github.com/go-riffle/riffle/errors"
)

// A Collection is a typed handle for a lazy, unordered multiset of elements
// planned on an Engine. Collections are immutable; every transform derives a
// new one. The zero Collection is not bound to an engine and rejects all
// operations.
type Collection[T any] struct {
	eng Engine
	ds  Dataset
}

// CreateCollection binds an engine Dataset to a typed Collection handle. It is
// intended for Engine implementations; every element of ds must be assignable
// to T.
func CreateCollection[T any](eng Engine, ds Dataset) Collection[T] {
	return Collection[T]{eng: eng, ds: ds}
}

// Filter derives the Collection of elements for which keep returns true
func (c Collection[T]) Filter(name string, keep func(el T) (bool, error)) (Collection[T], error) {
	if c.eng == nil {
		return Collection[T]{}, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	if keep == nil {
		return Collection[T]{}, errors.InvalidArgumentError{Reason: "keep function must not be nil"}
	}
	return ParallelDo(c, name, FlatMap(func(el T, emit Emitter[T]) error {
		ok, err := keep(el)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return emit(el)
	}))
}

// Union derives the concatenation of this Collection with others. Element
// multiplicity is preserved; no deduplication occurs.
func (c Collection[T]) Union(others ...Collection[T]) (Collection[T], error) {
	if c.eng == nil {
		return Collection[T]{}, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	in := make([]Dataset, 0, len(others)+1)
	in = append(in, c.ds)
	for _, o := range others {
		in = append(in, o.ds)
	}
	ds, err := c.eng.Union(in...)
	if err != nil {
		return Collection[T]{}, err
	}
	return Collection[T]{eng: c.eng, ds: ds}, nil
}

// Sample derives an approximate fraction of this Collection, keeping each
// element independently with probability prob. The same seed yields the same
// sample over the same partitioning.
func (c Collection[T]) Sample(prob float64, seed int64) (Collection[T], error) {
	if c.eng == nil {
		return Collection[T]{}, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	if prob <= 0 || prob > 1 {
		return Collection[T]{}, errors.InvalidArgumentError{Reason: "sample probability must be in (0, 1]"}
	}
	return ParallelDo(c, "sample", func() DoFn[T, T] {
		return &sampleFn[T]{prob: prob, seed: seed}
	})
}

// sampleFn keeps each element with a fixed probability, seeding a private
// generator per partition
type sampleFn[T any] struct {
	prob float64
	seed int64
	rng  *rand.Rand
}

func (s *sampleFn[T]) Initialize() error {
	s.rng = rand.New(rand.NewSource(s.seed))
	return nil
}

func (s *sampleFn[T]) Process(el T, emit Emitter[T]) error {
	if s.rng.Float64() < s.prob {
		return emit(el)
	}
	return nil
}

func (s *sampleFn[T]) Cleanup(emit Emitter[T]) error { return nil }

// Materialize computes this Collection and returns its elements. No element
// order is promised by the contract, though engines may document one.
func (c Collection[T]) Materialize(ctx context.Context) ([]T, error) {
	if c.eng == nil {
		return nil, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	cur, err := c.eng.Materialize(ctx, c.ds)
	if err != nil {
		return nil, err
	}
	var res []T
	for cur.HasNext() {
		el, err := cur.Next()
		if err != nil {
			return nil, err
		}
		t, ok := el.(T)
		if !ok {
			return nil, errors.WrongElementTypeError{Operation: "materialize", Element: el}
		}
		res = append(res, t)
	}
	return res, nil
}

// ParallelDo derives a Collection by applying one fresh DoFn from fn to each
// partition of c
func ParallelDo[T any, U any](c Collection[T], name string, fn DoFnFactory[T, U]) (Collection[U], error) {
	if c.eng == nil {
		return Collection[U]{}, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	if fn == nil {
		return Collection[U]{}, errors.InvalidArgumentError{Reason: "DoFnFactory must not be nil"}
	}
	ds, err := c.eng.ParallelDo(name, c.ds, eraseDoFnFactory(name, fn, unboxElement[T](name), boxElement[U]))
	if err != nil {
		return Collection[U]{}, err
	}
	return Collection[U]{eng: c.eng, ds: ds}, nil
}

// ParallelDoToTable derives a Table by applying one fresh pair-producing DoFn
// from fn to each partition of c
func ParallelDoToTable[T any, K comparable, V any](c Collection[T], name string, fn DoFnFactory[T, Pair[K, V]]) (Table[K, V], error) {
	if c.eng == nil {
		return Table[K, V]{}, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
	}
	if fn == nil {
		return Table[K, V]{}, errors.InvalidArgumentError{Reason: "DoFnFactory must not be nil"}
	}
	ds, err := c.eng.ParallelDo(name, c.ds, eraseDoFnFactory(name, fn, unboxElement[T](name), boxPair[K, V]))
	if err != nil {
		return Table[K, V]{}, err
	}
	return Table[K, V]{eng: c.eng, ds: ds}, nil
}

// By derives a Table keying each element of c by keyfn. Elements become the
// values of the resulting Table.
func By[T any, K comparable](c Collection[T], name string, keyfn func(el T) (K, error)) (Table[K, T], error) {
	if keyfn == nil {
		return Table[K, T]{}, errors.InvalidArgumentError{Reason: "key function must not be nil"}
	}
	return ParallelDoToTable(c, name, MapPairs(func(el T) (K, T, error) {
		k, err := keyfn(el)
		return k, el, err
	}))
}
