package riffle

import (
	"context"
	"sync"

	"github.com/go-riffle/riffle/errors"
)

// A Scalar is the deferred result of an aggregation which reduces a collection
// to a single value. The first Value call performs the underlying computation
// and caches the outcome; later calls return the cached result, including a
// cached error.
type Scalar[T any] struct {
	once    sync.Once
	val     T
	err     error
	resolve func(ctx context.Context) (T, error)
}

// CreateScalar produces a Scalar which resolves through fn exactly once
func CreateScalar[T any](fn func(ctx context.Context) (T, error)) *Scalar[T] {
	return &Scalar[T]{resolve: fn}
}

// Value computes and returns the scalar result, blocking until it is
// available. Only the first call evaluates; ctx bounds that evaluation.
func (s *Scalar[T]) Value(ctx context.Context) (T, error) {
	s.once.Do(func() {
		s.val, s.err = s.resolve(ctx)
		// release the pipeline reference once resolved
		s.resolve = nil
	})
	return s.val, s.err
}

// First produces a Scalar resolving to the first materialized element of c,
// or an errors.EmptyAggregationError when c is empty
func First[T any](c Collection[T]) *Scalar[T] {
	return CreateScalar(func(ctx context.Context) (T, error) {
		var zero T
		if c.eng == nil {
			return zero, errors.InvalidArgumentError{Reason: "collection is not bound to an engine"}
		}
		cur, err := c.eng.Materialize(ctx, c.ds)
		if err != nil {
			return zero, err
		}
		if !cur.HasNext() {
			return zero, errors.EmptyAggregationError{Operation: "first"}
		}
		el, err := cur.Next()
		if err != nil {
			return zero, err
		}
		t, ok := el.(T)
		if !ok {
			return zero, errors.WrongElementTypeError{Operation: "first", Element: el}
		}
		return t, nil
	})
}
