package riffle

// Map produces a DoFnFactory from a stateless function of one element to one
// output
func Map[T any, U any](fn func(el T) (U, error)) DoFnFactory[T, U] {
	return func() DoFn[T, U] { return &mapFn[T, U]{fn: fn} }
}

type mapFn[T any, U any] struct {
	fn func(el T) (U, error)
}

func (m *mapFn[T, U]) Initialize() error { return nil }

func (m *mapFn[T, U]) Process(el T, emit Emitter[U]) error {
	res, err := m.fn(el)
	if err != nil {
		return err
	}
	return emit(res)
}

func (m *mapFn[T, U]) Cleanup(emit Emitter[U]) error { return nil }

// FlatMap produces a DoFnFactory from a stateless function emitting any number
// of outputs per element
func FlatMap[T any, U any](fn func(el T, emit Emitter[U]) error) DoFnFactory[T, U] {
	return func() DoFn[T, U] { return &flatMapFn[T, U]{fn: fn} }
}

type flatMapFn[T any, U any] struct {
	fn func(el T, emit Emitter[U]) error
}

func (m *flatMapFn[T, U]) Initialize() error { return nil }

func (m *flatMapFn[T, U]) Process(el T, emit Emitter[U]) error {
	return m.fn(el, emit)
}

func (m *flatMapFn[T, U]) Cleanup(emit Emitter[U]) error { return nil }

// MapPairs produces a DoFnFactory from a stateless function of one element to
// one key/value pair
func MapPairs[T any, K any, V any](fn func(el T) (K, V, error)) DoFnFactory[T, Pair[K, V]] {
	return Map(func(el T) (Pair[K, V], error) {
		k, v, err := fn(el)
		if err != nil {
			return Pair[K, V]{}, err
		}
		return Pair[K, V]{Key: k, Value: v}, nil
	})
}
