package riffle

// A DoFn is an element-wise transform with an explicit lifecycle. Engines
// construct one DoFn per partition via a DoFnFactory, then call Initialize
// exactly once before any element is processed, Process once per element, and
// Cleanup exactly once after the final element. State stored on a DoFn between
// calls is therefore private to a single partition.
type DoFn[T any, U any] interface {
	Initialize() error                   // Initialize prepares this DoFn for a run of Process calls
	Process(el T, emit Emitter[U]) error // Process transforms a single element, emitting zero or more outputs
	Cleanup(emit Emitter[U]) error       // Cleanup emits any remaining state after the final Process call
}

// A DoFnFactory produces a fresh DoFn. Factories are invoked once per
// partition, never concurrently with their own product.
type DoFnFactory[T any, U any] func() DoFn[T, U]

// A CombineFn folds the values grouped under a single key into fewer values of
// the same type. It must be associative and commutative over the key's value
// multiset, as an engine is free to invoke it zero, one or many times per key,
// at any level of a multi-level reduction, over any sub-grouping of the key's
// values. Emitted values remain keyed under key.
type CombineFn[K comparable, V any] func(key K, values ValueIterator[V], emit Emitter[V]) error

// A ValueIterator iterates over the values grouped under a single key. Values
// may be backed by engine-owned storage which is reused between iteration
// steps, so a value retained beyond its step must be copied first.
type ValueIterator[V any] interface {
	HasNextValue() bool    // HasNextValue returns true iff this ValueIterator contains more values
	NextValue() (V, error) // NextValue returns the next value, or an errors.NoMoreValuesError if none remain
}
