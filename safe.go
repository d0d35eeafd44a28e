package riffle

import (
	"fmt"

	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/internal/util"
)

// eraseDoFnFactory adapts a typed DoFnFactory for engine use. unbox and box
// define how elements cross the erasure boundary in each direction.
func eraseDoFnFactory[T any, U any](name string, factory DoFnFactory[T, U], unbox func(interface{}) (T, error), box func(U) interface{}) UntypedDoFnFactory {
	return func() UntypedDoFn {
		return &erasedDoFn[T, U]{name: name, fn: factory(), unbox: unbox, box: box}
	}
}

// erasedDoFn drives a typed DoFn from erased elements, such that panics in
// client code are recovered and nice error messages are constructed
type erasedDoFn[T any, U any] struct {
	name  string
	fn    DoFn[T, U]
	unbox func(interface{}) (T, error)
	box   func(U) interface{}
}

func (d *erasedDoFn[T, U]) Initialize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = fmt.Errorf("%s: Initialize Panic: %w\n%s", d.name, anErr, util.GetTrace())
			} else {
				err = fmt.Errorf("%s: Initialize Panic: %v\n%s", d.name, r, util.GetTrace())
			}
		} else if err != nil {
			err = fmt.Errorf("%s: Initialize Error: %w", d.name, err)
		}
	}()
	return d.fn.Initialize()
}

func (d *erasedDoFn[T, U]) Process(el interface{}, emit EmitFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = fmt.Errorf("%s: Process Panic: %w\n%s", d.name, anErr, util.GetTrace())
			} else {
				err = fmt.Errorf("%s: Process Panic: %v\n%s", d.name, r, util.GetTrace())
			}
		} else if err != nil {
			err = fmt.Errorf("%s: Process Error: %w", d.name, err)
		}
	}()
	el2, uerr := d.unbox(el)
	if uerr != nil {
		return uerr
	}
	return d.fn.Process(el2, func(u U) error { return emit(d.box(u)) })
}

func (d *erasedDoFn[T, U]) Cleanup(emit EmitFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = fmt.Errorf("%s: Cleanup Panic: %w\n%s", d.name, anErr, util.GetTrace())
			} else {
				err = fmt.Errorf("%s: Cleanup Panic: %v\n%s", d.name, r, util.GetTrace())
			}
		} else if err != nil {
			err = fmt.Errorf("%s: Cleanup Error: %w", d.name, err)
		}
	}()
	return d.fn.Cleanup(func(u U) error { return emit(d.box(u)) })
}

// eraseCombineFn adapts a typed CombineFn for engine use, such that panics in
// client code are recovered and nice error messages are constructed
func eraseCombineFn[K comparable, V any](name string, fn CombineFn[K, V]) UntypedCombineFn {
	return func(key interface{}, values ValueCursor, emit EmitFunc) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("%s: Combine Panic: %w\n%s", name, anErr, util.GetTrace())
				} else {
					err = fmt.Errorf("%s: Combine Panic: %v\n%s", name, r, util.GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("%s: Combine Error: %w", name, err)
			}
		}()
		k, ok := key.(K)
		if !ok {
			return errors.WrongElementTypeError{Operation: name, Element: key}
		}
		return fn(k, &typedValues[V]{op: name, values: values}, func(v V) error { return emit(v) })
	}
}

// typedValues adapts an erased ValueCursor into a typed ValueIterator
type typedValues[V any] struct {
	op     string
	values ValueCursor
}

// HasNextValue returns true iff this ValueIterator contains more values
func (t *typedValues[V]) HasNextValue() bool {
	return t.values.HasNextValue()
}

// NextValue returns the next value, or an error if none remain or the
// underlying value is not of the expected type
func (t *typedValues[V]) NextValue() (V, error) {
	var zero V
	el, err := t.values.NextValue()
	if err != nil {
		return zero, err
	}
	v, ok := el.(V)
	if !ok {
		return zero, errors.WrongElementTypeError{Operation: t.op, Element: el}
	}
	return v, nil
}

func unboxElement[T any](op string) func(interface{}) (T, error) {
	return func(el interface{}) (T, error) {
		t, ok := el.(T)
		if !ok {
			var zero T
			return zero, errors.WrongElementTypeError{Operation: op, Element: el}
		}
		return t, nil
	}
}

func unboxPair[K any, V any](op string) func(interface{}) (Pair[K, V], error) {
	return func(el interface{}) (Pair[K, V], error) {
		kv, ok := el.(KV)
		if !ok {
			return Pair[K, V]{}, errors.WrongElementTypeError{Operation: op, Element: el}
		}
		k, ok := kv.Key.(K)
		if !ok {
			return Pair[K, V]{}, errors.WrongElementTypeError{Operation: op, Element: kv.Key}
		}
		v, ok := kv.Value.(V)
		if !ok {
			return Pair[K, V]{}, errors.WrongElementTypeError{Operation: op, Element: kv.Value}
		}
		return Pair[K, V]{Key: k, Value: v}, nil
	}
}

func boxElement[U any](el U) interface{} {
	return el
}

func boxPair[K any, V any](p Pair[K, V]) interface{} {
	return KV{Key: p.Key, Value: p.Value}
}
