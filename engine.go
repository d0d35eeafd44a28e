package riffle

import (
	"context"
)

// A Dataset is an engine-owned handle for one logical collection within a
// pipeline. Dataset values are opaque outside the engine which produced them.
// Handing a Dataset to an Engine other than its producer yields an
// errors.EngineMismatchError.
type Dataset interface{}

// A Cursor iterates over the elements of a materialized Dataset. Elements of
// a keyed dataset are KV carriers; elements of a grouped dataset are KeyGroup
// carriers; all other elements appear as themselves.
type Cursor interface {
	HasNext() bool              // HasNext returns true iff this Cursor contains more elements
	Next() (interface{}, error) // Next returns the next element, or an errors.NoMoreValuesError if none remain
}

// A ValueCursor iterates over the erased values grouped under a single key
type ValueCursor interface {
	HasNextValue() bool              // HasNextValue returns true iff this ValueCursor contains more values
	NextValue() (interface{}, error) // NextValue returns the next value, or an errors.NoMoreValuesError if none remain
}

// KV is the erased carrier for a single element of a keyed dataset
type KV struct {
	Key   interface{}
	Value interface{}
}

// KeyGroup is the erased carrier for a single entry of a grouped dataset: one
// key together with the sequence of values routed to it. The Values cursor is
// only valid until the enclosing element iteration advances.
type KeyGroup struct {
	Key    interface{}
	Values ValueCursor
}

// EmitFunc passes a single erased element onward
type EmitFunc func(el interface{}) error

// An UntypedDoFn is the erased form of a DoFn, operating on engine-owned
// elements. Engines drive it with the same lifecycle as a DoFn.
type UntypedDoFn interface {
	Initialize() error
	Process(el interface{}, emit EmitFunc) error
	Cleanup(emit EmitFunc) error
}

// An UntypedDoFnFactory produces a fresh UntypedDoFn
type UntypedDoFnFactory func() UntypedDoFn

// An UntypedCombineFn is the erased form of a CombineFn. Values passed to emit
// are re-keyed under key by the engine.
type UntypedCombineFn func(key interface{}, values ValueCursor, emit EmitFunc) error

// An Engine plans and executes pipelines over erased Datasets. Clients do not
// call an Engine directly; the typed handles in this package erase and forward
// to one. Engines are free to defer all work until Materialize, or to execute
// each derivation eagerly.
type Engine interface {
	// ParallelDo derives a dataset by applying fn to every partition of in,
	// one fresh UntypedDoFn per partition: Initialize once before any element,
	// Process once per element, Cleanup once after the final element.
	ParallelDo(name string, in Dataset, fn UntypedDoFnFactory) (Dataset, error)
	// GroupByKey derives a grouped dataset from a keyed dataset, routing all
	// values sharing a key to a single KeyGroup. No ordering among a key's
	// values is promised, and no deduplication occurs. A numPartitions of zero
	// or less leaves the grouped partition count to the engine.
	GroupByKey(in Dataset, numPartitions int) (Dataset, error)
	// CombineValues derives a keyed dataset from a grouped dataset by folding
	// each key's values through fn. The engine chooses how many times, and at
	// which levels of the reduction, fn is invoked for a key, subject only to
	// fn's associativity contract.
	CombineValues(in Dataset, fn UntypedCombineFn) (Dataset, error)
	// Values projects a keyed dataset onto its values.
	Values(in Dataset) (Dataset, error)
	// Union concatenates datasets of a common element shape.
	Union(in ...Dataset) (Dataset, error)
	// Materialize computes in and returns a Cursor over its elements.
	// Materialize is the only blocking operation; ctx bounds the computation.
	Materialize(ctx context.Context, in Dataset) (Cursor, error)
}
