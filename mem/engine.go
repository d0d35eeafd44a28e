package mem

import (
	"context"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
)

// Engine is the eager reference executor. It holds no state of its own; all
// data lives on the datasets it produces.
type Engine struct{}

// CreateEngine produces an eager in-memory Engine
func CreateEngine() *Engine {
	return &Engine{}
}

// checkDataset asserts that in was produced by a mem Engine
func (e *Engine) checkDataset(in riffle.Dataset) (*dataset, error) {
	d, ok := in.(*dataset)
	if !ok {
		return nil, errors.EngineMismatchError{}
	}
	return d, nil
}

// ParallelDo applies one fresh UntypedDoFn to the single partition of in,
// immediately
func (e *Engine) ParallelDo(name string, in riffle.Dataset, fn riffle.UntypedDoFnFactory) (riffle.Dataset, error) {
	d, err := e.checkDataset(in)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.InvalidArgumentError{Reason: "UntypedDoFnFactory must not be nil"}
	}
	var out []interface{}
	emit := func(el interface{}) error {
		out = append(out, el)
		return nil
	}
	doFn := fn()
	if err := doFn.Initialize(); err != nil {
		return nil, err
	}
	for _, el := range d.asElements() {
		if err := doFn.Process(el, emit); err != nil {
			return nil, err
		}
	}
	if err := doFn.Cleanup(emit); err != nil {
		return nil, err
	}
	return &dataset{elems: out}, nil
}

// GroupByKey groups the keyed elements of in, immediately. Keys appear in
// first-seen order; a key's values keep their arrival order. The partition
// hint is accepted and ignored, as a mem Engine keeps all data in one
// partition.
func (e *Engine) GroupByKey(in riffle.Dataset, numPartitions int) (riffle.Dataset, error) {
	d, err := e.checkDataset(in)
	if err != nil {
		return nil, err
	}
	if d.grouped {
		return nil, errors.InvalidArgumentError{Reason: "groupByKey requires a keyed dataset"}
	}
	seen := map[interface{}]int{}
	var groups []group
	for _, el := range d.elems {
		kv, ok := el.(riffle.KV)
		if !ok {
			return nil, errors.WrongElementTypeError{Operation: "groupByKey", Element: el}
		}
		idx, ok := seen[kv.Key]
		if !ok {
			idx = len(groups)
			seen[kv.Key] = idx
			groups = append(groups, group{key: kv.Key})
		}
		groups[idx].values = append(groups[idx].values, kv.Value)
	}
	return &dataset{groups: groups, grouped: true}, nil
}

// CombineValues folds each key's values through fn exactly once, immediately.
// Pipelines must not rely on the single invocation; partitioned engines
// invoke combiners several times per key.
func (e *Engine) CombineValues(in riffle.Dataset, fn riffle.UntypedCombineFn) (riffle.Dataset, error) {
	d, err := e.checkDataset(in)
	if err != nil {
		return nil, err
	}
	if !d.grouped {
		return nil, errors.InvalidArgumentError{Reason: "combineValues requires a grouped dataset"}
	}
	if fn == nil {
		return nil, errors.InvalidArgumentError{Reason: "UntypedCombineFn must not be nil"}
	}
	var out []interface{}
	for _, g := range d.groups {
		key := g.key
		emit := func(v interface{}) error {
			out = append(out, riffle.KV{Key: key, Value: v})
			return nil
		}
		if err := fn(key, &sliceValueCursor{values: g.values}, emit); err != nil {
			return nil, err
		}
	}
	return &dataset{elems: out}, nil
}

// Values projects the keyed elements of in onto their values, immediately
func (e *Engine) Values(in riffle.Dataset) (riffle.Dataset, error) {
	d, err := e.checkDataset(in)
	if err != nil {
		return nil, err
	}
	if d.grouped {
		return nil, errors.InvalidArgumentError{Reason: "values requires a keyed dataset"}
	}
	out := make([]interface{}, 0, len(d.elems))
	for _, el := range d.elems {
		kv, ok := el.(riffle.KV)
		if !ok {
			return nil, errors.WrongElementTypeError{Operation: "values", Element: el}
		}
		out = append(out, kv.Value)
	}
	return &dataset{elems: out}, nil
}

// Union concatenates datasets, immediately
func (e *Engine) Union(in ...riffle.Dataset) (riffle.Dataset, error) {
	if len(in) == 0 {
		return nil, errors.InvalidArgumentError{Reason: "union requires at least one dataset"}
	}
	var out []interface{}
	for _, ds := range in {
		d, err := e.checkDataset(ds)
		if err != nil {
			return nil, err
		}
		if d.grouped {
			return nil, errors.InvalidArgumentError{Reason: "union operates on ungrouped datasets"}
		}
		out = append(out, d.elems...)
	}
	return &dataset{elems: out}, nil
}

// Materialize returns a Cursor over the already-computed elements of in
func (e *Engine) Materialize(ctx context.Context, in riffle.Dataset) (riffle.Cursor, error) {
	d, err := e.checkDataset(in)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &sliceCursor{elems: d.asElements()}, nil
}
