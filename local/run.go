package local

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/internal/util"
)

// run computes a node's result from its evaluated inputs
func (e *Engine) run(ctx context.Context, n *node) (*result, error) {
	switch n.kind {
	case sourceTask:
		return n.res, nil
	case doTask:
		in, err := n.inputs[0].evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return e.runParallelDo(ctx, n, in)
	case groupTask:
		in, err := n.inputs[0].evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return e.runGroupByKey(ctx, n, in)
	case combineTask:
		// evaluate the keyed dataset beneath the grouping, then fold it in a
		// single fused shuffle: once per input partition before routing and
		// once per shuffled group after
		group := n.inputs[0]
		in, err := group.inputs[0].evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return e.runCombineValues(ctx, n, group, in)
	case valuesTask:
		in, err := n.inputs[0].evaluate(ctx)
		if err != nil {
			return nil, err
		}
		return e.runValues(ctx, n, in)
	case unionTask:
		results := make([]*result, len(n.inputs))
		for i, input := range n.inputs {
			r, err := input.evaluate(ctx)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return e.runUnion(results)
	}
	return nil, errors.InvalidArgumentError{Reason: fmt.Sprintf("unknown task kind %s", n.kind)}
}

// runParallelDo applies a fresh DoFn to each partition of in, in parallel
func (e *Engine) runParallelDo(ctx context.Context, n *node, in *result) (*result, error) {
	e.log.Debugf("running %s over %d partitions", n.describe(), len(in.partitions))
	out := make([]*partitionData, len(in.partitions))
	var wg sync.WaitGroup
	wg.Add(len(in.partitions))
	taskLimit := semaphore.NewWeighted(int64(e.conf.Workers))
	asyncErrors := util.CreateAsyncErrorChannel()
	for i := range in.partitions {
		go e.asyncRunDoFn(ctx, n, in.partitions[i], in.grouped, out, i, taskLimit, &wg, asyncErrors)
	}
	if err := util.WaitAndGatherErrors(&wg, asyncErrors); err != nil {
		return nil, fmt.Errorf("%s failed: %w", n.describe(), err)
	}
	return &result{partitions: out}, nil
}

// asyncRunDoFn drives a DoFn lifecycle over a single partition, depositing
// the output partition into slot
func (e *Engine) asyncRunDoFn(ctx context.Context, n *node, part *partitionData, grouped bool, out []*partitionData, slot int, taskLimit *semaphore.Weighted, wg *sync.WaitGroup, errors chan<- error) {
	defer wg.Done()
	if err := taskLimit.Acquire(ctx, 1); err != nil {
		errors <- err
		return
	}
	defer taskLimit.Release(1)
	res := createPartitionData()
	emit := func(el interface{}) error {
		res.elems = append(res.elems, el)
		return nil
	}
	doFn := n.fn()
	if err := doFn.Initialize(); err != nil {
		errors <- err
		return
	}
	for _, el := range part.asElements(grouped) {
		if err := doFn.Process(el, emit); err != nil {
			errors <- err
			return
		}
	}
	if err := doFn.Cleanup(emit); err != nil {
		errors <- err
		return
	}
	out[slot] = res
}

// runValues projects each partition of in onto the value halves of its pairs
func (e *Engine) runValues(ctx context.Context, n *node, in *result) (*result, error) {
	if in.grouped {
		return nil, errors.InvalidArgumentError{Reason: "values requires a keyed dataset, not a grouped one"}
	}
	out := make([]*partitionData, len(in.partitions))
	for i, part := range in.partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := createPartitionData()
		for _, el := range part.elems {
			kv, ok := el.(riffle.KV)
			if !ok {
				return nil, errors.WrongElementTypeError{Operation: n.describe(), Element: el}
			}
			res.elems = append(res.elems, kv.Value)
		}
		out[i] = res
	}
	return &result{partitions: out}, nil
}

// runUnion concatenates the partitions of every input, in input order
func (e *Engine) runUnion(results []*result) (*result, error) {
	var out []*partitionData
	for _, r := range results {
		if r.grouped {
			return nil, errors.InvalidArgumentError{Reason: "union requires ungrouped datasets"}
		}
		out = append(out, r.partitions...)
	}
	return &result{partitions: out}, nil
}
