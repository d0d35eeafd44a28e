package local

import (
	"context"
	"os"
	"runtime"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/logging"
)

// EngineOptions are options for a local Engine, configuring how pipelines
// are split and executed
type EngineOptions struct {
	Partitions     int             // the number of partitions sources are split into
	Workers        int             // the maximum number of partition tasks run concurrently per stage
	SpillDir       string          // location for storing spilled shuffle buffers
	SpillThreshold int             // the number of buffered elements per shuffle bucket before spilling to disk (0 disables spilling)
	Logger         *logging.Logger // destination for stage progress messages
}

func ensureDefaultEngineOptionsValues(opts *EngineOptions) {
	if opts.Partitions <= 0 {
		opts.Partitions = 4
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if len(opts.SpillDir) == 0 {
		opts.SpillDir = os.TempDir()
	}
	if opts.SpillThreshold < 0 {
		opts.SpillThreshold = 0
	}
	if opts.Logger == nil {
		opts.Logger = logging.DiscardLogger()
	}
}

// Engine is a lazy, partitioned, in-process executor
type Engine struct {
	conf EngineOptions
	log  *logging.Logger
}

// CreateEngine produces a local Engine. A nil opts selects all defaults.
func CreateEngine(opts *EngineOptions) *Engine {
	if opts == nil {
		opts = &EngineOptions{}
	}
	conf := *opts
	ensureDefaultEngineOptionsValues(&conf)
	return &Engine{conf: conf, log: conf.Logger}
}

// checkNode asserts that in was produced by this Engine
func (e *Engine) checkNode(in riffle.Dataset) (*node, error) {
	n, ok := in.(*node)
	if !ok || n.owner != e {
		return nil, errors.EngineMismatchError{}
	}
	return n, nil
}

// ParallelDo plans a partition-wise application of fn over in
func (e *Engine) ParallelDo(name string, in riffle.Dataset, fn riffle.UntypedDoFnFactory) (riffle.Dataset, error) {
	n, err := e.checkNode(in)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.InvalidArgumentError{Reason: "UntypedDoFnFactory must not be nil"}
	}
	return e.createNode(doTask, name, []*node{n}, func(nn *node) {
		nn.fn = fn
	}), nil
}

// GroupByKey plans a shuffle of the keyed dataset in into numPartitions
// grouped partitions. A non-positive numPartitions falls back to the
// engine's configured partition count.
func (e *Engine) GroupByKey(in riffle.Dataset, numPartitions int) (riffle.Dataset, error) {
	n, err := e.checkNode(in)
	if err != nil {
		return nil, err
	}
	if numPartitions <= 0 {
		numPartitions = e.conf.Partitions
	}
	return e.createNode(groupTask, "", []*node{n}, func(nn *node) {
		nn.parts = numPartitions
	}), nil
}

// CombineValues plans a two-level fold of fn over the grouped dataset in:
// once within each of the source's partitions before the shuffle, and once
// per key afterwards
func (e *Engine) CombineValues(in riffle.Dataset, fn riffle.UntypedCombineFn) (riffle.Dataset, error) {
	n, err := e.checkNode(in)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.InvalidArgumentError{Reason: "UntypedCombineFn must not be nil"}
	}
	if n.kind != groupTask {
		return nil, errors.InvalidArgumentError{Reason: "combineValues requires a grouped dataset"}
	}
	return e.createNode(combineTask, "", []*node{n}, func(nn *node) {
		nn.combine = fn
	}), nil
}

// Values plans a projection of the keyed dataset in onto its values
func (e *Engine) Values(in riffle.Dataset) (riffle.Dataset, error) {
	n, err := e.checkNode(in)
	if err != nil {
		return nil, err
	}
	return e.createNode(valuesTask, "", []*node{n}, nil), nil
}

// Union plans a concatenation of datasets, preserving each input's
// partitioning
func (e *Engine) Union(in ...riffle.Dataset) (riffle.Dataset, error) {
	if len(in) == 0 {
		return nil, errors.InvalidArgumentError{Reason: "union requires at least one dataset"}
	}
	nodes := make([]*node, len(in))
	for i, ds := range in {
		n, err := e.checkNode(ds)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return e.createNode(unionTask, "", nodes, nil), nil
}

// Materialize evaluates in, together with everything it derives from which
// has not already been evaluated, and returns a Cursor over its elements
func (e *Engine) Materialize(ctx context.Context, in riffle.Dataset) (riffle.Cursor, error) {
	n, err := e.checkNode(in)
	if err != nil {
		return nil, err
	}
	res, err := n.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("materialized %s into %d partitions", n.describe(), len(res.partitions))
	return res.cursor(), nil
}
