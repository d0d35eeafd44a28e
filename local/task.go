package local

import (
	"context"
	"fmt"
	"log"
	"sync"

	uuid "github.com/gofrs/uuid"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
)

// taskKind describes the derivation a plan node performs
type taskKind string

const (
	// sourceTask indicates that a node holds pre-partitioned source elements
	sourceTask taskKind = "source"
	// doTask indicates that a node applies a DoFn to each partition
	doTask taskKind = "parallel_do"
	// groupTask indicates that a node shuffles a keyed dataset into groups
	groupTask taskKind = "group_by_key"
	// combineTask indicates that a node folds grouped values at two levels
	combineTask taskKind = "combine_values"
	// valuesTask indicates that a node projects a keyed dataset onto its values
	valuesTask taskKind = "values"
	// unionTask indicates that a node concatenates its inputs' partitions
	unionTask taskKind = "union"
)

// node is a single derivation in a pipeline plan. Nodes evaluate lazily when
// a Materialize first demands them and cache their result. Failed evaluations
// are not cached, so a run aborted by ctx cancellation can be retried.
type node struct {
	id      string
	kind    taskKind
	name    string
	owner   *Engine
	inputs  []*node
	fn      riffle.UntypedDoFnFactory
	combine riffle.UntypedCombineFn
	parts   int

	mu   sync.Mutex
	done bool
	res  *result
}

// createNode produces a plan node owned by this Engine
func (e *Engine) createNode(kind taskKind, name string, inputs []*node, config func(*node)) *node {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for plan node: %v", err)
	}
	n := &node{id: id.String(), kind: kind, name: name, owner: e, inputs: inputs}
	if config != nil {
		config(n)
	}
	return n
}

// describe renders a node label for logs and errors
func (n *node) describe() string {
	if len(n.name) > 0 {
		return fmt.Sprintf("%s[%s]", n.kind, n.name)
	}
	return string(n.kind)
}

// evaluate computes this node's result, or returns the cached one
func (n *node) evaluate(ctx context.Context) (*result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.done {
		return n.res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := n.owner.run(ctx, n)
	if err != nil {
		return nil, err
	}
	n.res = res
	n.done = true
	return res, nil
}

// result is the evaluated form of a node, its elements split into partitions
type result struct {
	partitions []*partitionData
	grouped    bool
}

// cursor iterates over every partition of this result, in partition order
func (r *result) cursor() riffle.Cursor {
	return &resultCursor{res: r}
}

// partitionData is one partition of an evaluated node. Flat partitions hold
// elems; grouped partitions hold groups.
type partitionData struct {
	id     string
	elems  []interface{}
	groups []*groupEntry
}

// createPartitionData produces an empty partition with a fresh id
func createPartitionData() *partitionData {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for partition: %v", err)
	}
	return &partitionData{id: id.String()}
}

// asElements presents this partition as a flat element sequence, synthesizing
// fresh KeyGroup carriers when grouped
func (p *partitionData) asElements(grouped bool) []interface{} {
	if !grouped {
		return p.elems
	}
	els := make([]interface{}, len(p.groups))
	for i, g := range p.groups {
		els[i] = riffle.KeyGroup{Key: g.key, Values: &valueCursor{values: g.values}}
	}
	return els
}

// resultCursor iterates over the elements of every partition of a result
type resultCursor struct {
	res   *result
	part  int
	elems []interface{}
	idx   int
}

// HasNext returns true iff this Cursor contains more elements
func (c *resultCursor) HasNext() bool {
	for c.idx >= len(c.elems) {
		if c.part >= len(c.res.partitions) {
			return false
		}
		c.elems = c.res.partitions[c.part].asElements(c.res.grouped)
		c.idx = 0
		c.part++
	}
	return true
}

// Next returns the next element, or an errors.NoMoreValuesError if none remain
func (c *resultCursor) Next() (interface{}, error) {
	if !c.HasNext() {
		return nil, errors.NoMoreValuesError{}
	}
	el := c.elems[c.idx]
	c.idx++
	return el, nil
}

// valueCursor iterates over the stored values of a single group
type valueCursor struct {
	values []interface{}
	next   int
}

// HasNextValue returns true iff this ValueCursor contains more values
func (c *valueCursor) HasNextValue() bool {
	return c.next < len(c.values)
}

// NextValue returns the next value, or an errors.NoMoreValuesError if none remain
func (c *valueCursor) NextValue() (interface{}, error) {
	if c.next >= len(c.values) {
		return nil, errors.NoMoreValuesError{}
	}
	v := c.values[c.next]
	c.next++
	return v, nil
}
