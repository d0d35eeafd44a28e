package local

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
	"golang.org/x/sync/semaphore"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/internal/util"
)

// routedKV is a shuffled element together with its key hash
type routedKV struct {
	hash  uint64
	key   interface{}
	value interface{}
}

// keyBytes produces a stable byte representation of a group key. The
// concrete value is encoded directly, so equal keys of the same type always
// yield the same bytes within a run.
func keyBytes(key interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(key); err != nil {
		return nil, fmt.Errorf("unable to encode group key %v: %w", key, err)
	}
	return buf.Bytes(), nil
}

// hashKey hashes a group key for shuffle routing
func hashKey(key interface{}) (uint64, error) {
	kb, err := keyBytes(key)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(kb), nil
}

// groupEntry is a single key's grouped values within one partition
type groupEntry struct {
	hash   uint64
	key    interface{}
	values []interface{}
}

// hashBucket holds every group whose key shares a hash
type hashBucket struct {
	hash    uint64
	entries []*groupEntry
}

// groupIndex organizes one partition's groups by key hash, resolving hash
// collisions by true key equality. Iteration follows ascending hash order,
// then bucket insertion order, so the same data always yields the same group
// order.
type groupIndex struct {
	tree   *btree.BTreeG[*hashBucket]
	groups int
}

// createGroupIndex produces an empty groupIndex
func createGroupIndex() *groupIndex {
	return &groupIndex{
		tree: btree.NewG[*hashBucket](2, func(a, b *hashBucket) bool {
			return a.hash < b.hash
		}),
	}
}

// add appends value to key's group, creating the group on first sight
func (idx *groupIndex) add(hash uint64, key interface{}, value interface{}) {
	b, ok := idx.tree.Get(&hashBucket{hash: hash})
	if !ok {
		b = &hashBucket{hash: hash}
		idx.tree.ReplaceOrInsert(b)
	}
	for _, entry := range b.entries {
		if entry.key == key {
			entry.values = append(entry.values, value)
			return
		}
	}
	b.entries = append(b.entries, &groupEntry{hash: hash, key: key, values: []interface{}{value}})
	idx.groups++
}

// entries returns the groups of this index in deterministic order
func (idx *groupIndex) entries() []*groupEntry {
	out := make([]*groupEntry, 0, idx.groups)
	idx.tree.Ascend(func(b *hashBucket) bool {
		out = append(out, b.entries...)
		return true
	})
	return out
}

// mapOutput is one input partition's contribution to a shuffle: per-bucket
// element runs, some possibly flushed to spill files
type mapOutput struct {
	buffers [][]routedKV
	spills  [][]string
}

// createMapOutput produces an empty mapOutput with parts buckets
func createMapOutput(parts int) *mapOutput {
	return &mapOutput{
		buffers: make([][]routedKV, parts),
		spills:  make([][]string, parts),
	}
}

// runGroupByKey shuffles the keyed partitions of in into n.parts grouped
// partitions
func (e *Engine) runGroupByKey(ctx context.Context, n *node, in *result) (*result, error) {
	if in.grouped {
		return nil, errors.InvalidArgumentError{Reason: "groupByKey requires a keyed dataset, not a grouped one"}
	}
	outputs, err := e.shuffleMap(ctx, n, in, n.parts, nil)
	if err != nil {
		return nil, err
	}
	res, err := e.shuffleReduce(ctx, n, outputs, n.parts, nil)
	if err != nil {
		return nil, err
	}
	res.grouped = true
	return res, nil
}

// runCombineValues evaluates a grouping fused with its combiner. The combiner
// pre-folds each input partition before routing and folds each merged group
// once after the shuffle, so a key spanning partitions sees its values fold
// at both levels.
func (e *Engine) runCombineValues(ctx context.Context, n *node, group *node, in *result) (*result, error) {
	if in.grouped {
		return nil, errors.InvalidArgumentError{Reason: "combineValues requires grouping a keyed dataset"}
	}
	outputs, err := e.shuffleMap(ctx, n, in, group.parts, n.combine)
	if err != nil {
		return nil, err
	}
	return e.shuffleReduce(ctx, n, outputs, group.parts, n.combine)
}

// shuffleMap routes every partition of in into parts buckets, in parallel
func (e *Engine) shuffleMap(ctx context.Context, n *node, in *result, parts int, combine riffle.UntypedCombineFn) ([]*mapOutput, error) {
	e.log.Debugf("shuffling %s from %d partitions into %d buckets", n.describe(), len(in.partitions), parts)
	out := make([]*mapOutput, len(in.partitions))
	var wg sync.WaitGroup
	wg.Add(len(in.partitions))
	taskLimit := semaphore.NewWeighted(int64(e.conf.Workers))
	asyncErrors := util.CreateAsyncErrorChannel()
	for i := range in.partitions {
		go e.asyncRunShuffleMap(ctx, n, in.partitions[i], parts, combine, out, i, taskLimit, &wg, asyncErrors)
	}
	if err := util.WaitAndGatherErrors(&wg, asyncErrors); err != nil {
		e.removeSpills(out)
		return nil, fmt.Errorf("%s failed: %w", n.describe(), err)
	}
	return out, nil
}

// asyncRunShuffleMap routes one partition, depositing its output into slot
func (e *Engine) asyncRunShuffleMap(ctx context.Context, n *node, part *partitionData, parts int, combine riffle.UntypedCombineFn, out []*mapOutput, slot int, taskLimit *semaphore.Weighted, wg *sync.WaitGroup, errors chan<- error) {
	defer wg.Done()
	if err := taskLimit.Acquire(ctx, 1); err != nil {
		errors <- err
		return
	}
	defer taskLimit.Release(1)
	mo, err := e.shuffleMapPartition(n, part, parts, combine)
	if err != nil {
		errors <- err
		return
	}
	out[slot] = mo
}

// shuffleMapPartition routes one input partition's elements into per-bucket
// runs, pre-folding each local group with combine when one is provided
func (e *Engine) shuffleMapPartition(n *node, part *partitionData, parts int, combine riffle.UntypedCombineFn) (*mapOutput, error) {
	mo := createMapOutput(parts)
	if combine == nil {
		for _, el := range part.elems {
			kv, ok := el.(riffle.KV)
			if !ok {
				return nil, errors.WrongElementTypeError{Operation: n.describe(), Element: el}
			}
			hash, err := hashKey(kv.Key)
			if err != nil {
				return nil, err
			}
			if err = e.route(mo, routedKV{hash: hash, key: kv.Key, value: kv.Value}); err != nil {
				return nil, err
			}
		}
		return mo, nil
	}
	idx := createGroupIndex()
	for _, el := range part.elems {
		kv, ok := el.(riffle.KV)
		if !ok {
			return nil, errors.WrongElementTypeError{Operation: n.describe(), Element: el}
		}
		hash, err := hashKey(kv.Key)
		if err != nil {
			return nil, err
		}
		idx.add(hash, kv.Key, kv.Value)
	}
	for _, g := range idx.entries() {
		g := g
		emit := func(v interface{}) error {
			return e.route(mo, routedKV{hash: g.hash, key: g.key, value: v})
		}
		if err := combine(g.key, &valueCursor{values: g.values}, emit); err != nil {
			return nil, err
		}
	}
	return mo, nil
}

// route buffers kv under its shuffle bucket, flushing the buffer to a spill
// run whenever it reaches the configured threshold
func (e *Engine) route(mo *mapOutput, kv routedKV) error {
	bucket := int(kv.hash % uint64(len(mo.buffers)))
	mo.buffers[bucket] = append(mo.buffers[bucket], kv)
	if e.conf.SpillThreshold > 0 && len(mo.buffers[bucket]) >= e.conf.SpillThreshold {
		path, err := spillRun(e.conf.SpillDir, mo.buffers[bucket])
		if err != nil {
			return err
		}
		e.log.Debugf("spilled %d shuffle records to %s", len(mo.buffers[bucket]), path)
		mo.spills[bucket] = append(mo.spills[bucket], path)
		mo.buffers[bucket] = nil
	}
	return nil
}

// shuffleReduce merges map outputs into parts partitions, in parallel,
// removing the consumed spill runs afterwards
func (e *Engine) shuffleReduce(ctx context.Context, n *node, outputs []*mapOutput, parts int, combine riffle.UntypedCombineFn) (*result, error) {
	defer e.removeSpills(outputs)
	out := make([]*partitionData, parts)
	var wg sync.WaitGroup
	wg.Add(parts)
	taskLimit := semaphore.NewWeighted(int64(e.conf.Workers))
	asyncErrors := util.CreateAsyncErrorChannel()
	for bucket := 0; bucket < parts; bucket++ {
		go e.asyncRunShuffleReduce(ctx, n, outputs, bucket, combine, out, taskLimit, &wg, asyncErrors)
	}
	if err := util.WaitAndGatherErrors(&wg, asyncErrors); err != nil {
		return nil, fmt.Errorf("%s failed: %w", n.describe(), err)
	}
	return &result{partitions: out}, nil
}

// asyncRunShuffleReduce merges one shuffle bucket, depositing the merged
// partition into out[bucket]
func (e *Engine) asyncRunShuffleReduce(ctx context.Context, n *node, outputs []*mapOutput, bucket int, combine riffle.UntypedCombineFn, out []*partitionData, taskLimit *semaphore.Weighted, wg *sync.WaitGroup, errors chan<- error) {
	defer wg.Done()
	if err := taskLimit.Acquire(ctx, 1); err != nil {
		errors <- err
		return
	}
	defer taskLimit.Release(1)
	res, err := e.shuffleReducePartition(n, outputs, bucket, combine)
	if err != nil {
		errors <- err
		return
	}
	out[bucket] = res
}

// shuffleReducePartition merges every map output's contribution to one
// shuffle bucket into grouped form, folding each group once when combine is
// provided. Spilled runs are read back before in-memory remainders, in map
// partition order, so replaying a pipeline yields the same value order.
func (e *Engine) shuffleReducePartition(n *node, outputs []*mapOutput, bucket int, combine riffle.UntypedCombineFn) (*partitionData, error) {
	idx := createGroupIndex()
	for _, mo := range outputs {
		for _, path := range mo.spills[bucket] {
			err := readSpillRun(path, func(rec spillRecord) error {
				idx.add(rec.Hash, rec.Key, rec.Value)
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		for _, kv := range mo.buffers[bucket] {
			idx.add(kv.hash, kv.key, kv.value)
		}
	}
	res := createPartitionData()
	if combine == nil {
		res.groups = idx.entries()
		return res, nil
	}
	for _, g := range idx.entries() {
		g := g
		emit := func(v interface{}) error {
			res.elems = append(res.elems, riffle.KV{Key: g.key, Value: v})
			return nil
		}
		if err := combine(g.key, &valueCursor{values: g.values}, emit); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// removeSpills deletes every spill run referenced by outputs, logging rather
// than failing when a file cannot be removed
func (e *Engine) removeSpills(outputs []*mapOutput) {
	var merrs []error
	for _, mo := range outputs {
		if mo == nil {
			continue
		}
		for _, paths := range mo.spills {
			for _, path := range paths {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					merrs = append(merrs, err)
				}
			}
		}
	}
	if len(merrs) > 0 {
		e.log.Warnf("unable to remove spill files:\n%s", util.FormatMultiError(merrs))
	}
}
