package local

import (
	"github.com/go-riffle/riffle"
)

// CreateCollection produces a Collection backed by eng, splitting the given
// elements into up to the engine's configured number of partitions. The
// elements are copied.
func CreateCollection[T any](eng *Engine, elems ...T) riffle.Collection[T] {
	boxed := make([]interface{}, len(elems))
	for i, el := range elems {
		boxed[i] = el
	}
	return riffle.CreateCollection[T](eng, eng.createSource(boxed))
}

// CreateTable produces a Table backed by eng, splitting the given pairs into
// up to the engine's configured number of partitions. The pairs are copied.
func CreateTable[K comparable, V any](eng *Engine, pairs ...riffle.Pair[K, V]) riffle.Table[K, V] {
	boxed := make([]interface{}, len(pairs))
	for i, p := range pairs {
		boxed[i] = riffle.KV{Key: p.Key, Value: p.Value}
	}
	return riffle.CreateTable[K, V](eng, eng.createSource(boxed))
}

// createSource plans a source node over pre-boxed elements. Sources carry
// their result from creation, so evaluating one never fails.
func (e *Engine) createSource(elems []interface{}) *node {
	return e.createNode(sourceTask, "", nil, func(n *node) {
		n.res = &result{partitions: splitElements(elems, e.conf.Partitions)}
		n.done = true
	})
}

// splitElements splits elements into up to parts contiguous chunks of near
// equal size. An empty input still yields one empty partition, so DoFn
// lifecycles run against empty sources.
func splitElements(elems []interface{}, parts int) []*partitionData {
	if parts < 1 {
		parts = 1
	}
	chunk := (len(elems) + parts - 1) / parts
	out := make([]*partitionData, 0, parts)
	for start := 0; start < len(elems); start += chunk {
		end := start + chunk
		if end > len(elems) {
			end = len(elems)
		}
		p := createPartitionData()
		p.elems = append(p.elems, elems[start:end]...)
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, createPartitionData())
	}
	return out
}
