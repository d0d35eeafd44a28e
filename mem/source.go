package mem

import (
	"github.com/go-riffle/riffle"
)

// CreateCollection produces an eager Collection from the given elements. The
// elements are copied, so later mutation of the input slice does not affect
// the Collection.
func CreateCollection[T any](eng *Engine, elems ...T) riffle.Collection[T] {
	boxed := make([]interface{}, len(elems))
	for i, el := range elems {
		boxed[i] = el
	}
	return riffle.CreateCollection[T](eng, &dataset{elems: boxed})
}

// CreateTable produces an eager Table from the given pairs. The pairs are
// copied.
func CreateTable[K comparable, V any](eng *Engine, pairs ...riffle.Pair[K, V]) riffle.Table[K, V] {
	boxed := make([]interface{}, len(pairs))
	for i, p := range pairs {
		boxed[i] = riffle.KV{Key: p.Key, Value: p.Value}
	}
	return riffle.CreateTable[K, V](eng, &dataset{elems: boxed})
}
