package riffle

// A Pair is a single key/value element of a Table. Pairs are immutable once
// produced. Nested Pairs (a Pair used as the value of another Pair) are
// permitted and flow through transforms unchanged.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// CreatePair produces a Pair from a key and a value
func CreatePair[K any, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}
