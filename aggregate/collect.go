package aggregate

import (
	"github.com/go-riffle/riffle"
)

// A Detach produces a value safe to retain beyond its iteration step, for
// value types whose storage an engine may reuse between steps. Self-contained
// values need no detaching.
type Detach[V any] func(v V) V

// CollectValues derives the table mapping each distinct key of t to the slice
// of all its values, in grouped arrival order. When a detach is supplied,
// every value passes through it before retention; values retained without
// detaching must be self-contained.
func CollectValues[K comparable, V any](t riffle.Table[K, V], detach ...Detach[V]) (riffle.Table[K, []V], error) {
	var d Detach[V]
	if len(detach) > 0 {
		d = detach[0]
	}
	grouped, err := t.GroupByKey()
	if err != nil {
		return riffle.Table[K, []V]{}, err
	}
	return riffle.MapValues(grouped, "collect", func(key K, values riffle.ValueIterator[V]) ([]V, error) {
		var collected []V
		for values.HasNextValue() {
			v, err := values.NextValue()
			if err != nil {
				return nil, err
			}
			if d != nil {
				v = d(v)
			}
			collected = append(collected, v)
		}
		return collected, nil
	})
}
