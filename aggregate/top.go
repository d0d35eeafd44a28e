package aggregate

import (
	"fmt"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/internal/bpq"
)

// Top derives the limit best pairs of t, ranked by value per ord. Each
// partition keeps its own bounded queue of survivors, the constant staging
// key funnels every partition's survivors into a single grouping context,
// and a rebuild of the same queue selects globally. The result therefore
// holds min(limit, len(t)) pairs regardless of how t is partitioned, in rank
// order, best first. maximize selects whether ord's greatest or least values
// rank best; rank ties prefer the earlier arrival.
func Top[K comparable, V any](t riffle.Table[K, V], limit int, maximize bool, ord riffle.Ordering[V]) (riffle.Table[K, V], error) {
	if ord == nil {
		return riffle.Table[K, V]{}, errors.UnsupportedTypeError{Operation: "top"}
	}
	if limit <= 0 {
		return riffle.Table[K, V]{}, errors.InvalidArgumentError{Reason: "top limit must be positive"}
	}
	rank := pairRank[K](valueRank(maximize, ord))
	staged, err := riffle.ParallelDoTable(t, fmt.Sprintf("top%d", limit), func() riffle.DoFn[riffle.Pair[K, V], riffle.Pair[int, riffle.Pair[K, V]]] {
		return &topFn[K, V]{limit: limit, rank: rank}
	})
	if err != nil {
		return riffle.Table[K, V]{}, err
	}
	grouped, err := staged.GroupByKey(1)
	if err != nil {
		return riffle.Table[K, V]{}, err
	}
	combined, err := grouped.CombineValues(topCombineFn(limit, rank))
	if err != nil {
		return riffle.Table[K, V]{}, err
	}
	return riffle.ParallelDoTable(combined, "extract-top", riffle.Map(func(p riffle.Pair[int, riffle.Pair[K, V]]) (riffle.Pair[K, V], error) {
		return p.Value, nil
	}))
}

// TopPerKey derives, for each distinct key of t, the limit best of its values
// per ord, in rank order, best first. A key with fewer than limit values
// keeps them all. maximize selects whether ord's greatest or least values
// rank best; rank ties prefer the earlier arrival.
func TopPerKey[K comparable, V any](t riffle.Table[K, V], limit int, maximize bool, ord riffle.Ordering[V]) (riffle.Table[K, V], error) {
	if ord == nil {
		return riffle.Table[K, V]{}, errors.UnsupportedTypeError{Operation: "topPerKey"}
	}
	if limit <= 0 {
		return riffle.Table[K, V]{}, errors.InvalidArgumentError{Reason: "topPerKey limit must be positive"}
	}
	rank := valueRank(maximize, ord)
	staged, err := riffle.ParallelDoTable(t, fmt.Sprintf("topPerKey%d", limit), func() riffle.DoFn[riffle.Pair[K, V], riffle.Pair[K, V]] {
		return &topPerKeyFn[K, V]{limit: limit, rank: rank}
	})
	if err != nil {
		return riffle.Table[K, V]{}, err
	}
	grouped, err := staged.GroupByKey()
	if err != nil {
		return riffle.Table[K, V]{}, err
	}
	return grouped.CombineValues(func(key K, values riffle.ValueIterator[V], emit riffle.Emitter[V]) error {
		queue := bpq.CreateQueue(limit, rank)
		for values.HasNextValue() {
			v, err := values.NextValue()
			if err != nil {
				return err
			}
			queue.Offer(v)
		}
		for _, v := range queue.Drain() {
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// valueRank orients ord so that a positive result ranks a above b
func valueRank[V any](maximize bool, ord riffle.Ordering[V]) riffle.Ordering[V] {
	if maximize {
		return ord
	}
	return riffle.Reverse(ord)
}

// pairRank ranks pairs by value alone
func pairRank[K comparable, V any](rank riffle.Ordering[V]) func(a riffle.Pair[K, V], b riffle.Pair[K, V]) int {
	return func(a riffle.Pair[K, V], b riffle.Pair[K, V]) int {
		return rank(a.Value, b.Value)
	}
}

// topFn keeps the limit best pairs seen by one partition, releasing the
// survivors under the staging key on Cleanup
type topFn[K comparable, V any] struct {
	limit int
	rank  func(a riffle.Pair[K, V], b riffle.Pair[K, V]) int
	queue *bpq.Queue[riffle.Pair[K, V]]
}

func (f *topFn[K, V]) Initialize() error {
	f.queue = bpq.CreateQueue(f.limit, f.rank)
	return nil
}

func (f *topFn[K, V]) Process(el riffle.Pair[K, V], emit riffle.Emitter[riffle.Pair[int, riffle.Pair[K, V]]]) error {
	f.queue.Offer(el)
	return nil
}

func (f *topFn[K, V]) Cleanup(emit riffle.Emitter[riffle.Pair[int, riffle.Pair[K, V]]]) error {
	for _, p := range f.queue.Drain() {
		if err := emit(riffle.Pair[int, riffle.Pair[K, V]]{Key: soloKey, Value: p}); err != nil {
			return err
		}
	}
	return nil
}

// topPerKeyFn keeps the limit best values of each key seen by one partition,
// releasing every key's survivors under that key on Cleanup. Keys release in
// first-seen order, so value arrival order carries through to the tie-break.
type topPerKeyFn[K comparable, V any] struct {
	limit  int
	rank   riffle.Ordering[V]
	keys   []K
	queues map[K]*bpq.Queue[V]
}

func (f *topPerKeyFn[K, V]) Initialize() error {
	f.keys = nil
	f.queues = make(map[K]*bpq.Queue[V])
	return nil
}

func (f *topPerKeyFn[K, V]) Process(el riffle.Pair[K, V], emit riffle.Emitter[riffle.Pair[K, V]]) error {
	q, ok := f.queues[el.Key]
	if !ok {
		q = bpq.CreateQueue(f.limit, f.rank)
		f.queues[el.Key] = q
		f.keys = append(f.keys, el.Key)
	}
	q.Offer(el.Value)
	return nil
}

func (f *topPerKeyFn[K, V]) Cleanup(emit riffle.Emitter[riffle.Pair[K, V]]) error {
	for _, k := range f.keys {
		for _, v := range f.queues[k].Drain() {
			if err := emit(riffle.Pair[K, V]{Key: k, Value: v}); err != nil {
				return err
			}
		}
	}
	return nil
}

// topCombineFn rebuilds the bounded queue over every partition's survivors,
// then emits the selection in rank order, best first. Selection of the best
// limit elements is insensitive to sub-grouping, so the fold may run at any
// reduction level.
func topCombineFn[K comparable, V any](limit int, rank func(a riffle.Pair[K, V], b riffle.Pair[K, V]) int) riffle.CombineFn[int, riffle.Pair[K, V]] {
	return func(key int, values riffle.ValueIterator[riffle.Pair[K, V]], emit riffle.Emitter[riffle.Pair[K, V]]) error {
		queue := bpq.CreateQueue(limit, rank)
		for values.HasNextValue() {
			p, err := values.NextValue()
			if err != nil {
				return err
			}
			queue.Offer(p)
		}
		for _, p := range queue.Drain() {
			if err := emit(p); err != nil {
				return err
			}
		}
		return nil
	}
}
