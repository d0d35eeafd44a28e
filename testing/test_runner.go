package testing

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/local"
	"github.com/go-riffle/riffle/mem"
)

// EngineCase names one engine configuration of the cross-engine battery
type EngineCase struct {
	Name   string
	Create func(t *testing.T) riffle.Engine
}

// EngineCases produces the battery of engines a pipeline test should hold
// its results against: the eager reference executor, plus partitioned
// executors sweeping partition counts, worker limits and spill thresholds
func EngineCases() []EngineCase {
	return []EngineCase{
		{Name: "mem", Create: func(t *testing.T) riffle.Engine {
			return mem.CreateEngine()
		}},
		{Name: "local-1p-1w", Create: func(t *testing.T) riffle.Engine {
			return local.CreateEngine(&local.EngineOptions{Partitions: 1, Workers: 1})
		}},
		{Name: "local-2p", Create: func(t *testing.T) riffle.Engine {
			return local.CreateEngine(&local.EngineOptions{Partitions: 2, Workers: 2})
		}},
		{Name: "local-4p", Create: func(t *testing.T) riffle.Engine {
			return local.CreateEngine(&local.EngineOptions{Partitions: 4})
		}},
		{Name: "local-spill", Create: func(t *testing.T) riffle.Engine {
			return local.CreateEngine(&local.EngineOptions{
				Partitions:     3,
				SpillThreshold: 1,
				SpillDir:       t.TempDir(),
			})
		}},
	}
}

// RunOnEngines runs test against each engine of the battery as a subtest.
// Pipelines whose results hold on every configuration are insensitive to
// partitioning, scheduling and spilling.
func RunOnEngines(t *testing.T, test func(t *testing.T, eng riffle.Engine)) {
	for _, c := range EngineCases() {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			test(t, c.Create(t))
		})
	}
}

// CreateCollection produces a Collection of elems on whichever engine the
// battery supplied
func CreateCollection[T any](t *testing.T, eng riffle.Engine, elems ...T) riffle.Collection[T] {
	switch e := eng.(type) {
	case *mem.Engine:
		return mem.CreateCollection(e, elems...)
	case *local.Engine:
		return local.CreateCollection(e, elems...)
	default:
		t.Fatalf("no source constructor for engine type %T", eng)
		return riffle.Collection[T]{}
	}
}

// CreateTable produces a Table of pairs on whichever engine the battery
// supplied
func CreateTable[K comparable, V any](t *testing.T, eng riffle.Engine, pairs ...riffle.Pair[K, V]) riffle.Table[K, V] {
	switch e := eng.(type) {
	case *mem.Engine:
		return mem.CreateTable(e, pairs...)
	case *local.Engine:
		return local.CreateTable(e, pairs...)
	default:
		t.Fatalf("no source constructor for engine type %T", eng)
		return riffle.Table[K, V]{}
	}
}

// MaterializeSorted materializes c and stably sorts the elements with less,
// for order-insensitive comparison across engines
func MaterializeSorted[T any](ctx context.Context, t *testing.T, c riffle.Collection[T], less func(a, b T) bool) []T {
	res, err := c.Materialize(ctx)
	require.Nil(t, err)
	sort.SliceStable(res, func(i, j int) bool {
		return less(res[i], res[j])
	})
	return res
}

// MaterializeTableSorted materializes tab and stably sorts the pairs with
// less, for order-insensitive comparison across engines. A stable sort keyed
// on pair keys preserves each key's value emission order.
func MaterializeTableSorted[K comparable, V any](ctx context.Context, t *testing.T, tab riffle.Table[K, V], less func(a, b riffle.Pair[K, V]) bool) []riffle.Pair[K, V] {
	res, err := tab.Materialize(ctx)
	require.Nil(t, err)
	sort.SliceStable(res, func(i, j int) bool {
		return less(res[i], res[j])
	})
	return res
}
