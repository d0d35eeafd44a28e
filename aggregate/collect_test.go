package aggregate

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	riffletest "github.com/go-riffle/riffle/testing"
)

func TestCollectValuesGathersPerKey(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("x", 1),
			riffle.CreatePair("y", 2),
			riffle.CreatePair("x", 3),
		)
		collected, err := CollectValues(tab)
		require.Nil(t, err)
		pairs := riffletest.MaterializeTableSorted(context.Background(), t, collected, func(a, b riffle.Pair[string, []int]) bool {
			return a.Key < b.Key
		})
		require.Equal(t, []riffle.Pair[string, []int]{
			{Key: "x", Value: []int{1, 3}},
			{Key: "y", Value: []int{2}},
		}, pairs)
	})
}

func TestCollectValuesDetachesEachValue(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("x", []int{1}),
			riffle.CreatePair("x", []int{2}),
			riffle.CreatePair("y", []int{3}),
		)
		var detached int64
		collected, err := CollectValues(tab, func(v []int) []int {
			atomic.AddInt64(&detached, 1)
			cp := make([]int, len(v))
			copy(cp, v)
			return cp
		})
		require.Nil(t, err)
		pairs := riffletest.MaterializeTableSorted(context.Background(), t, collected, func(a, b riffle.Pair[string, [][]int]) bool {
			return a.Key < b.Key
		})
		require.Equal(t, []riffle.Pair[string, [][]int]{
			{Key: "x", Value: [][]int{{1}, {2}}},
			{Key: "y", Value: [][]int{{3}}},
		}, pairs)
		require.EqualValues(t, 3, atomic.LoadInt64(&detached))
	})
}

func TestCollectValuesEmptyTable(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable[string, int](t, eng)
		collected, err := CollectValues(tab)
		require.Nil(t, err)
		pairs, err := collected.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, 0, len(pairs))
	})
}
