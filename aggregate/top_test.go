package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	riffletest "github.com/go-riffle/riffle/testing"
)

func TestTopSelectsGlobalBest(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("a", 5),
			riffle.CreatePair("b", 2),
			riffle.CreatePair("c", 9),
			riffle.CreatePair("d", 7),
		)
		top, err := Top(tab, 3, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs, err := top.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "c", Value: 9},
			{Key: "d", Value: 7},
			{Key: "a", Value: 5},
		}, pairs)
	})
}

func TestTopKeepsEverythingUnderLimit(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("a", 1),
			riffle.CreatePair("b", 3),
		)
		top, err := Top(tab, 10, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs, err := top.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "b", Value: 3},
			{Key: "a", Value: 1},
		}, pairs)
	})
}

func TestTopMinimizeSelectsLeast(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("a", 5),
			riffle.CreatePair("b", 2),
			riffle.CreatePair("c", 9),
		)
		bottom, err := Top(tab, 2, false, riffle.Natural[int]())
		require.Nil(t, err)
		pairs, err := bottom.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "b", Value: 2},
			{Key: "a", Value: 5},
		}, pairs)
	})
}

func TestTopRankTies(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("a", 5),
			riffle.CreatePair("b", 5),
			riffle.CreatePair("c", 5),
		)
		top, err := Top(tab, 2, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs, err := top.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, 2, len(pairs))
		seen := map[string]bool{}
		for _, p := range pairs {
			require.Equal(t, 5, p.Value)
			require.False(t, seen[p.Key])
			seen[p.Key] = true
		}
	})
}

func TestTopPerKeySelectsWithinEachKey(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("x", 5),
			riffle.CreatePair("y", 2),
			riffle.CreatePair("x", 1),
			riffle.CreatePair("x", 9),
			riffle.CreatePair("y", 8),
			riffle.CreatePair("x", 7),
		)
		top, err := TopPerKey(tab, 2, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs := riffletest.MaterializeTableSorted(context.Background(), t, top, func(a, b riffle.Pair[string, int]) bool {
			return a.Key < b.Key
		})
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "x", Value: 9},
			{Key: "x", Value: 7},
			{Key: "y", Value: 8},
			{Key: "y", Value: 2},
		}, pairs)
	})
}

func TestTopPerKeyKeepsShortKeysWhole(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng,
			riffle.CreatePair("x", 4),
			riffle.CreatePair("y", 6),
		)
		top, err := TopPerKey(tab, 3, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs := riffletest.MaterializeTableSorted(context.Background(), t, top, func(a, b riffle.Pair[string, int]) bool {
			return a.Key < b.Key
		})
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "x", Value: 4},
			{Key: "y", Value: 6},
		}, pairs)
	})
}

func TestTopNilOrdering(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng, riffle.CreatePair("a", 1))
		_, err := Top[string, int](tab, 3, true, nil)
		require.IsType(t, errors.UnsupportedTypeError{}, err)
		_, err = TopPerKey[string, int](tab, 3, true, nil)
		require.IsType(t, errors.UnsupportedTypeError{}, err)
	})
}

func TestTopNonPositiveLimit(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		tab := riffletest.CreateTable(t, eng, riffle.CreatePair("a", 1))
		_, err := Top(tab, 0, true, riffle.Natural[int]())
		require.IsType(t, errors.InvalidArgumentError{}, err)
		_, err = TopPerKey(tab, -4, true, riffle.Natural[int]())
		require.IsType(t, errors.InvalidArgumentError{}, err)
	})
}

func TestTopPerKeyEvictsWithinEachPartition(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		var input []riffle.Pair[string, int]
		for i := 0; i < 20; i++ {
			input = append(input, riffle.CreatePair("x", i), riffle.CreatePair("y", 100-i))
		}
		tab := riffletest.CreateTable(t, eng, input...)
		top, err := TopPerKey(tab, 3, true, riffle.Natural[int]())
		require.Nil(t, err)
		pairs := riffletest.MaterializeTableSorted(context.Background(), t, top, func(a, b riffle.Pair[string, int]) bool {
			return a.Key < b.Key
		})
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "x", Value: 19},
			{Key: "x", Value: 18},
			{Key: "x", Value: 17},
			{Key: "y", Value: 100},
			{Key: "y", Value: 99},
			{Key: "y", Value: 98},
		}, pairs)
	})
}

func TestTopRebuiltPipelineYieldsIdenticalOutput(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		run := func() []riffle.Pair[string, int] {
			tab := riffletest.CreateTable(t, eng,
				riffle.CreatePair("k1", 5),
				riffle.CreatePair("k1", 1),
				riffle.CreatePair("k1", 9),
				riffle.CreatePair("k1", 3),
			)
			top, err := Top(tab, 2, true, riffle.Natural[int]())
			require.Nil(t, err)
			pairs, err := top.Materialize(context.Background())
			require.Nil(t, err)
			return pairs
		}
		first := run()
		second := run()
		require.Equal(t, []riffle.Pair[string, int]{
			{Key: "k1", Value: 9},
			{Key: "k1", Value: 5},
		}, first)
		require.Equal(t, first, second)
	})
}
