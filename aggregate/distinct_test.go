package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	riffletest "github.com/go-riffle/riffle/testing"
)

func TestDistinctDropsDuplicates(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		col := riffletest.CreateCollection(t, eng, "a", "b", "a", "c", "a", "b")
		distinct, err := Distinct(col)
		require.Nil(t, err)
		els := riffletest.MaterializeSorted(context.Background(), t, distinct, func(a, b string) bool {
			return a < b
		})
		require.Equal(t, []string{"a", "b", "c"}, els)
	})
}

func TestDistinctKeepsUniqueElements(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		col := riffletest.CreateCollection(t, eng, 3, 1, 2)
		distinct, err := Distinct(col)
		require.Nil(t, err)
		els := riffletest.MaterializeSorted(context.Background(), t, distinct, func(a, b int) bool {
			return a < b
		})
		require.Equal(t, []int{1, 2, 3}, els)
	})
}

func TestDistinctEmptyCollection(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		empty := riffletest.CreateCollection[string](t, eng)
		distinct, err := Distinct(empty)
		require.Nil(t, err)
		els, err := distinct.Materialize(context.Background())
		require.Nil(t, err)
		require.Equal(t, 0, len(els))
	})
}
