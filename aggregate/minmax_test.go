package aggregate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	riffletest "github.com/go-riffle/riffle/testing"
)

func TestMinMaxAgainstDirectFold(t *testing.T) {
	nums := []int{42, -3, 17, 88, 0, 5, 88, -3, 21, 63, 7, 19}
	expectedMax, expectedMin := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n > expectedMax {
			expectedMax = n
		}
		if n < expectedMin {
			expectedMin = n
		}
	}
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		col := riffletest.CreateCollection(t, eng, nums...)
		max, err := Max(col, riffle.Natural[int]())
		require.Nil(t, err)
		gotMax, err := max.Value(context.Background())
		require.Nil(t, err)
		require.Equal(t, expectedMax, gotMax)

		min, err := Min(col, riffle.Natural[int]())
		require.Nil(t, err)
		gotMin, err := min.Value(context.Background())
		require.Nil(t, err)
		require.Equal(t, expectedMin, gotMin)
	})
}

func TestMinMaxSingleElement(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		col := riffletest.CreateCollection(t, eng, "solo")
		max, err := Max(col, riffle.Natural[string]())
		require.Nil(t, err)
		got, err := max.Value(context.Background())
		require.Nil(t, err)
		require.Equal(t, "solo", got)
	})
}

func TestMinMaxEmptyCollection(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		empty := riffletest.CreateCollection[int](t, eng)
		max, err := Max(empty, riffle.Natural[int]())
		require.Nil(t, err)
		_, err = max.Value(context.Background())
		require.NotNil(t, err)
		require.IsType(t, errors.EmptyAggregationError{}, err)
	})
}

func TestMinMaxNilOrdering(t *testing.T) {
	riffletest.RunOnEngines(t, func(t *testing.T, eng riffle.Engine) {
		col := riffletest.CreateCollection(t, eng, 1, 2)
		_, err := Max[int](col, nil)
		require.IsType(t, errors.UnsupportedTypeError{}, err)
		_, err = Min[int](col, nil)
		require.IsType(t, errors.UnsupportedTypeError{}, err)
	})
}
