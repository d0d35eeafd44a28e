package riffle_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/mem"
)

func TestMapTransformsEachElement(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, "a", "b", "c")
	upper, err := riffle.ParallelDo(col, "upper", riffle.Map(func(el string) (string, error) {
		return strings.ToUpper(el), nil
	}))
	require.Nil(t, err)
	els, err := upper.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"A", "B", "C"}, els)
}

func TestMapPropagatesErrors(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1, -2, 3)
	_, err := riffle.ParallelDo(col, "positive", riffle.Map(func(el int) (int, error) {
		if el < 0 {
			return 0, fmt.Errorf("negative element %d", el)
		}
		return el, nil
	}))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "negative element -2")
}

func TestFlatMapEmitsAnyNumberPerElement(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, "a b", "", "c")
	words, err := riffle.ParallelDo(col, "split", riffle.FlatMap(func(el string, emit riffle.Emitter[string]) error {
		for _, w := range strings.Fields(el) {
			if err := emit(w); err != nil {
				return err
			}
		}
		return nil
	}))
	require.Nil(t, err)
	els, err := words.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"a", "b", "c"}, els)
}

func TestMapPairsProducesTable(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, "ant", "bee")
	sized, err := riffle.ParallelDoToTable(col, "size", riffle.MapPairs(func(el string) (string, int, error) {
		return el, len(el), nil
	}))
	require.Nil(t, err)
	pairs, err := sized.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []riffle.Pair[string, int]{
		{Key: "ant", Value: 3},
		{Key: "bee", Value: 3},
	}, pairs)
}

func TestParallelDoTableRekeysPairs(t *testing.T) {
	eng := mem.CreateEngine()
	tab := mem.CreateTable(eng,
		riffle.CreatePair("x", 2),
		riffle.CreatePair("y", 3),
	)
	swapped, err := riffle.ParallelDoTable(tab, "swap", riffle.Map(func(p riffle.Pair[string, int]) (riffle.Pair[int, string], error) {
		return riffle.CreatePair(p.Value, p.Key), nil
	}))
	require.Nil(t, err)
	pairs, err := swapped.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []riffle.Pair[int, string]{
		{Key: 2, Value: "x"},
		{Key: 3, Value: "y"},
	}, pairs)
}
