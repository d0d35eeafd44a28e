package riffle_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
	"github.com/go-riffle/riffle/mem"
)

func TestFilterKeepsMatchingElements(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1, 2, 3, 4, 5, 6)
	evens, err := col.Filter("evens", func(el int) (bool, error) {
		return el%2 == 0, nil
	})
	require.Nil(t, err)
	els, err := evens.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []int{2, 4, 6}, els)
}

func TestFilterPropagatesErrors(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1, 2, 3)
	_, err := col.Filter("fussy", func(el int) (bool, error) {
		if el == 2 {
			return false, fmt.Errorf("cannot decide on %d", el)
		}
		return true, nil
	})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "fussy")
	require.Contains(t, err.Error(), "cannot decide on 2")
}

func TestSampleIsDeterministicForSeed(t *testing.T) {
	eng := mem.CreateEngine()
	var elems []int
	for i := 0; i < 200; i++ {
		elems = append(elems, i)
	}
	col := mem.CreateCollection(eng, elems...)
	first, err := col.Sample(0.5, 42)
	require.Nil(t, err)
	second, err := col.Sample(0.5, 42)
	require.Nil(t, err)
	firstEls, err := first.Materialize(context.Background())
	require.Nil(t, err)
	secondEls, err := second.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, firstEls, secondEls)
	require.True(t, len(firstEls) > 0)
	require.True(t, len(firstEls) < len(elems))
}

func TestSampleKeepsAllAtFullProbability(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1, 2, 3)
	all, err := col.Sample(1, 7)
	require.Nil(t, err)
	els, err := all.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []int{1, 2, 3}, els)
}

func TestSampleRejectsInvalidProbability(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1)
	_, err := col.Sample(0, 7)
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = col.Sample(1.2, 7)
	require.IsType(t, errors.InvalidArgumentError{}, err)
}

func TestByKeysElements(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, "ant", "bee", "cow", "asp")
	byInitial, err := riffle.By(col, "by-initial", func(el string) (byte, error) {
		return el[0], nil
	})
	require.Nil(t, err)
	pairs, err := byInitial.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []riffle.Pair[byte, string]{
		{Key: 'a', Value: "ant"},
		{Key: 'b', Value: "bee"},
		{Key: 'c', Value: "cow"},
		{Key: 'a', Value: "asp"},
	}, pairs)
}

func TestKeysPreservesMultiplicity(t *testing.T) {
	eng := mem.CreateEngine()
	tab := mem.CreateTable(eng,
		riffle.CreatePair("x", 1),
		riffle.CreatePair("y", 2),
		riffle.CreatePair("x", 3),
	)
	keys, err := riffle.Keys(tab)
	require.Nil(t, err)
	els, err := keys.Materialize(context.Background())
	require.Nil(t, err)
	require.Equal(t, []string{"x", "y", "x"}, els)
}

func TestZeroCollectionRejectsOperations(t *testing.T) {
	var col riffle.Collection[int]
	_, err := col.Filter("f", func(el int) (bool, error) { return true, nil })
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = col.Union()
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = col.Sample(0.5, 1)
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = col.Materialize(context.Background())
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = riffle.ParallelDo(col, "p", riffle.Map(func(el int) (int, error) { return el, nil }))
	require.IsType(t, errors.InvalidArgumentError{}, err)
}

func TestZeroTableRejectsOperations(t *testing.T) {
	var tab riffle.Table[string, int]
	_, err := tab.GroupByKey()
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = tab.Values()
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = tab.Materialize(context.Background())
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = riffle.Keys(tab)
	require.IsType(t, errors.InvalidArgumentError{}, err)

	var grouped riffle.GroupedTable[string, int]
	_, err = grouped.CombineValues(func(key string, values riffle.ValueIterator[int], emit riffle.Emitter[int]) error {
		return nil
	})
	require.IsType(t, errors.InvalidArgumentError{}, err)
}

func TestNilFunctionsRejected(t *testing.T) {
	eng := mem.CreateEngine()
	col := mem.CreateCollection(eng, 1)
	_, err := col.Filter("f", nil)
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = riffle.ParallelDo[int, int](col, "p", nil)
	require.IsType(t, errors.InvalidArgumentError{}, err)
	_, err = riffle.By[int, string](col, "b", nil)
	require.IsType(t, errors.InvalidArgumentError{}, err)

	tab := mem.CreateTable(eng, riffle.CreatePair("x", 1))
	grouped, err := tab.GroupByKey()
	require.Nil(t, err)
	_, err = grouped.CombineValues(nil)
	require.IsType(t, errors.InvalidArgumentError{}, err)
}
