package local

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitElementsProducesContiguousChunks(t *testing.T) {
	parts := splitElements([]interface{}{1, 2, 3, 4, 5, 6}, 3)
	require.Equal(t, 3, len(parts))
	require.Equal(t, []interface{}{1, 2}, parts[0].elems)
	require.Equal(t, []interface{}{3, 4}, parts[1].elems)
	require.Equal(t, []interface{}{5, 6}, parts[2].elems)
}

func TestSplitElementsUnevenInput(t *testing.T) {
	parts := splitElements([]interface{}{1, 2, 3, 4, 5}, 4)
	var rejoined []interface{}
	for _, p := range parts {
		rejoined = append(rejoined, p.elems...)
	}
	require.Equal(t, []interface{}{1, 2, 3, 4, 5}, rejoined)
	for _, p := range parts {
		require.True(t, len(p.elems) > 0)
	}
}

func TestSplitElementsEmptyInputKeepsOnePartition(t *testing.T) {
	parts := splitElements(nil, 4)
	require.Equal(t, 1, len(parts))
	require.Equal(t, 0, len(parts[0].elems))
}

func TestSplitElementsFloorsPartitionCount(t *testing.T) {
	parts := splitElements([]interface{}{1, 2}, 0)
	require.Equal(t, 1, len(parts))
	require.Equal(t, []interface{}{1, 2}, parts[0].elems)
}
