package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(order []string, s string) int {
	for i, v := range order {
		if v == s {
			return i
		}
	}
	return -1
}

func TestSortRespectsEdges(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	edges := []Edge[string]{{"c", "a"}, {"a", "b"}, {"d", "b"}}

	order, err := Sort(nodes, edges)
	require.NoError(t, err)
	require.Len(t, order, 4)

	for _, e := range edges {
		assert.Less(t, indexOf(order, e.From), indexOf(order, e.To), "%v", e)
	}
}

func TestSortStableWithoutEdges(t *testing.T) {
	order, err := Sort([]int{3, 1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, order)
}

func TestSortIgnoresForeignAndDuplicateEdges(t *testing.T) {
	edges := []Edge[string]{{"x", "a"}, {"a", "b"}, {"a", "b"}}

	order, err := Sort([]string{"b", "a"}, edges)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestSortReportsCycle(t *testing.T) {
	nodes := []string{"a", "b", "c", "tail"}
	edges := []Edge[string]{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "tail"}}

	_, err := Sort(nodes, edges)
	require.Error(t, err)

	var ce *CycleError[string]
	require.ErrorAs(t, err, &ce)
	assert.NotEqual(t, "tail", ce.To, "downstream node must not be blamed")
	assert.Contains(t, []string{"a", "b", "c"}, ce.From)
	assert.Equal(t, 4, ce.Remaining)
}

func TestSortSelfEdge(t *testing.T) {
	_, err := Sort([]string{"a"}, []Edge[string]{{"a", "a"}})

	var ce *CycleError[string]
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a", ce.From)
	assert.Equal(t, "a", ce.To)
}
