package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossTab(t *testing.T) {
	km := []string{"1", "1", "2", "2", "3", "3"}
	hier := []string{"Cluster_1", "Cluster_1", "Cluster_2", "Cluster_3", "Cluster_3", "Cluster_3"}

	tab, err := CrossTab("KMeans_Cluster", km, "Hier_Cluster", hier)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, tab.RowLabels)
	assert.Equal(t, []string{"Cluster_1", "Cluster_2", "Cluster_3"}, tab.ColLabels)
	assert.Equal(t, [][]int{
		{2, 0, 0},
		{0, 1, 1},
		{0, 0, 2},
	}, tab.Counts)

	// Marginals equal the cluster sizes of each method.
	assert.Equal(t, []int{2, 2, 2}, tab.RowTotals())
	assert.Equal(t, []int{2, 1, 3}, tab.ColTotals())
}

func TestCrossTabLengthMismatch(t *testing.T) {
	_, err := CrossTab("a", []string{"1"}, "b", []string{"1", "2"})
	require.Error(t, err)
}

func TestContingencyTableString(t *testing.T) {
	tab, err := CrossTab("KM", []string{"1", "2"}, "H", []string{"Cluster_1", "Cluster_2"})
	require.NoError(t, err)
	out := tab.String()
	assert.True(t, strings.Contains(out, "KM \\ H"))
	assert.True(t, strings.Contains(out, "Cluster_1"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4, "title, header, two label rows")
}
