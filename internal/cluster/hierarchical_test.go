package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// tenPoints returns 10 rows falling into three visually obvious groups:
// rows 0-3 near the origin, rows 4-6 near (10,10), rows 7-9 near (-10,10).
func tenPoints() *mat.Dense {
	data := []float64{
		0, 0, 0.3, 0.1, -0.2, 0.2, 0.1, -0.3,
		10, 10, 10.3, 9.8, 9.7, 10.2,
		-10, 10, -10.3, 10.2, -9.8, 9.7,
	}
	return mat.NewDense(10, 2, data)
}

func TestDendrogramShape(t *testing.T) {
	dend, err := NewHierarchical(WardLinkage).Dendrogram(tenPoints())
	require.NoError(t, err)
	assert.Equal(t, 10, dend.N)
	require.Len(t, dend.Merges, 9)

	// Ward is a monotone criterion: merge heights never decrease.
	for i := 1; i < len(dend.Merges); i++ {
		assert.GreaterOrEqual(t, dend.Merges[i].Height, dend.Merges[i-1].Height, "merge %d", i)
	}
	last := dend.Merges[len(dend.Merges)-1]
	assert.Equal(t, 10, last.Size)
}

func TestCutThreeGroups(t *testing.T) {
	dend, err := NewHierarchical(WardLinkage).Dendrogram(tenPoints())
	require.NoError(t, err)
	labels, err := dend.Cut(3)
	require.NoError(t, err)
	require.Len(t, labels, 10)

	// Exactly 3 non-empty, disjoint groups whose union is all rows.
	sizes := map[int]int{}
	for _, l := range labels {
		sizes[l]++
	}
	require.Len(t, sizes, 3)
	total := 0
	for _, n := range sizes {
		assert.Greater(t, n, 0)
		total += n
	}
	assert.Equal(t, 10, total)

	// The cut must recover the three constructed groups.
	groups := [][]int{{0, 1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	for gi, g := range groups {
		for _, i := range g[1:] {
			assert.Equalf(t, labels[g[0]], labels[i], "group %d split", gi)
		}
	}
	assert.NotEqual(t, labels[0], labels[4])
	assert.NotEqual(t, labels[4], labels[7])
}

func TestHierarchicalDeterministic(t *testing.T) {
	h := NewHierarchical(WardLinkage)
	a, err := h.Fit(tenPoints(), 3)
	require.NoError(t, err)
	b, err := h.Fit(tenPoints(), 3)
	require.NoError(t, err)
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.WSS, b.WSS)

	da, err := h.Dendrogram(tenPoints())
	require.NoError(t, err)
	db, err := h.Dendrogram(tenPoints())
	require.NoError(t, err)
	assert.Equal(t, da.Merges, db.Merges, "merge order must be identical run to run")
}

func TestCutBounds(t *testing.T) {
	dend, err := NewHierarchical(WardLinkage).Dendrogram(tenPoints())
	require.NoError(t, err)

	if _, err := dend.Cut(0); err == nil {
		t.Fatal("expected error for k=0")
	}
	if _, err := dend.Cut(11); err == nil {
		t.Fatal("expected error for k > n")
	}

	labels, err := dend.Cut(10)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, l := range labels {
		assert.False(t, seen[l], "k=n cut must give singleton clusters")
		seen[l] = true
	}

	labels, err = dend.Cut(1)
	require.NoError(t, err)
	for _, l := range labels {
		assert.Equal(t, 0, l)
	}
}

func TestParseLinkage(t *testing.T) {
	l, err := ParseLinkage("ward")
	require.NoError(t, err)
	assert.Equal(t, WardLinkage, l)
	_, err = ParseLinkage("complete")
	require.Error(t, err)
}
