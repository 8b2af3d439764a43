package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSSCurveNonIncreasing(t *testing.T) {
	m := threeBlobs()
	points, err := WSSCurve(m, 5, 11, 100)
	require.NoError(t, err)
	require.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, i+1, p.K)
	}
	for i := 1; i < len(points); i++ {
		assert.LessOrEqualf(t, points[i].WSS, points[i-1].WSS,
			"WSS rose from k=%d to k=%d", points[i-1].K, points[i].K)
	}
}

func TestWSSCurveDeterministic(t *testing.T) {
	m := threeBlobs()
	a, err := WSSCurve(m, 4, 11, 100)
	require.NoError(t, err)
	b, err := WSSCurve(m, 4, 11, 100)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWSSCurveRejectsExcessiveCeiling(t *testing.T) {
	m := threeBlobs() // 12 rows, all distinct
	_, err := WSSCurve(m, 13, 11, 100)
	require.Error(t, err)
	var die *DegenerateInputError
	require.ErrorAs(t, err, &die)
}

func TestSilhouetteCurve(t *testing.T) {
	m := threeBlobs()
	points, err := SilhouetteCurve(m, 5, 11, 100)
	require.NoError(t, err)
	require.Len(t, points, 5)

	assert.Equal(t, 0.0, points[0].Score, "silhouette undefined at k=1, recorded as 0")
	for _, p := range points[1:] {
		assert.GreaterOrEqual(t, p.Score, -1.0)
		assert.LessOrEqual(t, p.Score, 1.0)
	}
	// Three tight, well-separated blobs: k=3 must win.
	assert.Equal(t, 3, BestSilhouette(points))
}

func TestMeanSilhouettePerfectSplit(t *testing.T) {
	m := threeBlobs()
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2}
	score := MeanSilhouette(m, labels, 3)
	assert.Greater(t, score, 0.9, "tight separated blobs should score near 1")
}
