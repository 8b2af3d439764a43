package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// scanRestarts is the per-candidate restart count used by the scans.
// Single-start Lloyd can land in a poor local optimum and make the WSS
// curve bump upward between adjacent k; best-of-restarts keeps the
// elbow curve non-increasing in practice.
const scanRestarts = 10

// WSSPoint is one entry of the elbow curve.
type WSSPoint struct {
	K   int
	WSS float64
}

// SilhouettePoint is one entry of the silhouette scan. Score is 0 for
// k=1, where the silhouette is undefined.
type SilhouettePoint struct {
	K     int
	Score float64
}

// WSSCurve fits k-means for every k in 1..maxK and records the total
// within-cluster sum of squares per k. The elbow itself is not detected:
// the curve is review material and the fitted k stays an operator choice.
// Candidate k uses seed+k so fits are independent but reproducible.
func WSSCurve(m *mat.Dense, maxK int, seed int64, maxIter int) ([]WSSPoint, error) {
	if err := validateScanArgs(m, maxK); err != nil {
		return nil, err
	}
	points := make([]WSSPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		km := NewKMeans(seed+int64(k), maxIter)
		km.Restarts = scanRestarts
		p, err := km.Fit(m, k)
		if err != nil {
			return nil, fmt.Errorf("elbow scan k=%d: %w", k, err)
		}
		points = append(points, WSSPoint{K: k, WSS: p.WSS})
	}
	return points, nil
}

// SilhouetteCurve computes the mean silhouette score for every k in
// 1..maxK using the same seeded fits as the elbow scan.
func SilhouetteCurve(m *mat.Dense, maxK int, seed int64, maxIter int) ([]SilhouettePoint, error) {
	if err := validateScanArgs(m, maxK); err != nil {
		return nil, err
	}
	points := make([]SilhouettePoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		if k == 1 {
			points = append(points, SilhouettePoint{K: 1, Score: 0})
			continue
		}
		km := NewKMeans(seed+int64(k), maxIter)
		km.Restarts = scanRestarts
		p, err := km.Fit(m, k)
		if err != nil {
			return nil, fmt.Errorf("silhouette scan k=%d: %w", k, err)
		}
		points = append(points, SilhouettePoint{K: k, Score: MeanSilhouette(m, p.Labels, k)})
	}
	return points, nil
}

// BestSilhouette returns the k (>= 2) with the highest mean silhouette.
// It may disagree with the visual elbow; the two signals are deliberately
// left unreconciled.
func BestSilhouette(points []SilhouettePoint) int {
	best, bestScore := 0, math.Inf(-1)
	for _, p := range points {
		if p.K < 2 {
			continue
		}
		if p.Score > bestScore {
			best, bestScore = p.K, p.Score
		}
	}
	return best
}

// MeanSilhouette averages the per-point silhouette s(i) = (b-a)/max(a,b)
// over all rows, where a is the mean distance to the point's own cluster
// and b the smallest mean distance to any other cluster. Points in
// singleton clusters score 0.
func MeanSilhouette(m *mat.Dense, labels []int, k int) float64 {
	n, _ := m.Dims()
	if n == 0 || k < 2 {
		return 0
	}
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	total := 0.0
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		for c := range sums {
			sums[c] = 0
		}
		row := m.RawRowView(i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			sums[labels[j]] += floats.Distance(row, m.RawRowView(j), 2)
		}
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if mean := sums[c] / float64(sizes[c]); mean < b {
				b = mean
			}
		}
		if denom := math.Max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}

func validateScanArgs(m *mat.Dense, maxK int) error {
	if err := validateFitArgs(m, maxK); err != nil {
		return err
	}
	if distinct := distinctRows(m); distinct < maxK {
		return &DegenerateInputError{
			Reason: fmt.Sprintf("scan ceiling %d exceeds %d distinct rows", maxK, distinct),
		}
	}
	return nil
}
