package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeans is a seeded Lloyd's-algorithm engine. The same seed over the
// same input always reproduces the same assignment vector.
type KMeans struct {
	Seed     int64
	MaxIter  int
	Restarts int
}

// NewKMeans returns a k-means engine with a single restart.
func NewKMeans(seed int64, maxIter int) *KMeans {
	if maxIter <= 0 {
		maxIter = 100
	}
	return &KMeans{Seed: seed, MaxIter: maxIter, Restarts: 1}
}

func (km *KMeans) Name() string { return "kmeans" }

// Fit runs Lloyd iterations to an assignment fixpoint (or MaxIter) from
// randomly chosen distinct initial centroids. With Restarts > 1 the fit
// with the lowest total within-cluster sum of squares wins; restart r
// draws from a generator seeded with Seed+r so runs stay reproducible.
func (km *KMeans) Fit(m *mat.Dense, k int) (*Partition, error) {
	if err := validateFitArgs(m, k); err != nil {
		return nil, err
	}
	if distinct := distinctRows(m); distinct < k {
		return nil, &DegenerateInputError{
			Reason: fmt.Sprintf("cannot fit %d clusters over %d distinct rows", k, distinct),
		}
	}
	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	var best *Partition
	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewSource(km.Seed + int64(r)))
		p := km.fitOnce(m, k, rng)
		if best == nil || p.WSS < best.WSS {
			best = p
		}
	}
	return best, nil
}

func (km *KMeans) fitOnce(m *mat.Dense, k int, rng *rand.Rand) *Partition {
	n, d := m.Dims()
	centroids := initialCentroids(m, k, rng)
	labels := make([]int, n)
	prev := make([]int, n)

	for iter := 0; iter < km.MaxIter; iter++ {
		copy(prev, labels)
		assign(m, centroids, labels)
		recompute(m, centroids, labels, k, rng)
		if iter > 0 && equalLabels(labels, prev) {
			break
		}
	}

	wss := 0.0
	for i := 0; i < n; i++ {
		dist := floats.Distance(m.RawRowView(i), centroids.RawRowView(labels[i]), 2)
		wss += dist * dist
	}
	out := mat.NewDense(k, d, nil)
	out.Copy(centroids)
	return &Partition{Labels: labels, K: k, Centroids: out, WSS: wss}
}

// initialCentroids samples k distinct rows as starting centroids.
// Sampling is over distinct row values, not indices, so duplicated rows
// cannot collapse two centroids onto the same point.
func initialCentroids(m *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := m.Dims()
	var reps []int
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := rowKey(m.RawRowView(i))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		reps = append(reps, i)
	}
	perm := rng.Perm(len(reps))
	centroids := mat.NewDense(k, d, nil)
	for c := 0; c < k; c++ {
		centroids.SetRow(c, m.RawRowView(reps[perm[c]]))
	}
	return centroids
}

// assign labels every row with its nearest centroid. Ties break toward
// the lowest centroid index so assignment is deterministic.
func assign(m, centroids *mat.Dense, labels []int) {
	n, _ := m.Dims()
	k, _ := centroids.Dims()
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		bestDist := math.Inf(1)
		best := 0
		for c := 0; c < k; c++ {
			dist := floats.Distance(row, centroids.RawRowView(c), 2)
			if dist < bestDist {
				bestDist = dist
				best = c
			}
		}
		labels[i] = best
	}
}

// recompute replaces each centroid with the mean of its assigned rows.
// An emptied cluster is reseeded to the row farthest from its current
// centroid, which keeps k live clusters without introducing randomness
// beyond the shared generator.
func recompute(m, centroids *mat.Dense, labels []int, k int, rng *rand.Rand) {
	n, d := m.Dims()
	counts := make([]int, k)
	sums := mat.NewDense(k, d, nil)
	for i := 0; i < n; i++ {
		counts[labels[i]]++
		row := m.RawRowView(i)
		acc := sums.RawRowView(labels[i])
		floats.Add(acc, row)
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			centroids.SetRow(c, m.RawRowView(farthestRow(m, centroids, rng)))
			continue
		}
		mean := sums.RawRowView(c)
		floats.Scale(1/float64(counts[c]), mean)
		centroids.SetRow(c, mean)
	}
}

func farthestRow(m, centroids *mat.Dense, rng *rand.Rand) int {
	n, _ := m.Dims()
	k, _ := centroids.Dims()
	best := rng.Intn(n)
	bestDist := -1.0
	for i := 0; i < n; i++ {
		row := m.RawRowView(i)
		nearest := math.Inf(1)
		for c := 0; c < k; c++ {
			if dist := floats.Distance(row, centroids.RawRowView(c), 2); dist < nearest {
				nearest = dist
			}
		}
		if nearest > bestDist {
			bestDist = nearest
			best = i
		}
	}
	return best
}

func equalLabels(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
