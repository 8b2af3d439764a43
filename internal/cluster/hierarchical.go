package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linkage selects the merge criterion for hierarchical clustering.
type Linkage int

const (
	// WardLinkage merges the pair of clusters whose union gives the
	// smallest increase in total within-cluster variance.
	WardLinkage Linkage = iota
)

// ParseLinkage maps a configuration string onto a Linkage.
func ParseLinkage(s string) (Linkage, error) {
	switch s {
	case "ward", "Ward", "":
		return WardLinkage, nil
	default:
		return 0, fmt.Errorf("unsupported linkage %q (supported: ward)", s)
	}
}

func (l Linkage) String() string {
	switch l {
	case WardLinkage:
		return "ward"
	default:
		return fmt.Sprintf("Linkage(%d)", int(l))
	}
}

// Merge records one agglomeration step. Left and Right index either
// original rows (0..n-1) or earlier merges (n+i for Merges[i]).
type Merge struct {
	Left   int
	Right  int
	Height float64
	Size   int
}

// Dendrogram is the complete merge tree over n observations: exactly
// n-1 merges in non-decreasing height order for Ward linkage.
type Dendrogram struct {
	N      int
	Merges []Merge
}

// Hierarchical is an agglomerative clustering engine. It has no random
// state: identical input and linkage always produce the identical merge
// order (ties break toward the lowest cluster index pair).
type Hierarchical struct {
	Linkage Linkage
}

// NewHierarchical returns an agglomerative engine with the given linkage.
func NewHierarchical(l Linkage) *Hierarchical {
	return &Hierarchical{Linkage: l}
}

func (h *Hierarchical) Name() string { return "hierarchical-" + h.Linkage.String() }

// Fit builds the full dendrogram and cuts it at k clusters. WSS is the
// sum of squared distances to the resulting group means, so partitions
// are comparable with k-means fits over the same matrix.
func (h *Hierarchical) Fit(m *mat.Dense, k int) (*Partition, error) {
	dend, err := h.Dendrogram(m)
	if err != nil {
		return nil, err
	}
	labels, err := dend.Cut(k)
	if err != nil {
		return nil, err
	}
	return &Partition{Labels: labels, K: k, WSS: partitionWSS(m, labels, k)}, nil
}

// Dendrogram builds the complete merge tree using the Lance-Williams
// update for Ward linkage over squared Euclidean distances.
func (h *Hierarchical) Dendrogram(m *mat.Dense) (*Dendrogram, error) {
	if h.Linkage != WardLinkage {
		return nil, fmt.Errorf("unsupported linkage %v", h.Linkage)
	}
	n, d := m.Dims()
	if n == 0 || d == 0 {
		return nil, &DegenerateInputError{Reason: "empty feature matrix"}
	}

	// Squared pairwise distances between live clusters. node[i] is the
	// dendrogram id currently held by slot i, size[i] its member count.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dv := floats.Distance(m.RawRowView(i), m.RawRowView(j), 2)
			dist[i][j] = dv * dv
			dist[j][i] = dv * dv
		}
	}
	node := make([]int, n)
	size := make([]float64, n)
	alive := make([]bool, n)
	for i := range node {
		node[i] = i
		size[i] = 1
		alive[i] = true
	}

	dend := &Dendrogram{N: n, Merges: make([]Merge, 0, n-1)}
	for step := 0; step < n-1; step++ {
		// Find the closest live pair; lowest (i,j) wins ties so the
		// merge order is stable across runs.
		bi, bj, bd := -1, -1, math.Inf(1)
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !alive[j] {
					continue
				}
				if dist[i][j] < bd {
					bi, bj, bd = i, j, dist[i][j]
				}
			}
		}
		ni, nj := size[bi], size[bj]
		dend.Merges = append(dend.Merges, Merge{
			Left:   node[bi],
			Right:  node[bj],
			Height: math.Sqrt(bd),
			Size:   int(ni + nj),
		})

		// Lance-Williams Ward update against every other live cluster;
		// the merged cluster takes slot bi, slot bj dies.
		for t := 0; t < n; t++ {
			if !alive[t] || t == bi || t == bj {
				continue
			}
			nt := size[t]
			upd := ((ni+nt)*dist[bi][t] + (nj+nt)*dist[bj][t] - nt*bd) / (ni + nj + nt)
			dist[bi][t] = upd
			dist[t][bi] = upd
		}
		node[bi] = n + step
		size[bi] = ni + nj
		alive[bj] = false
	}
	return dend, nil
}

// Cut partitions the tree into exactly k groups by withholding the last
// k-1 merges. Labels are 0-based and numbered by first row occurrence,
// so the same tree always cuts to the same label vector.
func (dend *Dendrogram) Cut(k int) ([]int, error) {
	n := dend.N
	if k < 1 || k > n {
		return nil, &DegenerateInputError{Reason: fmt.Sprintf("cannot cut %d observations into %d clusters", n, k)}
	}
	// Union-find over rows; applying the first n-k merges leaves k trees.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	// leaf returns any original row inside dendrogram node id.
	leaf := func(id int) int {
		for id >= n {
			id = dend.Merges[id-n].Left
		}
		return id
	}
	for step := 0; step < n-k; step++ {
		a := find(leaf(dend.Merges[step].Left))
		b := find(leaf(dend.Merges[step].Right))
		parent[b] = a
	}

	labels := make([]int, n)
	next := 0
	roots := make(map[int]int, k)
	for i := 0; i < n; i++ {
		r := find(i)
		l, ok := roots[r]
		if !ok {
			l = next
			roots[r] = l
			next++
		}
		labels[i] = l
	}
	if next != k {
		return nil, fmt.Errorf("internal: cut produced %d groups, expected %d", next, k)
	}
	return labels, nil
}

// partitionWSS sums squared distances from each row to its group mean.
func partitionWSS(m *mat.Dense, labels []int, k int) float64 {
	n, d := m.Dims()
	counts := make([]int, k)
	means := mat.NewDense(k, d, nil)
	for i := 0; i < n; i++ {
		counts[labels[i]]++
		floats.Add(means.RawRowView(labels[i]), m.RawRowView(i))
	}
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), means.RawRowView(c))
		}
	}
	wss := 0.0
	for i := 0; i < n; i++ {
		dv := floats.Distance(m.RawRowView(i), means.RawRowView(labels[i]), 2)
		wss += dv * dv
	}
	return wss
}
