// Package cluster provides the clustering engines (k-means and Ward
// hierarchical), feature standardization, and the model-selection and
// comparison helpers built on top of them. All numerics run over gonum
// dense matrices.
package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Engine partitions the rows of a feature matrix into k groups.
// Implementations must be deterministic for a fixed configuration and
// input: k-means is seeded, hierarchical clustering has no randomness.
type Engine interface {
	// Name identifies the algorithm in reports and chart titles.
	Name() string
	// Fit partitions m into k clusters, one label per row.
	Fit(m *mat.Dense, k int) (*Partition, error)
}

// Partition is the result of one fit: a 0-based cluster label per row.
// Centroids is nil for engines that do not produce centroids.
type Partition struct {
	Labels    []int
	K         int
	Centroids *mat.Dense
	WSS       float64
}

// Sizes returns the number of rows per cluster, indexed by label.
func (p *Partition) Sizes() []int {
	sizes := make([]int, p.K)
	for _, l := range p.Labels {
		sizes[l]++
	}
	return sizes
}

// DegenerateInputError reports input that cannot support the requested
// fit: fewer distinct rows than clusters, or a feature with no variance.
type DegenerateInputError struct {
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return "degenerate input: " + e.Reason
}

func validateFitArgs(m *mat.Dense, k int) error {
	n, d := m.Dims()
	if n == 0 || d == 0 {
		return &DegenerateInputError{Reason: "empty feature matrix"}
	}
	if k < 1 {
		return fmt.Errorf("cluster count must be positive, got %d", k)
	}
	return nil
}

// distinctRows counts unique rows of m. Used to reject fits where k
// exceeds the number of distinguishable points.
func distinctRows(m *mat.Dense) int {
	n, _ := m.Dims()
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[rowKey(m.RawRowView(i))] = struct{}{}
	}
	return len(seen)
}

func rowKey(row []float64) string {
	key := ""
	for _, v := range row {
		key += fmt.Sprintf("%x;", v)
	}
	return key
}
