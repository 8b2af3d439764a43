package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Standardize returns a copy of m with every column shifted to zero mean
// and scaled to unit variance (sample standard deviation, n-1 divisor).
// A zero-variance column is a degenerate input: distance-based clustering
// over it is meaningless and dividing by zero would poison every row.
func Standardize(m *mat.Dense) (*mat.Dense, error) {
	n, d := m.Dims()
	if n < 2 {
		return nil, &DegenerateInputError{Reason: fmt.Sprintf("need at least 2 rows to standardize, got %d", n)}
	}
	out := mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, m)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			return nil, &DegenerateInputError{Reason: fmt.Sprintf("feature column %d has zero variance", j)}
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, (col[i]-mean)/std)
		}
	}
	return out, nil
}
