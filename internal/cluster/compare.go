package cluster

import (
	"fmt"
	"sort"
	"strings"
)

// ContingencyTable counts label co-occurrence between two clusterings of
// the same rows. It is purely descriptive: cluster indices are arbitrary
// per method, and no alignment between the two labelings is computed.
type ContingencyTable struct {
	RowName   string
	ColName   string
	RowLabels []string
	ColLabels []string
	Counts    [][]int
}

// CrossTab tabulates how often each label of a co-occurs with each label
// of b. Both slices must cover the same rows in the same order.
func CrossTab(rowName string, a []string, colName string, b []string) (*ContingencyTable, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("crosstab: label lengths differ (%d vs %d)", len(a), len(b))
	}
	rows := uniqueSorted(a)
	cols := uniqueSorted(b)
	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)
	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}
	for i := range a {
		counts[rowIdx[a[i]]][colIdx[b[i]]]++
	}
	return &ContingencyTable{
		RowName:   rowName,
		ColName:   colName,
		RowLabels: rows,
		ColLabels: cols,
		Counts:    counts,
	}, nil
}

// RowTotals returns per-row sums, i.e. the cluster sizes of the row method.
func (t *ContingencyTable) RowTotals() []int {
	totals := make([]int, len(t.RowLabels))
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns per-column sums, i.e. the cluster sizes of the column method.
func (t *ContingencyTable) ColTotals() []int {
	totals := make([]int, len(t.ColLabels))
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// String renders an aligned text table, rows by RowName labels, columns
// by ColName labels.
func (t *ContingencyTable) String() string {
	width := len(t.RowName)
	for _, l := range t.RowLabels {
		if len(l) > width {
			width = len(l)
		}
	}
	cw := make([]int, len(t.ColLabels))
	for j, l := range t.ColLabels {
		cw[j] = len(l)
		for i := range t.RowLabels {
			if n := len(fmt.Sprint(t.Counts[i][j])); n > cw[j] {
				cw[j] = n
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s \\ %s\n", t.RowName, t.ColName)
	fmt.Fprintf(&b, "%-*s", width, "")
	for j, l := range t.ColLabels {
		fmt.Fprintf(&b, "  %*s", cw[j], l)
	}
	b.WriteString("\n")
	for i, l := range t.RowLabels {
		fmt.Fprintf(&b, "%-*s", width, l)
		for j := range t.ColLabels {
			fmt.Fprintf(&b, "  %*d", cw[j], t.Counts[i][j])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func uniqueSorted(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	var out []string
	for _, v := range vals {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func indexOf(vals []string) map[string]int {
	idx := make(map[string]int, len(vals))
	for i, v := range vals {
		idx[v] = i
	}
	return idx
}
