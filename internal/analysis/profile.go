// Package analysis produces the descriptive profile of a customer table:
// per-column type inference, missingness, numeric statistics, and top
// category counts, with a compact markdown rendering for run reports.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/glowfin/churnscope-cli/internal/dataset"
)

// Report is a markdown-friendly profile of a Frame.
type Report struct {
	Name string
	Rows int
	Cols []ColumnSummary
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// maxTopValues bounds the per-column top-category listing.
const maxTopValues = 8

// Profile summarizes every column of the frame. A column counts as
// numeric when most of its non-empty cells parse as numbers, as
// categorical when its short values repeat, and as free text otherwise.
func Profile(name string, f *dataset.Frame) *Report {
	rep := &Report{Name: name, Rows: f.Rows()}
	for _, col := range f.Columns() {
		vals, _ := f.Column(col)
		rep.Cols = append(rep.Cols, summarize(col, vals))
	}
	return rep
}

func summarize(name string, vals []string) ColumnSummary {
	s := ColumnSummary{Name: name, Min: math.Inf(1), Max: math.Inf(-1)}
	var (
		numCnt int
		txtCnt int
		n      int
		mean   float64
		m2     float64
		cats   = make(map[string]int)
	)
	for _, raw := range vals {
		v := strings.TrimSpace(raw)
		if v == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			numCnt++
			n++
			if x < s.Min {
				s.Min = x
			}
			if x > s.Max {
				s.Max = x
			}
			// Welford update
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			continue
		}
		txtCnt++
		if len(v) <= 64 {
			cats[v]++
		}
	}

	switch {
	case numCnt > 0 && numCnt >= txtCnt:
		s.Kind = "numeric"
		s.Mean = mean
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
	case len(cats) > 0:
		s.Kind = "categorical"
		s.Unique = len(cats)
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > maxTopValues {
			tops = tops[:maxTopValues]
		}
		s.TopValues = tops
	default:
		s.Kind = "text"
	}
	if s.Kind != "numeric" {
		s.Min, s.Max = 0, 0
	}
	return s
}

// Markdown renders a compact profile suitable for terminals or docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "Source: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Rows: %d\n", r.Rows)
	fmt.Fprintf(&b, "Columns: %d\n\n", len(r.Cols))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		fmt.Fprintf(&b, "- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct)
		switch c.Kind {
		case "numeric":
			fmt.Fprintf(&b, " min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s(%d)", kv.Value, kv.Count)
				}
				if c.Unique > len(c.TopValues) {
					fmt.Fprintf(&b, "; unique=%d", c.Unique)
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
