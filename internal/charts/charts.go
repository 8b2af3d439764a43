// Package charts renders the review visuals as standalone HTML files:
// profile charts (missingness, histograms, scatter), the elbow and
// silhouette selection curves, and the clustering comparison overlay.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/glowfin/churnscope-cli/internal/analysis"
	"github.com/glowfin/churnscope-cli/internal/cluster"
	"github.com/glowfin/churnscope-cli/internal/utils"
)

// Renderer is the subset of a go-echarts chart needed to persist it.
type Renderer interface {
	Render(w io.Writer) error
}

// hierarchical labels map onto point symbols in the comparison overlay;
// color stays keyed to the k-means label.
var overlaySymbols = []string{"circle", "rect", "triangle", "diamond", "pin", "arrow"}

// Elbow plots total within-cluster sum of squares against candidate k.
func Elbow(points []cluster.WSSPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Elbow curve", Subtitle: "total within-cluster sum of squares per k"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "k"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "WSS"}),
	)
	xs := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		xs[i] = strconv.Itoa(p.K)
		data[i] = opts.LineData{Value: p.WSS}
	}
	line.SetXAxis(xs).AddSeries("WSS", data)
	return line
}

// Silhouette plots the mean silhouette score against candidate k,
// starting at k=2 where the score is defined.
func Silhouette(points []cluster.SilhouettePoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Silhouette scores", Subtitle: "mean silhouette per k"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "k"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mean silhouette"}),
	)
	var xs []string
	var data []opts.LineData
	for _, p := range points {
		if p.K < 2 {
			continue
		}
		xs = append(xs, strconv.Itoa(p.K))
		data = append(data, opts.LineData{Value: p.Score})
	}
	line.SetXAxis(xs).AddSeries("silhouette", data)
	return line
}

// Missingness plots the missing-cell count per column.
func Missingness(rep *analysis.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Missing values per column"}),
	)
	xs := make([]string, len(rep.Cols))
	data := make([]opts.BarData, len(rep.Cols))
	for i, c := range rep.Cols {
		xs[i] = c.Name
		data[i] = opts.BarData{Value: c.Missing}
	}
	bar.SetXAxis(xs).AddSeries("missing", data)
	return bar
}

// CategoryBar plots value counts for one categorical column.
func CategoryBar(column string, counts []analysis.CategoryCount) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Distribution of " + column}),
	)
	xs := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		xs[i] = c.Value
		data[i] = opts.BarData{Value: c.Count}
	}
	bar.SetXAxis(xs).AddSeries(column, data)
	return bar
}

// Histogram bins values into equal-width buckets and plots the counts.
func Histogram(column string, values []float64, bins int) *charts.Bar {
	if bins <= 0 {
		bins = 20
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	for _, v := range values {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Histogram of " + column}),
	)
	xs := make([]string, bins)
	data := make([]opts.BarData, bins)
	for i := 0; i < bins; i++ {
		xs[i] = fmt.Sprintf("%.3g", lo+width*(float64(i)+0.5))
		data[i] = opts.BarData{Value: counts[i]}
	}
	bar.SetXAxis(xs).AddSeries(column, data)
	return bar
}

// ScatterByLabel draws one series per distinct label so every group gets
// its own color.
func ScatterByLabel(title, xName, yName string, x, y []float64, labels []string) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
	)
	series := make(map[string][]opts.ScatterData)
	for i := range x {
		series[labels[i]] = append(series[labels[i]], opts.ScatterData{
			Value:      []interface{}{x[i], y[i]},
			SymbolSize: 8,
		})
	}
	for _, name := range sortedKeys(series) {
		sc.AddSeries(name, series[name])
	}
	return sc
}

// Overlay encodes both clusterings in one scatter: series (color) per
// k-means label, point symbol per hierarchical label.
func Overlay(xName, yName string, x, y []float64, kmLabels, hierLabels []string) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "K-means vs hierarchical clusters", Subtitle: "color = k-means, symbol = hierarchical"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
	)
	symbolFor := make(map[string]string)
	for _, l := range uniqueSorted(hierLabels) {
		symbolFor[l] = overlaySymbols[len(symbolFor)%len(overlaySymbols)]
	}
	series := make(map[string][]opts.ScatterData)
	for i := range x {
		series[kmLabels[i]] = append(series[kmLabels[i]], opts.ScatterData{
			Value:      []interface{}{x[i], y[i]},
			Symbol:     symbolFor[hierLabels[i]],
			SymbolSize: 10,
		})
	}
	for _, name := range sortedKeys(series) {
		sc.AddSeries(name, series[name])
	}
	return sc
}

// WriteHTML renders the chart into dir/name and returns the full path.
func WriteHTML(dir, name string, r Renderer) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("chart dir: %w", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return "", fmt.Errorf("render chart %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write chart %s: %w", name, err)
	}
	return path, nil
}

func sortedKeys(m map[string][]opts.ScatterData) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
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
