// Package pipeline runs the segmentation batch: load, clean, profile,
// model selection, the two production fits, comparison, and export.
// Each stage takes the previous stage's frame and returns a new one, so
// a failed stage leaves nothing half-written.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/glowfin/churnscope-cli/internal/analysis"
	"github.com/glowfin/churnscope-cli/internal/charts"
	"github.com/glowfin/churnscope-cli/internal/cluster"
	"github.com/glowfin/churnscope-cli/internal/config"
	"github.com/glowfin/churnscope-cli/internal/dataset"
	"github.com/glowfin/churnscope-cli/internal/recode"
)

// Column names appended by the fitters.
const (
	ColKMeans = "KMeans_Cluster"
	ColHier   = "Hier_Cluster"
)

// Axes of the comparison overlay and the exploration scatter.
const (
	axisX = "Total_Trans_Amt"
	axisY = "Total_Trans_Ct"
)

// Result collects everything a run produced.
type Result struct {
	RunID      string
	Input      string
	Output     string
	Rows       int
	Report     *analysis.Report
	WSS        []cluster.WSSPoint
	Silhouette []cluster.SilhouettePoint
	SuggestedK int
	KMeans     *cluster.Partition
	Hier       *cluster.Partition
	CrossTab   *cluster.ContingencyTable
	ChartPaths []string
}

// Run executes the full pipeline over the input CSV.
func Run(cfg *config.Options, input string) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Input: input}

	frame, err := LoadClean(input)
	if err != nil {
		return nil, err
	}
	res.Rows = frame.Rows()

	res.Report = analysis.Profile(input, frame)
	if err := res.exploreCharts(cfg, frame); err != nil {
		return nil, err
	}

	feats, err := featureMatrix(frame, cfg.Features)
	if err != nil {
		return nil, err
	}

	if res.WSS, err = cluster.WSSCurve(feats, cfg.MaxK, cfg.Seed, cfg.MaxIter); err != nil {
		return nil, fmt.Errorf("cluster selection: %w", err)
	}
	if res.Silhouette, err = cluster.SilhouetteCurve(feats, cfg.MaxK, cfg.Seed, cfg.MaxIter); err != nil {
		return nil, fmt.Errorf("cluster selection: %w", err)
	}
	res.SuggestedK = cluster.BestSilhouette(res.Silhouette)
	if err := res.selectionCharts(cfg); err != nil {
		return nil, err
	}

	frame, err = res.fitKMeans(cfg, frame, feats)
	if err != nil {
		return nil, err
	}
	frame, err = res.fitHierarchical(cfg, frame, feats)
	if err != nil {
		return nil, err
	}

	if err := res.compare(cfg, frame); err != nil {
		return nil, err
	}

	// The exported table carries the k-means labels only; the
	// hierarchical labels stay a review artifact.
	export, err := dropColumn(frame, ColHier)
	if err != nil {
		return nil, err
	}
	res.Output = cfg.OutputPath(input)
	if err := export.WriteCSV(res.Output); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return res, nil
}

// LoadClean reads and recodes the input table.
func LoadClean(input string) (*dataset.Frame, error) {
	raw, err := dataset.ReadCSV(input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	frame, err := recode.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	return frame, nil
}

// featureMatrix projects and standardizes the clustering features.
func featureMatrix(frame *dataset.Frame, features []string) (*mat.Dense, error) {
	m, err := frame.Matrix(features...)
	if err != nil {
		return nil, fmt.Errorf("feature subset: %w", err)
	}
	std, err := cluster.Standardize(m)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}
	return std, nil
}

func (res *Result) fitKMeans(cfg *config.Options, frame *dataset.Frame, feats *mat.Dense) (*dataset.Frame, error) {
	km := cluster.NewKMeans(cfg.Seed, cfg.MaxIter)
	km.Restarts = cfg.Restarts
	p, err := km.Fit(feats, cfg.FinalK)
	if err != nil {
		return nil, fmt.Errorf("kmeans fit: %w", err)
	}
	res.KMeans = p
	labels := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		labels[i] = strconv.Itoa(l + 1)
	}
	out, err := frame.WithColumn(ColKMeans, labels)
	if err != nil {
		return nil, fmt.Errorf("kmeans fit: %w", err)
	}
	return out, nil
}

func (res *Result) fitHierarchical(cfg *config.Options, frame *dataset.Frame, feats *mat.Dense) (*dataset.Frame, error) {
	linkage, err := cluster.ParseLinkage(cfg.Linkage)
	if err != nil {
		return nil, err
	}
	h := cluster.NewHierarchical(linkage)
	p, err := h.Fit(feats, cfg.FinalK)
	if err != nil {
		return nil, fmt.Errorf("hierarchical fit: %w", err)
	}
	res.Hier = p
	labels := make([]string, len(p.Labels))
	for i, l := range p.Labels {
		labels[i] = fmt.Sprintf("Cluster_%d", l+1)
	}
	out, err := frame.WithColumn(ColHier, labels)
	if err != nil {
		return nil, fmt.Errorf("hierarchical fit: %w", err)
	}
	return out, nil
}

func (res *Result) compare(cfg *config.Options, frame *dataset.Frame) error {
	km, err := frame.Column(ColKMeans)
	if err != nil {
		return err
	}
	hier, err := frame.Column(ColHier)
	if err != nil {
		return err
	}
	res.CrossTab, err = cluster.CrossTab(ColKMeans, km, ColHier, hier)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	x, err := frame.Floats(axisX)
	if err != nil {
		return err
	}
	y, err := frame.Floats(axisY)
	if err != nil {
		return err
	}
	path, err := charts.WriteHTML(cfg.ChartsDir, "clusters_overlay.html",
		charts.Overlay(axisX, axisY, x, y, km, hier))
	if err != nil {
		return err
	}
	res.ChartPaths = append(res.ChartPaths, path)
	return nil
}

// exploreCharts renders the descriptive visuals: missingness, retention
// split, behavioral histograms, and the transaction scatter.
func (res *Result) exploreCharts(cfg *config.Options, frame *dataset.Frame) error {
	write := func(name string, r charts.Renderer) error {
		path, err := charts.WriteHTML(cfg.ChartsDir, name, r)
		if err != nil {
			return err
		}
		res.ChartPaths = append(res.ChartPaths, path)
		return nil
	}

	if err := write("missingness.html", charts.Missingness(res.Report)); err != nil {
		return err
	}
	for _, c := range res.Report.Cols {
		if c.Name == recode.ColAttrition && c.Kind == "categorical" {
			if err := write("retention.html", charts.CategoryBar(c.Name, c.TopValues)); err != nil {
				return err
			}
		}
	}
	for _, col := range []string{axisX, axisY, "Total_Revolving_Bal"} {
		if !frame.HasColumn(col) {
			continue
		}
		vals, err := frame.Floats(col)
		if err != nil {
			return err
		}
		name := "hist_" + strings.ToLower(col) + ".html"
		if err := write(name, charts.Histogram(col, vals, 20)); err != nil {
			return err
		}
	}
	x, err := frame.Floats(axisX)
	if err != nil {
		return err
	}
	y, err := frame.Floats(axisY)
	if err != nil {
		return err
	}
	retention, err := frame.Column(recode.ColAttrition)
	if err != nil {
		return err
	}
	return write("transactions.html",
		charts.ScatterByLabel("Transactions by retention", axisX, axisY, x, y, retention))
}

// selectionCharts renders the elbow and silhouette curves.
func (res *Result) selectionCharts(cfg *config.Options) error {
	for _, c := range []struct {
		name string
		r    charts.Renderer
	}{
		{"elbow.html", charts.Elbow(res.WSS)},
		{"silhouette.html", charts.Silhouette(res.Silhouette)},
	} {
		path, err := charts.WriteHTML(cfg.ChartsDir, c.name, c.r)
		if err != nil {
			return err
		}
		res.ChartPaths = append(res.ChartPaths, path)
	}
	return nil
}

func dropColumn(frame *dataset.Frame, name string) (*dataset.Frame, error) {
	idx, ok := frame.ColumnIndex(name)
	if !ok {
		return frame, nil
	}
	cols := frame.Columns()
	keep := append(cols[:idx:idx], cols[idx+1:]...)
	records := make([][]string, frame.Rows())
	for i := 0; i < frame.Rows(); i++ {
		rec := frame.Record(i)
		records[i] = append(rec[:idx:idx], rec[idx+1:]...)
	}
	return dataset.New(keep, records)
}

// Markdown renders the run report.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[SEGMENTATION RUN]\n")
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Input: %s (%d rows)\n", r.Input, r.Rows)
	if r.Output != "" {
		fmt.Fprintf(&b, "Output: %s\n", r.Output)
	}
	b.WriteString("\n")

	if len(r.WSS) > 0 {
		b.WriteString("[ELBOW CURVE]\n")
		for _, p := range r.WSS {
			fmt.Fprintf(&b, "- k=%d: WSS %.4f\n", p.K, p.WSS)
		}
		b.WriteString("\n")
	}
	if len(r.Silhouette) > 0 {
		b.WriteString("[SILHOUETTE]\n")
		for _, p := range r.Silhouette {
			if p.K < 2 {
				continue
			}
			fmt.Fprintf(&b, "- k=%d: %.4f\n", p.K, p.Score)
		}
		if r.SuggestedK > 0 {
			fmt.Fprintf(&b, "Best silhouette at k=%d (descriptive; fitted k comes from config)\n", r.SuggestedK)
		}
		b.WriteString("\n")
	}
	if r.KMeans != nil {
		fmt.Fprintf(&b, "[K-MEANS] k=%d, WSS %.4f, sizes %v\n", r.KMeans.K, r.KMeans.WSS, r.KMeans.Sizes())
	}
	if r.Hier != nil {
		fmt.Fprintf(&b, "[HIERARCHICAL] k=%d, WSS %.4f, sizes %v\n", r.Hier.K, r.Hier.WSS, r.Hier.Sizes())
	}
	if r.CrossTab != nil {
		b.WriteString("\n[CROSS-TABULATION]\n")
		b.WriteString(r.CrossTab.String())
	}
	if len(r.ChartPaths) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, p := range r.ChartPaths {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}
