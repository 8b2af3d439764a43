package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glowfin/churnscope-cli/internal/analysis"
	"github.com/glowfin/churnscope-cli/internal/charts"
	"github.com/glowfin/churnscope-cli/internal/pipeline"
	"github.com/glowfin/churnscope-cli/internal/recode"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <input.csv>",
	Short: "Profile the cleaned table and render descriptive charts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		frame, err := pipeline.LoadClean(args[0])
		if err != nil {
			return err
		}
		rep := analysis.Profile(args[0], frame)
		fmt.Print(rep.Markdown())

		if _, err := charts.WriteHTML(c.ChartsDir, "missingness.html", charts.Missingness(rep)); err != nil {
			return err
		}
		for _, col := range rep.Cols {
			if col.Name == recode.ColAttrition && col.Kind == "categorical" {
				if _, err := charts.WriteHTML(c.ChartsDir, "retention.html", charts.CategoryBar(col.Name, col.TopValues)); err != nil {
					return err
				}
			}
		}
		fmt.Printf("\nCharts written to %s\n", c.ChartsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
