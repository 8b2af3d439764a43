package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glowfin/churnscope-cli/internal/charts"
	"github.com/glowfin/churnscope-cli/internal/cluster"
	"github.com/glowfin/churnscope-cli/internal/pipeline"
)

var elbowCmd = &cobra.Command{
	Use:   "elbow <input.csv>",
	Short: "Scan candidate cluster counts and render elbow/silhouette curves",
	Long: `Elbow fits k-means for k=1..max_k over the standardized feature
subset and reports the within-cluster sum of squares per k, along with the
mean silhouette score. The elbow itself is read visually; churnscope never
picks k for you.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		frame, err := pipeline.LoadClean(args[0])
		if err != nil {
			return err
		}
		m, err := frame.Matrix(c.Features...)
		if err != nil {
			return err
		}
		std, err := cluster.Standardize(m)
		if err != nil {
			return err
		}
		wss, err := cluster.WSSCurve(std, c.MaxK, c.Seed, c.MaxIter)
		if err != nil {
			return err
		}
		sil, err := cluster.SilhouetteCurve(std, c.MaxK, c.Seed, c.MaxIter)
		if err != nil {
			return err
		}

		fmt.Println("k\tWSS\t\tsilhouette")
		for i := range wss {
			fmt.Printf("%d\t%.4f\t%.4f\n", wss[i].K, wss[i].WSS, sil[i].Score)
		}
		if best := cluster.BestSilhouette(sil); best > 0 {
			fmt.Printf("\nBest silhouette at k=%d (fitted k stays final_k=%d)\n", best, c.FinalK)
		}
		if _, err := charts.WriteHTML(c.ChartsDir, "elbow.html", charts.Elbow(wss)); err != nil {
			return err
		}
		if _, err := charts.WriteHTML(c.ChartsDir, "silhouette.html", charts.Silhouette(sil)); err != nil {
			return err
		}
		fmt.Printf("Charts written to %s\n", c.ChartsDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(elbowCmd)
}
