package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/glowfin/churnscope-cli/internal/cluster"
	"github.com/glowfin/churnscope-cli/internal/pipeline"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <input.csv>",
	Short: "Fit k-means and write the augmented CSV, skipping the charts",
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
		m, err := frame.Matrix(c.Features...)
		if err != nil {
			return err
		}
		std, err := cluster.Standardize(m)
		if err != nil {
			return err
		}
		km := cluster.NewKMeans(c.Seed, c.MaxIter)
		km.Restarts = c.Restarts
		p, err := km.Fit(std, c.FinalK)
		if err != nil {
			return err
		}
		labels := make([]string, len(p.Labels))
		for i, l := range p.Labels {
			labels[i] = strconv.Itoa(l + 1)
		}
		out, err := frame.WithColumn(pipeline.ColKMeans, labels)
		if err != nil {
			return err
		}
		dest := exportOutput
		if dest == "" {
			dest = c.OutputPath(args[0])
		}
		if err := out.WriteCSV(dest); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s (k=%d, WSS %.4f, sizes %v)\n",
			out.Rows(), dest, p.K, p.WSS, p.Sizes())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "augmented CSV path (default <input>_clustered.csv)")
	rootCmd.AddCommand(exportCmd)
}
