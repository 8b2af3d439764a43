package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glowfin/churnscope-cli/internal/pipeline"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run <input.csv>",
	Short: "Run the full segmentation pipeline",
	Long: `Run cleans the input table, renders the descriptive and selection
charts, fits k-means and Ward hierarchical clusterings on the configured
feature subset, cross-tabulates the two labelings, and writes the augmented
CSV (all original columns plus the k-means cluster label).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if runOutput != "" {
			c.Output = runOutput
		}
		res, err := pipeline.Run(c, args[0])
		if err != nil {
			return err
		}
		fmt.Print(res.Markdown())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "augmented CSV path (default <input>_clustered.csv)")
	rootCmd.AddCommand(runCmd)
}
