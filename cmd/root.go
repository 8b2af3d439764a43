package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/glowfin/churnscope-cli/internal/config"
)

var (
	// Global flags (overrides of the loaded config)
	cfgFile       string
	flagSeed      int64
	flagFinalK    int
	flagMaxK      int
	flagLinkage   string
	flagFeatures  []string
	flagChartsDir string

	// Loaded configuration
	cfg *cfgpkg.Options
)

var rootCmd = &cobra.Command{
	Use:   "churnscope",
	Short: "churnscope: segment credit-card customers by transaction behavior",
	Long: `Churnscope loads a credit-card customer CSV, recodes its categorical
columns into ordinal codes, profiles the table, selects a cluster count via
elbow and silhouette scans, fits k-means and Ward hierarchical clusterings,
cross-tabulates the two labelings, and exports the augmented table.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.churnscope/config.yaml)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed for k-means (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFinalK, "k", 0, "cluster count for the production fits (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxK, "max-k", 0, "elbow/silhouette scan ceiling (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLinkage, "linkage", "", "hierarchical linkage (overrides config)")
	rootCmd.PersistentFlags().StringSliceVar(&flagFeatures, "features", nil, "feature columns to cluster on (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChartsDir, "charts-dir", "", "directory for rendered HTML charts (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands re-check before using the config.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if f.Changed("k") && flagFinalK > 0 {
		cfg.FinalK = flagFinalK
	}
	if f.Changed("max-k") && flagMaxK > 0 {
		cfg.MaxK = flagMaxK
	}
	if f.Changed("linkage") && flagLinkage != "" {
		cfg.Linkage = flagLinkage
	}
	if f.Changed("features") && len(flagFeatures) > 0 {
		cfg.Features = flagFeatures
	}
	if f.Changed("charts-dir") && flagChartsDir != "" {
		cfg.ChartsDir = flagChartsDir
	}
}

// requireConfig returns the effective configuration or an error when the
// startup load failed.
func requireConfig() (*cfgpkg.Options, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded; check --config and ~/.churnscope/config.yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
