// Package config loads and persists the segmentation run options.
// Precedence: flags > env (CHURNSCOPE_*) > ~/.churnscope/config.yaml >
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/glowfin/churnscope-cli/internal/cluster"
)

// Options is the full configuration surface of a run.
type Options struct {
	// Seed controls k-means reproducibility; the same seed over the same
	// input reproduces the same assignments.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
	// FinalK is the cluster count used for the production fits.
	FinalK int `mapstructure:"final_k" yaml:"final_k"`
	// MaxK is the elbow/silhouette scan ceiling.
	MaxK int `mapstructure:"max_k" yaml:"max_k"`
	// Linkage is the hierarchical merge criterion.
	Linkage string `mapstructure:"linkage" yaml:"linkage"`
	// MaxIter caps Lloyd iterations per k-means fit.
	MaxIter int `mapstructure:"max_iter" yaml:"max_iter"`
	// Restarts is the number of k-means starts per fit; the start with
	// the lowest WSS wins.
	Restarts int `mapstructure:"restarts" yaml:"restarts"`
	// Features is the numeric projection clustered on.
	Features []string `mapstructure:"features" yaml:"features"`
	// ChartsDir receives the rendered HTML charts.
	ChartsDir string `mapstructure:"charts_dir" yaml:"charts_dir"`
	// Output is the augmented CSV path; empty derives <input>_clustered.csv.
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultFeatures is the clustering projection used when none is
// configured: the two ordinal demographics plus the two transaction
// behaviorals.
func DefaultFeatures() []string {
	return []string{"Income_Category", "Education_Level", "Total_Trans_Amt", "Total_Trans_Ct"}
}

// Load loads configuration from file, env, and defaults.
func Load(cfgFile string) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix("CHURNSCOPE")
	v.AutomaticEnv()

	v.SetDefault("seed", 11)
	v.SetDefault("final_k", 3)
	v.SetDefault("max_k", 10)
	v.SetDefault("linkage", "ward")
	v.SetDefault("max_iter", 100)
	v.SetDefault("restarts", 10)
	v.SetDefault("features", DefaultFeatures())
	v.SetDefault("charts_dir", "churnscope-charts")
	v.SetDefault("output", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".churnscope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Save writes the configuration to cfgFile, or to
// ~/.churnscope/config.yaml when cfgFile is empty.
func Save(o *Options, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".churnscope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects option combinations no run can honor.
func (o *Options) Validate() error {
	if o.FinalK < 1 {
		return fmt.Errorf("final_k must be at least 1, got %d", o.FinalK)
	}
	if o.MaxK < o.FinalK {
		return fmt.Errorf("max_k (%d) must not be below final_k (%d)", o.MaxK, o.FinalK)
	}
	if o.MaxIter < 1 {
		return fmt.Errorf("max_iter must be positive, got %d", o.MaxIter)
	}
	if o.Restarts < 1 {
		return fmt.Errorf("restarts must be positive, got %d", o.Restarts)
	}
	if len(o.Features) < 2 {
		return fmt.Errorf("need at least 2 feature columns, got %d", len(o.Features))
	}
	if _, err := cluster.ParseLinkage(o.Linkage); err != nil {
		return err
	}
	return nil
}

// OutputPath derives the augmented CSV destination for an input path.
func (o *Options) OutputPath(input string) string {
	if o.Output != "" {
		return o.Output
	}
	ext := filepath.Ext(input)
	return input[:len(input)-len(ext)] + "_clustered.csv"
}
