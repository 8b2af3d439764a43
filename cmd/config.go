package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/glowfin/churnscope-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set churnscope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("final_k: %d\n", cfg.FinalK)
		fmt.Printf("max_k: %d\n", cfg.MaxK)
		fmt.Printf("linkage: %s\n", cfg.Linkage)
		fmt.Printf("max_iter: %d\n", cfg.MaxIter)
		fmt.Printf("restarts: %d\n", cfg.Restarts)
		fmt.Printf("features: %s\n", strings.Join(cfg.Features, ", "))
		fmt.Printf("charts_dir: %s\n", cfg.ChartsDir)
		if cfg.Output != "" {
			fmt.Printf("output: %s\n", cfg.Output)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "seed":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("seed must be an integer: %w", err)
			}
			cfg.Seed = n
		case "final_k":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("final_k must be an integer: %w", err)
			}
			cfg.FinalK = n
		case "max_k":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("max_k must be an integer: %w", err)
			}
			cfg.MaxK = n
		case "max_iter":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("max_iter must be an integer: %w", err)
			}
			cfg.MaxIter = n
		case "restarts":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("restarts must be an integer: %w", err)
			}
			cfg.Restarts = n
		case "linkage":
			cfg.Linkage = val
		case "features":
			cfg.Features = strings.Split(val, ",")
			for i := range cfg.Features {
				cfg.Features[i] = strings.TrimSpace(cfg.Features[i])
			}
		case "charts_dir":
			cfg.ChartsDir = val
		case "output":
			cfg.Output = val
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", key)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfgpkg.Load("")
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
