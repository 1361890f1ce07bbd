// Command cartml prepares the customer dataset, trains and compares
// purchase classifiers, and serves demo predictions from the saved best
// pipeline.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shotafuji/cartml/internal/config"
	"github.com/shotafuji/cartml/internal/version"
)

var (
	// Global flags
	cfgFile   string
	flagSeed  int64
	flagWork  string
	flagInput string
	verbose   bool

	// Loaded configuration
	cfg config.Config

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cartml",
	Short: "cartml: customer purchase prediction pipeline",
	Long: `cartml synthesizes an identifier and BMI column for a customer table,
merges them, trains logistic regression, decision tree, and random forest
classifiers with cross-validated hyperparameter grids, reports
precision/recall/F1 with a comparison chart, and persists the best pipeline
for inference.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.String())
	},
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagWork, "work-dir", "", "artifact directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagInput, "customers", "", "customer CSV path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

func loadConfig() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	c, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if f.Changed("work-dir") && flagWork != "" {
		cfg.WorkDir = flagWork
	}
	if f.Changed("customers") && flagInput != "" {
		cfg.CustomerCSV = flagInput
	}
}
