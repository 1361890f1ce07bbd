package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shotafuji/cartml/internal/pipeline"
)

var skipPrompt bool

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Synthesize the ID and BMI columns and write the merged table",
	RunE: func(_ *cobra.Command, _ []string) error {
		return pipeline.NewRunner(cfg, logger).Prepare()
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Grid-search and cross-validate classifiers on the merged table",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, err := pipeline.NewRunner(cfg, logger).Train()
		return err
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Reload the saved pipeline and score the demo customers",
	RunE: func(_ *cobra.Command, _ []string) error {
		runPredict(pipeline.NewRunner(cfg, logger))
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run prepare, train, and predict end to end",
	RunE: func(_ *cobra.Command, _ []string) error {
		r := pipeline.NewRunner(cfg, logger)
		if err := r.Prepare(); err != nil {
			return err
		}
		if _, err := r.Train(); err != nil {
			return err
		}
		runPredict(r)
		return nil
	},
}

// runPredict asks for confirmation, then scores the demo rows. Failures
// here are reported and swallowed so a finished training run still exits
// cleanly.
func runPredict(r *pipeline.Runner) {
	if !skipPrompt && !confirm(os.Stdin, os.Stdout, "Score the demo customers with the saved pipeline? [y/N] ") {
		logger.Info("prediction skipped")
		return
	}
	if err := r.Predict(pipeline.DemoCustomers(), os.Stdout); err != nil {
		logger.Error("prediction failed", "error", err)
	}
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func init() {
	predictCmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "skip the confirmation prompt")
	runCmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(prepareCmd, trainCmd, predictCmd, runCmd)
}
