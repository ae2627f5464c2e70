package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/summary"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a web page with the analysis engine",
	Long: `Request a tap-target analysis of a page from the engine and print its
summary. With --output the full result (screenshot included) is saved as
JSON for the summary, overlay and annotate commands.

Examples:
  tappval analyze --url https://example.com
  tappval analyze --url https://example.com --output result.json
  tappval analyze --url https://example.com --endpoint http://engine:3000/api/analyze`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("url", "", "Page URL to analyze")
	analyzeCmd.Flags().String("output", "", "Save the full result to this JSON file")
	analyzeCmd.Flags().String("endpoint", "", "Analysis engine endpoint (default from config)")
	analyzeCmd.Flags().Duration("timeout", 0, "Request timeout (default from config)")
	analyzeCmd.MarkFlagRequired("url")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("url")
	outputPath, _ := cmd.Flags().GetString("output")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	if !cmd.Flags().Changed("timeout") {
		timeout = cfg.Timeout
	}

	runner := analyze.NewRunner(analyze.NewClient(endpoint, timeout), logger)
	result, err := runner.Run(cmd.Context(), target)
	if err != nil {
		if runner.Alert() != "" {
			return fmt.Errorf("%s", runner.Alert())
		}
		return err
	}

	if outputPath != "" {
		if err := model.Save(outputPath, result); err != nil {
			return err
		}
		logger.Info("saved result", "path", outputPath)
	}
	return output.Print(summary.ForResult(model.WithDevice(result, cfg.Device)))
}
