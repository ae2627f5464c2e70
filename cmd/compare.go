package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/summary"
)

var compareCmd = &cobra.Command{
	Use:   "compare BEFORE AFTER",
	Short: "Compare two analyses of the same page",
	Long: `Match the elements of two results by their bounds and report elements
that were added, removed, or whose tap success rate, tier or physical size
changed, along with both summaries.

Example:
  tappval compare before.json after.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// compareOutput is the printed comparison.
type compareOutput struct {
	Before  summary.Summary       `yaml:"before"  json:"before"`
	After   summary.Summary       `yaml:"after"   json:"after"`
	Changes []model.ElementChange `yaml:"changes" json:"changes"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	before, err := readResult(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	after, err := readResult(args[1], cmd.InOrStdin())
	if err != nil {
		return err
	}
	if before.Device != after.Device {
		logger.Warn("results were captured on different devices",
			"before", before.Device, "after", after.Device)
	}

	changes := model.DiffElements(before.Elements, after.Elements)
	if changes == nil {
		changes = []model.ElementChange{}
	}
	return output.Print(compareOutput{
		Before:  summary.ForResult(before),
		After:   summary.ForResult(after),
		Changes: changes,
	})
}
