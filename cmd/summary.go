package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary RESULT",
	Short: "Summarize an analysis result",
	Long: `Print the element count, average tap success rate, number of poor
elements and overall tier of a result file ("-" reads JSON from stdin).`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	return output.Print(summary.ForResult(sess.Result()))
}
