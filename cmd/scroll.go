package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

var scrollCmd = &cobra.Command{
	Use:   "scroll",
	Short: "Evaluate the scroll hint for viewport metrics",
	Long: `Report whether the viewport can scroll, whether it is at the bottom,
and whether the "scroll for more" hint is shown.

Example:
  tappval scroll --scroll-height 2400 --client-height 800 --scroll-top 0`,
	RunE: runScroll,
}

func init() {
	rootCmd.AddCommand(scrollCmd)
	scrollCmd.Flags().Float64("scroll-height", 0, "Total content height")
	scrollCmd.Flags().Float64("client-height", 0, "Visible viewport height")
	scrollCmd.Flags().Float64("scroll-top", 0, "Current scroll offset")
	scrollCmd.Flags().Bool("loading", false, "Evaluate as if an analysis were in progress")
	scrollCmd.Flags().Bool("no-result", false, "Evaluate as if no result were loaded")
	scrollCmd.MarkFlagRequired("scroll-height")
	scrollCmd.MarkFlagRequired("client-height")
}

// scrollOutput is the printed scroll evaluation.
type scrollOutput struct {
	viewer.ScrollState `yaml:",inline"`
	ShowHint           bool `yaml:"showHint" json:"showHint"`
}

func runScroll(cmd *cobra.Command, args []string) error {
	scrollHeight, _ := cmd.Flags().GetFloat64("scroll-height")
	clientHeight, _ := cmd.Flags().GetFloat64("client-height")
	scrollTop, _ := cmd.Flags().GetFloat64("scroll-top")
	loading, _ := cmd.Flags().GetBool("loading")
	noResult, _ := cmd.Flags().GetBool("no-result")

	s := viewer.EvaluateScroll(scrollHeight, clientHeight, scrollTop)
	return output.Print(scrollOutput{
		ScrollState: s,
		ShowHint:    viewer.ShowHint(s, !noResult, loading),
	})
}
