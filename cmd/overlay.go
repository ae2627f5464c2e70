package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/output"
	"github.com/tahmarrrr23/tappval/internal/overlay"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

var overlayCmd = &cobra.Command{
	Use:   "overlay RESULT",
	Short: "List the overlay regions of a result",
	Long: `Print the regions drawn over the screenshot in paint order (largest
first), with their tier, border and fill colours and layer. Pointer flags
select a hovered element and add its tooltip.

Examples:
  tappval overlay result.json
  tappval overlay result.json --hover-x 120 --hover-y 300
  tappval overlay result.json --tier poor --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlay,
}

func init() {
	rootCmd.AddCommand(overlayCmd)
	addHoverFlags(overlayCmd)
	overlayCmd.Flags().String("tier", "", "Only regions of this tier: poor, needs-improvement, good")
}

// overlayOutput is the printed form of a display list, without the image.
type overlayOutput struct {
	Placeholder viewer.Placeholder `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Hovered     int                `yaml:"hovered"               json:"hovered"`
	Regions     []overlay.Region   `yaml:"regions"               json:"regions"`
	Tooltip     *viewer.Tooltip    `yaml:"tooltip,omitempty"     json:"tooltip,omitempty"`
}

func runOverlay(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	if err := applyHoverFlags(cmd, sess); err != nil {
		return err
	}

	dl := sess.Render()
	out := overlayOutput{
		Placeholder: dl.Placeholder,
		Hovered:     sess.State().Hovered,
		Regions:     dl.Regions,
		Tooltip:     dl.Tooltip,
	}
	if t, _ := cmd.Flags().GetString("tier"); t != "" {
		tier, err := model.ParseTier(t)
		if err != nil {
			return err
		}
		out.Regions = overlay.FilterTier(out.Regions, tier)
	}
	return output.Print(out)
}
