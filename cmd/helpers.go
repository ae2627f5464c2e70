package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

// readResult loads a result file, or JSON from stdin when path is "-".
// Device fields the result leaves out come from the configured device.
func readResult(path string, stdin io.Reader) (*model.AnalyzeResult, error) {
	var (
		r   *model.AnalyzeResult
		err error
	)
	if path == "-" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return nil, fmt.Errorf("read stdin: %w", readErr)
		}
		r, err = model.Unmarshal(data, false)
	} else {
		r, err = model.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return model.WithDevice(r, cfg.Device), nil
}

// loadSession reads the result named by the first argument into a new
// viewer session. Invalid fields are logged, not rejected.
func loadSession(cmd *cobra.Command, args []string) (*viewer.Session, error) {
	result, err := readResult(args[0], cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	if err := model.Validate(result); err != nil {
		logger.Warn("result has invalid fields", "path", args[0], "error", err)
	}
	sess := viewer.NewSession()
	sess.Load(result)
	return sess, nil
}

// addHoverFlags registers the pointer flags shared by overlay and annotate.
func addHoverFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("hover-x", -1, "Pointer X relative to the overlay (CSS px)")
	cmd.Flags().Float64("hover-y", -1, "Pointer Y relative to the overlay (CSS px)")
	cmd.Flags().Int("hover-index", overlay.NoHover, "Hover the element at this detection-order index")
	cmd.Flags().Float64("container-height", 0, "Rendered container height for tooltip clamping (0 = unknown)")
}

// applyHoverFlags replays the pointer flags as viewer events.
func applyHoverFlags(cmd *cobra.Command, sess *viewer.Session) error {
	x, _ := cmd.Flags().GetFloat64("hover-x")
	y, _ := cmd.Flags().GetFloat64("hover-y")
	index, _ := cmd.Flags().GetInt("hover-index")
	containerHeight, _ := cmd.Flags().GetFloat64("container-height")

	if containerHeight < 0 {
		return fmt.Errorf("--container-height must not be negative")
	}
	if containerHeight > 0 {
		sess.Dispatch(viewer.Resize(containerHeight))
	}

	xSet := cmd.Flags().Changed("hover-x")
	ySet := cmd.Flags().Changed("hover-y")
	switch {
	case xSet != ySet:
		return fmt.Errorf("--hover-x and --hover-y must be given together")
	case xSet && cmd.Flags().Changed("hover-index"):
		return fmt.Errorf("use either --hover-x/--hover-y or --hover-index, not both")
	case xSet:
		sess.Dispatch(viewer.PointerMove(x, y))
	case cmd.Flags().Changed("hover-index"):
		sess.Dispatch(viewer.PointerEnter(index))
	}
	return nil
}
