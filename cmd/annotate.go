package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"os"

	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/render"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate RESULT",
	Short: "Render the overlay onto the result screenshot",
	Long: `Draw the tier-coloured region borders, the hover highlight and the
tooltip onto the captured screenshot.

Examples:
  tappval annotate result.json --output overlay.png
  tappval annotate result.json --hover-x 120 --hover-y 300 --output hover.png
  tappval annotate result.json --image-format jpg --quality 70 > overlay.b64`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	addHoverFlags(annotateCmd)
	annotateCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	annotateCmd.Flags().String("image-format", "png", "Image format: png, jpg")
	annotateCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("image-format")
	quality, _ := cmd.Flags().GetInt("quality")
	if quality < 1 || quality > 100 {
		return fmt.Errorf("--quality must be between 1 and 100")
	}

	sess, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	if err := applyHoverFlags(cmd, sess); err != nil {
		return err
	}

	dl := sess.Render()
	img, err := render.DecodeImage(dl)
	if err != nil {
		return err
	}
	annotated := render.Annotate(img, dl)

	buf := &bytes.Buffer{}
	switch format {
	case "jpg", "jpeg":
		err = jpeg.Encode(buf, annotated, &jpeg.Options{Quality: quality})
	case "png":
		err = render.EncodePNG(buf, annotated)
	default:
		return fmt.Errorf("unsupported image format: %s (use png or jpg)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode annotated image: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return err
		}
		logger.Info("wrote overlay", "path", outputPath, "regions", len(dl.Regions))
		return nil
	}

	// Default: write to stdout as base64 for easy agent consumption
	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println() // newline after base64
	return nil
}
