// Package render rasterises a viewer display list onto its screenshot.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
	"github.com/tahmarrrr23/tappval/internal/viewer"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoImage is returned when the display list is a placeholder.
var ErrNoImage = errors.New("nothing to render: no result loaded")

// borderWidth is the region outline width in CSS pixels.
const borderWidth = 2

// basicfont.Face7x13 metrics.
const (
	glyphWidth = 7
	lineHeight = 13
)

var (
	tooltipBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 230}
	tooltipText       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	tooltipMuted      = color.NRGBA{R: 156, G: 163, B: 175, A: 255}
)

// Annotate draws the display list on top of img. The display list is in
// device CSS pixels; img is usually captured at the device scale factor, so
// coordinates are scaled by the ratio of the image size to the device size.
func Annotate(img image.Image, dl viewer.DisplayList) *image.RGBA {
	rgba := ImageToRGBA(img)

	b := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if dl.Width > 0 {
		scaleX = float64(b.Dx()) / float64(dl.Width)
	}
	if dl.Height > 0 {
		scaleY = float64(b.Dy()) / float64(dl.Height)
	}
	sc := scaler{x: scaleX, y: scaleY, origin: b.Min}

	// Regions on the base layer first, then the raised one.
	for _, layer := range []overlay.Layer{overlay.LayerBase, overlay.LayerHover} {
		for _, r := range dl.Regions {
			if r.Layer == layer {
				drawRegion(rgba, sc, r)
			}
		}
	}
	if dl.Tooltip != nil {
		drawTooltip(rgba, sc, *dl.Tooltip)
	}
	return rgba
}

// DecodeImage decodes the screenshot behind a display list.
func DecodeImage(dl viewer.DisplayList) (image.Image, error) {
	if dl.Placeholder != viewer.PlaceholderNone || dl.Image == "" {
		return nil, ErrNoImage
	}
	data, err := model.DecodeScreenshot(dl.Image)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// WritePNG decodes the screenshot, draws the display list and encodes the
// result as PNG.
func WritePNG(w io.Writer, dl viewer.DisplayList) error {
	img, err := DecodeImage(dl)
	if err != nil {
		return err
	}
	return EncodePNG(w, Annotate(img, dl))
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ImageToRGBA converts any image to RGBA
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// scaler converts CSS pixels to image pixels.
type scaler struct {
	x, y   float64
	origin image.Point
}

func (s scaler) rect(left, top, width, height float64) image.Rectangle {
	x0 := s.origin.X + int(math.Round(left*s.x))
	y0 := s.origin.Y + int(math.Round(top*s.y))
	x1 := s.origin.X + int(math.Round((left+width)*s.x))
	y1 := s.origin.Y + int(math.Round((top+height)*s.y))
	return image.Rect(x0, y0, x1, y1)
}

func (s scaler) stroke() int {
	w := int(math.Round(borderWidth * math.Min(s.x, s.y)))
	if w < 1 {
		w = 1
	}
	return w
}

// drawRegion paints one overlay region: the fill (if any) and its border.
func drawRegion(img *image.RGBA, sc scaler, r overlay.Region) {
	el := r.Element
	rect := sc.rect(el.Left, el.Top, el.Width, el.Height).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	if !r.Fill.IsTransparent() {
		draw.Draw(img, rect, image.NewUniform(r.Fill.NRGBA()), image.Point{}, draw.Over)
	}
	drawRectangle(img, rect, sc.stroke(), r.Border.NRGBA())
}

// drawRectangle draws a rectangle outline of the given stroke width inside
// rect.
func drawRectangle(img *image.RGBA, rect image.Rectangle, stroke int, c color.Color) {
	src := image.NewUniform(c)
	if rect.Dx() <= 2*stroke || rect.Dy() <= 2*stroke {
		draw.Draw(img, rect, src, image.Point{}, draw.Over)
		return
	}
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+stroke),             // top
		image.Rect(rect.Min.X, rect.Max.Y-stroke, rect.Max.X, rect.Max.Y),             // bottom
		image.Rect(rect.Min.X, rect.Min.Y+stroke, rect.Min.X+stroke, rect.Max.Y-stroke), // left
		image.Rect(rect.Max.X-stroke, rect.Min.Y+stroke, rect.Max.X, rect.Max.Y-stroke), // right
	}
	for _, e := range edges {
		draw.Draw(img, e, src, image.Point{}, draw.Over)
	}
}

// drawTooltip paints the tooltip card at its clamped position. The card is
// sized in CSS pixels; text is drawn with the fixed 7x13 face.
func drawTooltip(img *image.RGBA, sc scaler, tip viewer.Tooltip) {
	lines := []struct {
		label, value string
		color        color.Color
	}{
		{"SUCCESS RATE", tip.Rate, tip.Color.NRGBA()},
		{"Size (px):", tip.SizePx, tooltipText},
		{"Size (mm):", tip.SizeMm, tooltipText},
	}

	rect := sc.rect(tip.Position.X, tip.Position.Y, viewer.TooltipWidth, viewer.TooltipHeight)
	// Keep the card tall and wide enough for the text at small scales.
	minW := (len("SUCCESS RATE") + 1 + len("100.00%") + 2) * glyphWidth
	if rect.Dx() < minW {
		rect.Max.X = rect.Min.X + minW
	}
	if minH := (len(lines) + 1) * lineHeight; rect.Dy() < minH {
		rect.Max.Y = rect.Min.Y + minH
	}
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(tooltipBackground), image.Point{}, draw.Over)

	pad := glyphWidth
	for i, l := range lines {
		baseline := rect.Min.Y + pad + (i+1)*lineHeight
		drawText(img, l.label, rect.Min.X+pad, baseline, tooltipMuted)
		valueX := rect.Max.X - pad - len(l.value)*glyphWidth
		drawTextWithOutline(img, l.value, valueX, baseline, l.color, tooltipBackground)
	}
}

func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawTextWithOutline draws text with an outline for better visibility
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawText(img, text, x+dx, y+dy, outlineColor)
		}
	}
	drawText(img, text, x, y, textColor)
}
