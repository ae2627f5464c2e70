package viewer

import (
	"fmt"
	"math"

	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
)

// Tooltip geometry in CSS pixels.
const (
	TooltipOffset = 16
	TooltipWidth  = 220
	TooltipHeight = 100
)

// Point is a position relative to the overlay container.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// PlaceTooltip anchors the tooltip just below-right of the cursor and clamps
// it so it stays inside the device width and, when containerHeight is known
// (> 0), inside the container height.
func PlaceTooltip(cursor Point, deviceWidth int, containerHeight float64) Point {
	pos := Point{
		X: math.Min(cursor.X+TooltipOffset, float64(deviceWidth)-TooltipWidth),
		Y: cursor.Y + TooltipOffset,
	}
	if containerHeight > 0 {
		pos.Y = math.Min(pos.Y, containerHeight-TooltipHeight)
	}
	return pos
}

// Tooltip is the detail card shown next to the cursor for the hovered
// element.
type Tooltip struct {
	Position Point         `yaml:"position" json:"position"`
	Layer    overlay.Layer `yaml:"layer"    json:"layer"`
	Tier     model.Tier    `yaml:"tier"     json:"tier"`
	Color    overlay.Color `yaml:"color"    json:"color"`
	Rate     string        `yaml:"rate"     json:"rate"`   // e.g. "87.50%"
	SizePx   string        `yaml:"sizePx"   json:"sizePx"` // e.g. "44 x 44"
	SizeMm   string        `yaml:"sizeMm"   json:"sizeMm"` // e.g. "7.5 x 7.5"
}

// NewTooltip formats the tooltip content for el at pos.
func NewTooltip(el model.Element, pos Point) Tooltip {
	tier := model.Classify(el.TapSuccessRate)
	return Tooltip{
		Position: pos,
		Layer:    overlay.LayerTooltip,
		Tier:     tier,
		Color:    overlay.BorderColor(tier),
		Rate:     FormatRate(el.TapSuccessRate),
		SizePx:   fmt.Sprintf("%d x %d", roundPx(el.Width), roundPx(el.Height)),
		SizeMm:   fmt.Sprintf("%.1f x %.1f", el.WidthMm, el.HeightMm),
	}
}

// FormatRate renders a 0..1 rate as a percentage with two decimals.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// roundPx rounds half up, like the browser does for pixel sizes.
func roundPx(v float64) int {
	return int(math.Floor(v + 0.5))
}
