package overlay

import (
	"fmt"
	"image/color"

	"github.com/tahmarrrr23/tappval/internal/model"
)

// Color is a non-premultiplied RGBA colour. It encodes as "#rrggbbaa" in
// JSON and YAML.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fill of every region that is not hovered.
var Transparent = Color{}

// hoverAlpha is the fill opacity of a hovered region (30%).
const hoverAlpha = 77

var tierColors = map[model.Tier]Color{
	model.TierPoor:             {R: 239, G: 68, B: 68, A: 255},
	model.TierNeedsImprovement: {R: 245, G: 158, B: 11, A: 255},
	model.TierGood:             {R: 34, G: 197, B: 94, A: 255},
}

// BorderColor returns the outline colour of a tier.
func BorderColor(t model.Tier) Color {
	return tierColors[t]
}

// HoverFill returns the translucent fill drawn behind a hovered region of
// the given tier.
func HoverFill(t model.Tier) Color {
	c := tierColors[t]
	c.A = hoverAlpha
	return c
}

// NRGBA converts c for use with image/draw.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsTransparent reports whether c draws nothing.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// String returns the colour as "#rrggbbaa".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	var r, g, bl, a uint8
	if _, err := fmt.Sscanf(string(b), "#%02x%02x%02x%02x", &r, &g, &bl, &a); err != nil {
		return fmt.Errorf("invalid color %q: %w", b, err)
	}
	*c = Color{R: r, G: g, B: bl, A: a}
	return nil
}
