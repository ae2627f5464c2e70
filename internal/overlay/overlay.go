// Package overlay derives the ordered, coloured set of regions painted on
// top of an analysis screenshot.
package overlay

import (
	"cmp"
	"slices"

	"github.com/tahmarrrr23/tappval/internal/model"
)

// NoHover marks the absence of a hovered element.
const NoHover = -1

// Layer is a compositing layer; higher layers are drawn on top.
type Layer int

const (
	LayerBase    Layer = 1
	LayerHover   Layer = 10
	LayerTooltip Layer = 50
)

// fullViewportRatio is the fraction of the device size, in both dimensions,
// at or above which an element is treated as a page container.
const fullViewportRatio = 0.9

// Region is one element as it is painted on the overlay.
type Region struct {
	Index   int           `yaml:"index"   json:"index"` // position in detection order
	Element model.Element `yaml:"element" json:"element"`
	Tier    model.Tier    `yaml:"tier"    json:"tier"`
	Border  Color         `yaml:"border"  json:"border"`
	Fill    Color         `yaml:"fill"    json:"fill"`
	Layer   Layer         `yaml:"layer"   json:"layer"`
	Hovered bool          `yaml:"hovered,omitempty" json:"hovered,omitempty"`
}

// IsFullViewport reports whether el covers at least 90% of the device in
// both width and height. Such elements are containers, not tap targets.
func IsFullViewport(device model.Device, el model.Element) bool {
	return el.Width >= float64(device.Width)*fullViewportRatio &&
		el.Height >= float64(device.Height)*fullViewportRatio
}

// Derive returns the regions to paint, in paint order. Near-full-viewport
// elements are dropped, the rest are sorted by area, largest first, so that
// smaller targets are painted later and win the pointer where regions
// overlap. Equal areas keep detection order. hovered is an index into
// elements, or NoHover.
func Derive(device model.Device, elements []model.Element, hovered int) []Region {
	regions := make([]Region, 0, len(elements))
	for i, el := range elements {
		if IsFullViewport(device, el) {
			continue
		}
		tier := model.Classify(el.TapSuccessRate)
		r := Region{
			Index:   i,
			Element: el,
			Tier:    tier,
			Border:  BorderColor(tier),
			Fill:    Transparent,
			Layer:   LayerBase,
		}
		if i == hovered {
			r.Hovered = true
			r.Fill = HoverFill(tier)
			r.Layer = LayerHover
		}
		regions = append(regions, r)
	}

	slices.SortStableFunc(regions, func(a, b Region) int {
		return cmp.Compare(b.Element.Area(), a.Element.Area())
	})
	return regions
}

// HitTest returns the region that receives a pointer at (x, y): the region
// on the highest layer containing the point, and among regions on the same
// layer the one painted last.
func HitTest(regions []Region, x, y float64) (Region, bool) {
	best := -1
	for i := range regions {
		if !regions[i].Element.Contains(x, y) {
			continue
		}
		if best < 0 || regions[i].Layer >= regions[best].Layer {
			best = i
		}
	}
	if best < 0 {
		return Region{}, false
	}
	return regions[best], true
}

// Find returns the region derived from the element at index.
func Find(regions []Region, index int) (Region, bool) {
	for _, r := range regions {
		if r.Index == index {
			return r, true
		}
	}
	return Region{}, false
}
