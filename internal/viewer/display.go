package viewer

import (
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
)

// Placeholder names the state shown instead of the overlay.
type Placeholder string

const (
	PlaceholderNone    Placeholder = ""
	PlaceholderLoading Placeholder = "loading"
	PlaceholderNoData  Placeholder = "no-data"
)

// DisplayList is everything needed to paint the viewer.
type DisplayList struct {
	Placeholder Placeholder      `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Image       string           `yaml:"-"                     json:"image,omitempty"`
	Width       int              `yaml:"width,omitempty"       json:"width,omitempty"`
	Height      int              `yaml:"height,omitempty"      json:"height,omitempty"`
	Regions     []overlay.Region `yaml:"regions"               json:"regions"`
	Tooltip     *Tooltip         `yaml:"tooltip,omitempty"     json:"tooltip,omitempty"`
	ScrollHint  bool             `yaml:"scrollHint"            json:"scrollHint"`
}

// Render projects the view and the interaction state onto a display list.
// It has no side effects.
func Render(view model.View, s State) DisplayList {
	if s.Loading {
		return DisplayList{Placeholder: PlaceholderLoading, Regions: []overlay.Region{}}
	}
	if !view.Ready() {
		return DisplayList{Placeholder: PlaceholderNoData, Regions: []overlay.Region{}}
	}

	dl := DisplayList{
		Image:      view.Image,
		Width:      view.Device.Width,
		Height:     view.Device.Height,
		Regions:    overlay.Derive(view.Device, view.Elements, s.Hovered),
		ScrollHint: ShowHint(s.Scroll, true, s.Loading),
	}
	if s.HasHover() && s.Hovered < len(view.Elements) {
		el := view.Elements[s.Hovered]
		pos := PlaceTooltip(s.Cursor, view.Device.Width, s.ContainerHeight)
		tip := NewTooltip(el, pos)
		dl.Tooltip = &tip
	}
	return dl
}
