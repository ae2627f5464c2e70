// Package viewer is the interactive part of the result overlay: a pure state
// machine driven by input events, and a projection of that state onto a
// display list.
package viewer

import (
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
)

// State is the interaction state of the viewer. It is a value: Reduce
// returns a new State rather than modifying its input.
type State struct {
	// Hovered is the detection-order index of the hovered element, or
	// overlay.NoHover.
	Hovered int `yaml:"hovered" json:"hovered"`
	// Cursor is the last pointer position relative to the container.
	Cursor Point `yaml:"cursor" json:"cursor"`
	// ContainerHeight is the rendered container height; 0 means unknown.
	ContainerHeight float64     `yaml:"containerHeight" json:"containerHeight"`
	Scroll          ScrollState `yaml:"scroll"          json:"scroll"`
	Loading         bool        `yaml:"loading"         json:"loading"`
}

// Initial returns the empty state.
func Initial() State {
	return State{Hovered: overlay.NoHover}
}

// HasHover reports whether an element is hovered.
func (s State) HasHover() bool {
	return s.Hovered != overlay.NoHover
}

// Reduce applies ev to s and returns the next state. view is the result
// currently on screen.
func Reduce(view model.View, s State, ev Event) State {
	switch ev.Kind {
	case EventPointerMove:
		s.Cursor = Point{X: ev.X, Y: ev.Y}
		if !view.Ready() || s.Loading {
			return s
		}
		regions := overlay.Derive(view.Device, view.Elements, s.Hovered)
		if r, ok := overlay.HitTest(regions, ev.X, ev.Y); ok {
			s.Hovered = r.Index
		} else {
			s.Hovered = overlay.NoHover
		}

	case EventPointerEnter:
		if !view.Ready() || s.Loading {
			return s
		}
		if ev.Index < 0 || ev.Index >= len(view.Elements) {
			return s
		}
		// Excluded elements are never painted, so they cannot be entered.
		if overlay.IsFullViewport(view.Device, view.Elements[ev.Index]) {
			return s
		}
		s.Hovered = ev.Index

	case EventPointerLeave, EventContainerLeave:
		s.Hovered = overlay.NoHover

	case EventScroll:
		s.Scroll = EvaluateScroll(ev.ScrollHeight, ev.ClientHeight, ev.ScrollTop)

	case EventResize:
		if ev.ContainerHeight >= 0 {
			s.ContainerHeight = ev.ContainerHeight
		}

	case EventLoading:
		s = Initial()
		s.Loading = true

	case EventResult:
		s = Initial()
	}
	return s
}
