package viewer

import "fmt"

// EventKind identifies an input event delivered to the viewer.
type EventKind int

const (
	// EventPointerMove carries the pointer position relative to the overlay
	// container. The viewer hit-tests the overlay itself.
	EventPointerMove EventKind = iota + 1
	// EventPointerEnter marks the pointer entering the element at Index,
	// for hosts that do their own hit testing.
	EventPointerEnter
	// EventPointerLeave marks the pointer leaving the hovered element.
	EventPointerLeave
	// EventContainerLeave marks the pointer leaving the overlay container.
	EventContainerLeave
	// EventScroll carries the scroll metrics of the viewport.
	EventScroll
	// EventResize carries the rendered height of the overlay container.
	EventResize
	// EventLoading marks the start of a new analysis.
	EventLoading
	// EventResult marks the arrival of a new result (or a failed analysis).
	EventResult
)

var eventKindNames = map[EventKind]string{
	EventPointerMove:    "pointer-move",
	EventPointerEnter:   "pointer-enter",
	EventPointerLeave:   "pointer-leave",
	EventContainerLeave: "container-leave",
	EventScroll:         "scroll",
	EventResize:         "resize",
	EventLoading:        "loading",
	EventResult:         "result",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	name, ok := eventKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(b []byte) error {
	for kind, name := range eventKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind: %q", b)
}

// Event is a single input event. Only the fields relevant to Kind are read.
type Event struct {
	Kind EventKind `json:"kind" yaml:"kind"`

	// Pointer position for EventPointerMove.
	X float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y float64 `json:"y,omitempty" yaml:"y,omitempty"`

	// Element index (detection order) for EventPointerEnter.
	Index int `json:"index,omitempty" yaml:"index,omitempty"`

	// Scroll metrics for EventScroll.
	ScrollHeight float64 `json:"scrollHeight,omitempty" yaml:"scrollHeight,omitempty"`
	ClientHeight float64 `json:"clientHeight,omitempty" yaml:"clientHeight,omitempty"`
	ScrollTop    float64 `json:"scrollTop,omitempty"    yaml:"scrollTop,omitempty"`

	// Container height for EventResize.
	ContainerHeight float64 `json:"containerHeight,omitempty" yaml:"containerHeight,omitempty"`
}

// PointerMove builds an EventPointerMove.
func PointerMove(x, y float64) Event {
	return Event{Kind: EventPointerMove, X: x, Y: y}
}

// PointerEnter builds an EventPointerEnter for the element at index.
func PointerEnter(index int) Event {
	return Event{Kind: EventPointerEnter, Index: index}
}

// Scroll builds an EventScroll.
func Scroll(scrollHeight, clientHeight, scrollTop float64) Event {
	return Event{Kind: EventScroll, ScrollHeight: scrollHeight, ClientHeight: clientHeight, ScrollTop: scrollTop}
}

// Resize builds an EventResize.
func Resize(containerHeight float64) Event {
	return Event{Kind: EventResize, ContainerHeight: containerHeight}
}
