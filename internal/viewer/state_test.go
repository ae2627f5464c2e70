package viewer

import (
	"encoding/json"
	"testing"

	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
)

// buildView returns a phone-sized view with a page container, a card and a
// button inside the card.
//
//	page   (0)  0,0     390x844  excluded
//	card   (1)  20,100  300x200  rate 0.90
//	button (2)  40,120  44x44    rate 0.50
//	footer (3)  0,700   390x60   rate 0.99
func buildView() model.View {
	return model.Normalize(&model.AnalyzeResult{
		Device: model.Device{Width: 390, Height: 844, ScaleFactor: 3, PPI: 460},
		Elements: []model.Element{
			{Left: 0, Top: 0, Width: 390, Height: 844, TapSuccessRate: 1},
			{Left: 20, Top: 100, Width: 300, Height: 200, WidthMm: 49.7, HeightMm: 33.1, TapSuccessRate: 0.9},
			{Left: 40, Top: 120, Width: 44, Height: 44, WidthMm: 7.28, HeightMm: 7.28, TapSuccessRate: 0.5},
			{Left: 0, Top: 700, Width: 390, Height: 60, TapSuccessRate: 0.99},
		},
		Screenshot: "iVBORw0K",
	})
}

func TestReduce_PointerMoveHoversSmallestTarget(t *testing.T) {
	view := buildView()
	s := Reduce(view, Initial(), PointerMove(50, 130))
	if s.Hovered != 2 {
		t.Errorf("expected button (2) hovered, got %d", s.Hovered)
	}
	if s.Cursor != (Point{X: 50, Y: 130}) {
		t.Errorf("cursor: got %+v", s.Cursor)
	}
}

func TestReduce_PointerMoveStaysOnRaisedRegion(t *testing.T) {
	view := buildView()
	s := Reduce(view, Initial(), PointerMove(200, 250)) // card only
	if s.Hovered != 1 {
		t.Fatalf("expected card (1) hovered, got %d", s.Hovered)
	}
	// The hovered card is raised above the button, so moving over the
	// button keeps the card hovered until the pointer leaves it.
	s = Reduce(view, s, PointerMove(50, 130))
	if s.Hovered != 1 {
		t.Errorf("expected card (1) to stay hovered, got %d", s.Hovered)
	}
	s = Reduce(view, s, PointerMove(10, 10)) // only the excluded page
	if s.HasHover() {
		t.Errorf("expected no hover outside every painted region, got %d", s.Hovered)
	}
	s = Reduce(view, s, PointerMove(50, 130))
	if s.Hovered != 2 {
		t.Errorf("expected button (2) after re-entering, got %d", s.Hovered)
	}
}

func TestReduce_EnterLeave(t *testing.T) {
	view := buildView()
	s := Reduce(view, Initial(), PointerEnter(3))
	if s.Hovered != 3 {
		t.Fatalf("expected footer (3), got %d", s.Hovered)
	}
	s = Reduce(view, s, Event{Kind: EventPointerLeave})
	if s.HasHover() {
		t.Errorf("pointer leave should clear hover, got %d", s.Hovered)
	}

	s = Reduce(view, s, PointerEnter(2))
	s = Reduce(view, s, Event{Kind: EventContainerLeave})
	if s.HasHover() {
		t.Errorf("container leave should clear hover, got %d", s.Hovered)
	}
}

func TestReduce_EnterIgnoresInvalidTargets(t *testing.T) {
	view := buildView()
	tests := []struct {
		name  string
		index int
	}{
		{"excluded_container", 0},
		{"negative", -1},
		{"out_of_range", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(view, Initial(), PointerEnter(tt.index))
			if s.HasHover() {
				t.Errorf("expected no hover, got %d", s.Hovered)
			}
		})
	}
}

func TestReduce_NoDataIgnoresPointer(t *testing.T) {
	s := Reduce(model.View{}, Initial(), PointerMove(50, 130))
	if s.HasHover() {
		t.Errorf("expected no hover without data, got %d", s.Hovered)
	}
	if s.Cursor != (Point{X: 50, Y: 130}) {
		t.Errorf("cursor should still be recorded, got %+v", s.Cursor)
	}
	s = Reduce(model.View{}, s, PointerEnter(0))
	if s.HasHover() {
		t.Errorf("expected no hover without data, got %d", s.Hovered)
	}
}

func TestReduce_LoadingAndResultReset(t *testing.T) {
	view := buildView()
	s := Initial()
	s = Reduce(view, s, PointerMove(50, 130))
	s = Reduce(view, s, Scroll(2000, 844, 0))
	s = Reduce(view, s, Resize(1200))
	if !s.HasHover() || !s.Scroll.CanScroll || s.ContainerHeight != 1200 {
		t.Fatalf("setup failed: %+v", s)
	}

	loading := Reduce(view, s, Event{Kind: EventLoading})
	if !loading.Loading || loading.HasHover() || loading.Scroll.CanScroll || loading.ContainerHeight != 0 {
		t.Errorf("loading should reset the state, got %+v", loading)
	}
	if got := Reduce(view, loading, PointerMove(50, 130)); got.HasHover() {
		t.Error("pointer should not hover while loading")
	}

	done := Reduce(view, loading, Event{Kind: EventResult})
	if done.Loading || done.HasHover() {
		t.Errorf("result should reset the state, got %+v", done)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	view := buildView()
	s := Initial()
	_ = Reduce(view, s, PointerMove(50, 130))
	if s.HasHover() || s.Cursor != (Point{}) {
		t.Errorf("input state was modified: %+v", s)
	}
}

func TestEventKind_JSON(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"kind":"pointer-move","x":12,"y":34}`), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != EventPointerMove || ev.X != 12 || ev.Y != 34 {
		t.Errorf("got %+v", ev)
	}

	data, err := json.Marshal(Scroll(1000, 500, 495))
	if err != nil {
		t.Fatal(err)
	}
	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != EventScroll || back.ScrollTop != 495 {
		t.Errorf("got %+v from %s", back, data)
	}

	if err := json.Unmarshal([]byte(`{"kind":"teleport"}`), &ev); err == nil {
		t.Error("expected error for unknown event kind")
	}
}

func TestEventKind_String(t *testing.T) {
	if got := EventContainerLeave.String(); got != "container-leave" {
		t.Errorf("got %q", got)
	}
	if got := EventKind(99).String(); got != "EventKind(99)" {
		t.Errorf("got %q", got)
	}
}

func TestInitial(t *testing.T) {
	if Initial().Hovered != overlay.NoHover {
		t.Error("initial state should have no hover")
	}
}
