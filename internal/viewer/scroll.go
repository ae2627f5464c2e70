package viewer

// Scroll tolerances in CSS pixels.
const (
	scrollSlack  = 2 // absorbs sub-pixel rounding of scrollHeight
	bottomMargin = 8
)

// ScrollState tells whether more content exists below the visible viewport.
type ScrollState struct {
	CanScroll  bool `yaml:"canScroll"  json:"canScroll"`
	IsAtBottom bool `yaml:"isAtBottom" json:"isAtBottom"`
}

// EvaluateScroll derives the scroll affordance from the current scroll
// metrics of the viewport.
func EvaluateScroll(scrollHeight, clientHeight, scrollTop float64) ScrollState {
	return ScrollState{
		CanScroll:  scrollHeight > clientHeight+scrollSlack,
		IsAtBottom: scrollHeight-scrollTop-clientHeight < bottomMargin,
	}
}

// ShowHint reports whether the "scroll for more" hint should be visible.
func ShowHint(s ScrollState, resultPresent, loading bool) bool {
	return s.CanScroll && !s.IsAtBottom && resultPresent && !loading
}
