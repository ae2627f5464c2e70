package viewer

import "github.com/tahmarrrr23/tappval/internal/model"

// Session pairs the result on screen with its interaction state. It is not
// safe for concurrent use; hosts that share a Session serialise access.
type Session struct {
	result *model.AnalyzeResult
	view   model.View
	state  State
}

// NewSession returns a session showing the "no data" state.
func NewSession() *Session {
	return &Session{state: Initial()}
}

// Load replaces the result wholesale and resets the interaction state.
// A nil result shows the "no data" state.
func (s *Session) Load(r *model.AnalyzeResult) {
	s.result = r
	s.view = model.Normalize(r)
	s.state = Reduce(s.view, s.state, Event{Kind: EventResult})
}

// SetLoading enters or leaves the loading state. Either way the interaction
// state is reset; the previous result stays available.
func (s *Session) SetLoading(loading bool) {
	if loading {
		s.state = Reduce(s.view, s.state, Event{Kind: EventLoading})
		return
	}
	s.state = Reduce(s.view, s.state, Event{Kind: EventResult})
}

// Dispatch applies one input event and returns the new display list.
func (s *Session) Dispatch(ev Event) DisplayList {
	s.state = Reduce(s.view, s.state, ev)
	return s.Render()
}

// Render returns the current display list.
func (s *Session) Render() DisplayList {
	return Render(s.view, s.state)
}

// Result returns the loaded result as given, or nil. Unlike View it keeps
// the elements of a result that has no screenshot.
func (s *Session) Result() *model.AnalyzeResult {
	return s.result
}

// View returns the result on screen.
func (s *Session) View() model.View {
	return s.view
}

// State returns the current interaction state.
func (s *Session) State() State {
	return s.state
}
