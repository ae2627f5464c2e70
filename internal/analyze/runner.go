package analyze

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/tahmarrrr23/tappval/internal/model"
)

var (
	// ErrBusy is returned when an analysis is already in flight.
	ErrBusy = errors.New("analysis already in progress")
	// ErrEmptyURL is returned for a blank target; nothing is requested.
	ErrEmptyURL = errors.New("target url is empty")
)

// AlertMessage is the user-facing alert after a failed analysis. The
// underlying error is logged, never shown.
const AlertMessage = "An error occurred during analysis. Please check the URL."

// Snapshot is the observable state of a Runner.
type Snapshot struct {
	Loading bool                 `yaml:"loading"          json:"loading"`
	Target  string               `yaml:"target,omitempty" json:"target,omitempty"`
	Alert   string               `yaml:"alert,omitempty"  json:"alert,omitempty"`
	Result  *model.AnalyzeResult `yaml:"-"                json:"-"`
	// Seq increases with every state change. Observers are called outside
	// the lock, so two notifications can arrive out of order; the one with
	// the higher Seq is the current state.
	Seq uint64 `yaml:"-" json:"-"`
}

// Runner allows one analysis at a time and keeps the last successful result
// on screen while a new one is running or after one fails.
type Runner struct {
	analyzer Analyzer
	logger   *slog.Logger

	mu       sync.Mutex
	loading  bool
	target   string
	alert    string
	result   *model.AnalyzeResult
	seq      uint64
	observer func(Snapshot)
}

// NewRunner creates a runner around a. A nil logger uses slog.Default().
func NewRunner(a Analyzer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{analyzer: a, logger: logger}
}

// SetObserver registers fn to be called after every state change: when a
// request starts, when it finishes and when the alert is dismissed. fn runs
// outside the runner's lock and may see snapshots out of Seq order.
func (r *Runner) SetObserver(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// Run analyzes target. The alert is cleared when the request starts and set
// to AlertMessage if it fails; on failure the previous result is kept.
func (r *Runner) Run(ctx context.Context, target string) (*model.AnalyzeResult, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyURL
	}

	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.loading = true
	r.target = target
	r.alert = ""
	r.seq++
	started, observer := r.snapshotLocked(), r.observer
	r.mu.Unlock()
	notify(observer, started)

	r.logger.Info("analysis started", "url", target)
	result, err := r.analyzer.Analyze(ctx, target)

	r.mu.Lock()
	r.loading = false
	if err != nil {
		r.alert = AlertMessage
	} else {
		r.result = result
	}
	r.seq++
	finished, observer := r.snapshotLocked(), r.observer
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("analysis failed", "url", target, "error", err)
		notify(observer, finished)
		return nil, err
	}
	if verr := model.Validate(result); verr != nil {
		r.logger.Warn("analysis result has invalid fields", "url", target, "error", verr)
	}
	r.logger.Info("analysis finished", "url", target, "elements", len(result.Elements))
	notify(observer, finished)
	return result, nil
}

// Snapshot returns the current state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Loading reports whether an analysis is in flight.
func (r *Runner) Loading() bool { return r.Snapshot().Loading }

// Result returns the last successful result, or nil.
func (r *Runner) Result() *model.AnalyzeResult { return r.Snapshot().Result }

// Alert returns the current alert message, or "".
func (r *Runner) Alert() string { return r.Snapshot().Alert }

// DismissAlert clears the alert without touching the result.
func (r *Runner) DismissAlert() {
	r.mu.Lock()
	r.alert = ""
	r.seq++
	snap, observer := r.snapshotLocked(), r.observer
	r.mu.Unlock()
	notify(observer, snap)
}

func (r *Runner) snapshotLocked() Snapshot {
	return Snapshot{Loading: r.loading, Target: r.target, Alert: r.alert, Result: r.result, Seq: r.seq}
}

func notify(fn func(Snapshot), s Snapshot) {
	if fn != nil {
		fn(s)
	}
}
