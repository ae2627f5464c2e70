// Package server hosts one viewer session behind the HTTP viewer service
// and the MCP tools.
package server

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/config"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/render"
	"github.com/tahmarrrr23/tappval/internal/summary"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

// Host owns the viewer session, the analysis runner and its result cache.
// All methods are safe for concurrent use.
type Host struct {
	logger *slog.Logger
	cache  *analyze.Cache
	runner *analyze.Runner

	mu      sync.Mutex
	session *viewer.Session
	device  model.Device // fills in results without a complete device
	pending bool         // a runner request is in flight
	seq     uint64       // last runner snapshot applied
	applied *model.AnalyzeResult
}

// NewHost creates a host that analyzes through a, caching results for
// cacheTTL. A nil logger uses slog.Default().
func NewHost(a analyze.Analyzer, cacheTTL time.Duration, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Host{
		logger:  logger,
		cache:   analyze.NewCache(a, cacheTTL),
		session: viewer.NewSession(),
		device:  config.DefaultDevice,
	}
	h.runner = analyze.NewRunner(h.cache, logger)
	h.runner.SetObserver(h.sync)
	return h
}

// sync mirrors the start and end of a runner request into the session.
// Other runner changes, such as a dismissed alert, leave the session alone.
// Snapshots older than the last one applied are dropped, so a run that
// finished before another started cannot end the newer run's loading state.
func (h *Host) sync(s analyze.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.Seq <= h.seq {
		return
	}
	h.seq = s.Seq
	switch {
	case s.Loading:
		h.pending = true
		h.session.SetLoading(true)
	case !h.pending:
	case s.Alert == "" && s.Result != nil, s.Result != h.applied:
		// A success, or a failure following a success whose snapshot was
		// dropped.
		h.pending = false
		h.applied = s.Result
		h.session.Load(model.WithDevice(s.Result, h.device))
	default:
		h.pending = false
		h.session.SetLoading(false)
	}
}

// Analyze runs an analysis of target and shows the result.
func (h *Host) Analyze(ctx context.Context, target string) (*model.AnalyzeResult, error) {
	return h.runner.Run(ctx, target)
}

// Status returns the runner state: loading flag, target and alert.
func (h *Host) Status() analyze.Snapshot {
	return h.runner.Snapshot()
}

// DismissAlert clears the alert.
func (h *Host) DismissAlert() {
	h.runner.DismissAlert()
}

// SetDefaultDevice sets the device used for results that lack one.
func (h *Host) SetDefaultDevice(d model.Device) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.device = d
}

// Load shows r directly, bypassing the engine.
func (h *Host) Load(r *model.AnalyzeResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Load(model.WithDevice(r, h.device))
}

// Dispatch applies ev to the session and returns the new display list.
func (h *Host) Dispatch(ev viewer.Event) viewer.DisplayList {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Dispatch(ev)
}

// Render returns the current display list.
func (h *Host) Render() viewer.DisplayList {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Render()
}

// State returns the current interaction state.
func (h *Host) State() viewer.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.State()
}

// Summary aggregates the result on screen.
func (h *Host) Summary() summary.Summary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return summary.ForResult(h.session.Result())
}

// WritePNG rasterises the current display list.
func (h *Host) WritePNG(w io.Writer) error {
	return render.WritePNG(w, h.Render())
}

// InvalidateCache drops the cached result for target, or every cached
// result when target is empty.
func (h *Host) InvalidateCache(target string) {
	if target == "" {
		h.cache.InvalidateAll()
		return
	}
	h.cache.Invalidate(target)
}
