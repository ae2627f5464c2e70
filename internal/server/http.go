package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/render"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

// maxBodyBytes bounds request bodies; results embed a base64 screenshot.
const maxBodyBytes = 64 << 20

// NewRouter returns the HTTP viewer API for h.
func NewRouter(h *Host) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze", h.handleAnalyze)
		r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, h.Status())
		})
		r.Delete("/alert", func(w http.ResponseWriter, _ *http.Request) {
			h.DismissAlert()
			writeJSON(w, http.StatusOK, h.Status())
		})
		r.Delete("/cache", func(w http.ResponseWriter, r *http.Request) {
			h.InvalidateCache(r.URL.Query().Get("url"))
			w.WriteHeader(http.StatusNoContent)
		})
		r.Put("/result", h.handlePutResult)
		r.Get("/summary", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, h.Summary())
		})

		r.Route("/view", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, h.Render())
			})
			r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, h.State())
			})
			r.Post("/events", h.handleEvent)
			r.Get("/image.png", h.handleImage)
		})
	})
	return r
}

func (h *Host) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// The analysis keeps running if the client goes away; the result is
	// still shown in the session.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.Analyze(ctx, r.URL.Query().Get("url"))
	switch {
	case errors.Is(err, analyze.ErrEmptyURL):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, analyze.ErrBusy):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": analyze.AlertMessage})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Host) handlePutResult(w http.ResponseWriter, r *http.Request) {
	var result model.AnalyzeResult
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode result: %w", err))
		return
	}
	if err := model.Validate(&result); err != nil {
		h.logger.Warn("loaded result has invalid fields", "error", err)
	}
	h.Load(&result)
	writeJSON(w, http.StatusOK, h.Render())
}

func (h *Host) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read event: %w", err))
		return
	}
	var ev viewer.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode event: %w", err))
		return
	}
	switch ev.Kind {
	case 0:
		writeError(w, http.StatusBadRequest, errors.New("event kind is required"))
		return
	case viewer.EventLoading, viewer.EventResult:
		// Loading and result events come from the runner, not from clients.
		writeError(w, http.StatusBadRequest, fmt.Errorf("event %s is not accepted from clients", ev.Kind))
		return
	case viewer.EventPointerEnter:
		// Index 0 is a valid element, so a missing index must not default to it.
		var fields struct {
			Index *int `json:"index"`
		}
		if json.Unmarshal(body, &fields) != nil || fields.Index == nil {
			writeError(w, http.StatusBadRequest, errors.New("pointer-enter requires index"))
			return
		}
	}
	writeJSON(w, http.StatusOK, h.Dispatch(ev))
}

func (h *Host) handleImage(w http.ResponseWriter, _ *http.Request) {
	dl := h.Render()
	img, err := render.DecodeImage(dl)
	if errors.Is(err, render.ErrNoImage) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.EncodePNG(w, render.Annotate(img, dl)); err != nil {
		h.logger.Error("write overlay image", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// ListenAndServe serves the viewer API on addr until ctx is cancelled, then
// shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h *Host) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("viewer listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	h.logger.Info("shutting down viewer")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
