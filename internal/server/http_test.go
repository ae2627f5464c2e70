package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/summary"
	"github.com/tahmarrrr23/tappval/internal/viewer"
)

func newTestServer(t *testing.T, a analyze.Analyzer) (*Host, *httptest.Server) {
	t.Helper()
	h := NewHost(a, 0, discardLogger())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return h, srv
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHTTP_Health(t *testing.T) {
	_, srv := newTestServer(t, &fakeAnalyzer{})
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHTTP_Analyze(t *testing.T) {
	tests := []struct {
		name   string
		a      *fakeAnalyzer
		query  string
		status int
	}{
		{"ok", &fakeAnalyzer{result: testResult(t)}, "?url=https%3A%2F%2Fexample.com", http.StatusOK},
		{"empty_url", &fakeAnalyzer{}, "", http.StatusBadRequest},
		{"engine_error", &fakeAnalyzer{err: errors.New("boom")}, "?url=x", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newTestServer(t, tt.a)
			resp, err := http.Get(srv.URL + "/api/analyze" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusBadGateway {
				var body map[string]string
				decode(t, resp, &body)
				if body["error"] != analyze.AlertMessage {
					t.Errorf("error body: got %q", body["error"])
				}
				return
			}
			resp.Body.Close()
		})
	}
}

func TestHTTP_AnalyzeBusy(t *testing.T) {
	a := &fakeAnalyzer{result: testResult(t), started: make(chan struct{}), release: make(chan struct{})}
	_, srv := newTestServer(t, a)

	done := make(chan struct{})
	go func() {
		resp, err := http.Get(srv.URL + "/api/analyze?url=slow")
		if err == nil {
			resp.Body.Close()
		}
		close(done)
	}()
	<-a.started

	resp, err := http.Get(srv.URL + "/api/analyze?url=other")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status: got %d, want 409", resp.StatusCode)
	}

	var dl viewer.DisplayList
	r2, err := http.Get(srv.URL + "/api/view")
	if err != nil {
		t.Fatal(err)
	}
	decode(t, r2, &dl)
	if dl.Placeholder != viewer.PlaceholderLoading {
		t.Errorf("placeholder: got %q", dl.Placeholder)
	}

	close(a.release)
	<-done
}

func TestHTTP_ResultEventsAndSummary(t *testing.T) {
	_, srv := newTestServer(t, &fakeAnalyzer{})

	body, _ := json.Marshal(testResult(t))
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/result", bytes.NewReader(body))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var dl viewer.DisplayList
	decode(t, resp, &dl)
	if len(dl.Regions) != 2 || !strings.HasPrefix(dl.Image, "data:image/png;base64,") {
		t.Fatalf("display list after PUT: regions=%d image=%.30q", len(dl.Regions), dl.Image)
	}

	resp, err = http.Post(srv.URL+"/api/view/events", "application/json",
		strings.NewReader(`{"kind":"pointer-move","x":25,"y":25}`))
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &dl)
	if dl.Tooltip == nil || dl.Tooltip.Rate != "42.00%" {
		t.Fatalf("tooltip: %+v", dl.Tooltip)
	}
	if dl.Tooltip.Position.X != 41 || dl.Tooltip.Position.Y != 41 {
		t.Errorf("tooltip position: %+v", dl.Tooltip.Position)
	}

	resp, err = http.Get(srv.URL + "/api/summary")
	if err != nil {
		t.Fatal(err)
	}
	var s summary.Summary
	decode(t, resp, &s)
	if s.Total != 3 || s.Issues != 1 {
		t.Errorf("summary: %+v", s)
	}
}

func TestHTTP_EventRejectsInvalidEvents(t *testing.T) {
	_, srv := newTestServer(t, &fakeAnalyzer{})
	for _, body := range []string{
		`{"kind":"loading"}`,
		`{"kind":"teleport"}`,
		`not json`,
		`{}`,
		`{"x":10,"y":10}`,
		`{"kind":"pointer-enter"}`,
	} {
		resp, err := http.Post(srv.URL+"/api/view/events", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestHTTP_Image(t *testing.T) {
	h, srv := newTestServer(t, &fakeAnalyzer{})

	resp, err := http.Get(srv.URL + "/api/view/image.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("no result: status %d, want 404", resp.StatusCode)
	}

	h.Load(testResult(t))
	resp, err = http.Get(srv.URL + "/api/view/image.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 390 || img.Bounds().Dy() != 844 {
		t.Errorf("image size: %v", img.Bounds())
	}
}

func TestHTTP_PointerEnterByIndex(t *testing.T) {
	h, srv := newTestServer(t, &fakeAnalyzer{})
	h.Load(testResult(t))

	resp, err := http.Post(srv.URL+"/api/view/events", "application/json", strings.NewReader(`{"kind":"pointer-enter"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest || h.State().HasHover() {
		t.Fatalf("missing index: status %d, hovered %d", resp.StatusCode, h.State().Hovered)
	}

	resp, err = http.Post(srv.URL+"/api/view/events", "application/json", strings.NewReader(`{"kind":"pointer-enter","index":2}`))
	if err != nil {
		t.Fatal(err)
	}
	var dl viewer.DisplayList
	decode(t, resp, &dl)
	if h.State().Hovered != 2 || dl.Tooltip == nil {
		t.Errorf("hovered %d, tooltip %+v", h.State().Hovered, dl.Tooltip)
	}
}
