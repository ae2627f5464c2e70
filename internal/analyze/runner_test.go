package analyze

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/tahmarrrr23/tappval/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingAnalyzer waits for release before answering.
type blockingAnalyzer struct {
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingAnalyzer() *blockingAnalyzer {
	return &blockingAnalyzer{started: make(chan struct{}), release: make(chan struct{})}
}

func (a *blockingAnalyzer) Analyze(ctx context.Context, _ string) (*model.AnalyzeResult, error) {
	close(a.started)
	select {
	case <-a.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if a.err != nil {
		return nil, a.err
	}
	return sampleResult(), nil
}

type stubAnalyzer struct {
	result *model.AnalyzeResult
	err    error
}

func (a stubAnalyzer) Analyze(context.Context, string) (*model.AnalyzeResult, error) {
	return a.result, a.err
}

func TestRunner_Success(t *testing.T) {
	r := NewRunner(stubAnalyzer{result: sampleResult()}, discardLogger())

	var snaps []Snapshot
	r.SetObserver(func(s Snapshot) { snaps = append(snaps, s) })

	res, err := r.Run(context.Background(), "  https://example.com ")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || r.Result() != res {
		t.Error("result should be retained")
	}
	if r.Loading() || r.Alert() != "" {
		t.Errorf("state after success: %+v", r.Snapshot())
	}
	if len(snaps) != 2 || !snaps[0].Loading || snaps[1].Loading {
		t.Fatalf("observer should see start then finish, got %+v", snaps)
	}
	if snaps[0].Target != "https://example.com" {
		t.Errorf("target should be trimmed, got %q", snaps[0].Target)
	}
}

func TestRunner_EmptyURL(t *testing.T) {
	called := false
	r := NewRunner(stubAnalyzer{}, discardLogger())
	r.SetObserver(func(Snapshot) { called = true })
	if _, err := r.Run(context.Background(), "   "); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	if called {
		t.Error("blank target must not change state")
	}
}

func TestRunner_FailureKeepsPreviousResult(t *testing.T) {
	a := &stubAnalyzer{result: sampleResult()}
	r := NewRunner(a, discardLogger())
	first, _ := r.Run(context.Background(), "https://ok.example")

	a.result, a.err = nil, errors.New("dial tcp: connection refused")
	if _, err := r.Run(context.Background(), "https://bad.example"); err == nil {
		t.Fatal("expected error")
	}
	if r.Alert() != AlertMessage {
		t.Errorf("alert: got %q", r.Alert())
	}
	if r.Result() != first {
		t.Error("previous result should be kept after a failure")
	}

	// A new attempt clears the alert as soon as it starts.
	a.result, a.err = sampleResult(), nil
	var startAlert string
	r.SetObserver(func(s Snapshot) {
		if s.Loading {
			startAlert = s.Alert
		}
	})
	if _, err := r.Run(context.Background(), "https://ok.example"); err != nil {
		t.Fatal(err)
	}
	if startAlert != "" {
		t.Errorf("alert should be cleared on start, got %q", startAlert)
	}
}

func TestRunner_Busy(t *testing.T) {
	a := newBlockingAnalyzer()
	r := NewRunner(a, discardLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Run(context.Background(), "https://slow.example")
	}()
	<-a.started

	if !r.Loading() {
		t.Error("runner should be loading")
	}
	if _, err := r.Run(context.Background(), "https://other.example"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(a.release)
	wg.Wait()
	if r.Loading() {
		t.Error("runner should be idle after the request finished")
	}
	if r.Snapshot().Target != "https://slow.example" {
		t.Errorf("rejected request must not replace the target, got %q", r.Snapshot().Target)
	}
}

func TestRunner_DismissAlert(t *testing.T) {
	r := NewRunner(stubAnalyzer{err: errors.New("x")}, discardLogger())
	r.Run(context.Background(), "https://bad.example")
	r.DismissAlert()
	if r.Alert() != "" {
		t.Errorf("alert: got %q", r.Alert())
	}
}

func TestRunner_SnapshotSeqIncreases(t *testing.T) {
	r := NewRunner(stubAnalyzer{err: errors.New("x")}, discardLogger())

	var snaps []Snapshot
	r.SetObserver(func(s Snapshot) { snaps = append(snaps, s) })

	r.Run(context.Background(), "https://bad.example")
	r.DismissAlert()
	r.Run(context.Background(), "")

	if len(snaps) != 3 {
		t.Fatalf("observer calls: got %d, want 3 (start, finish, dismiss)", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Seq <= snaps[i-1].Seq {
			t.Errorf("seq must increase: %d then %d", snaps[i-1].Seq, snaps[i].Seq)
		}
	}
	if got := r.Snapshot().Seq; got != snaps[2].Seq {
		t.Errorf("rejected run must not change seq: got %d, want %d", got, snaps[2].Seq)
	}
}
