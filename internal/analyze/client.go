// Package analyze fetches analysis results from the capture engine and
// tracks the lifecycle of one analysis request at a time.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tahmarrrr23/tappval/internal/model"
)

// ErrStatus is wrapped when the engine answers with a non-2xx status.
var ErrStatus = errors.New("analysis engine returned an error status")

// maxResponseBytes bounds the engine response; screenshots are base64 PNGs
// of a full device viewport.
const maxResponseBytes = 64 << 20

// Analyzer produces an analysis result for a target URL.
type Analyzer interface {
	Analyze(ctx context.Context, target string) (*model.AnalyzeResult, error)
}

// Client calls an analysis engine over HTTP: GET <endpoint>?url=<target>.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// NewClient creates a client for endpoint. A zero timeout means no timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// RequestURL returns the engine URL for target, keeping any query the
// endpoint already carries.
func (c *Client) RequestURL(target string) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("url", target)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Analyze requests an analysis of target and decodes the JSON result.
func (c *Client) Analyze(ctx context.Context, target string) (*model.AnalyzeResult, error) {
	reqURL, err := c.RequestURL(target)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request analysis: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, msg)
	}
	return model.Unmarshal(body, false)
}
