package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultImagePrefix is prepended to screenshots that arrive as bare base64.
const defaultImagePrefix = "data:image/png;base64,"

// View is a result normalised for display. The zero View is the
// "no data" state.
type View struct {
	Device   Device    `yaml:"device"   json:"device"`
	Elements []Element `yaml:"elements" json:"elements"`
	Image    string    `yaml:"-"        json:"-"` // directly renderable data URI
}

// Ready reports whether the view has an image to draw the overlay on.
func (v View) Ready() bool {
	return v.Image != ""
}

// ScreenshotSource turns a screenshot field into a renderable image
// reference. Data URIs pass through unchanged; anything else is treated as
// base64-encoded PNG.
func ScreenshotSource(screenshot string) string {
	if strings.HasPrefix(screenshot, "data:") {
		return screenshot
	}
	return defaultImagePrefix + screenshot
}

// Normalize prepares a result for display. A nil result or one without a
// screenshot yields the zero View rather than an error; a result without
// elements yields an empty overlay.
func Normalize(r *AnalyzeResult) View {
	if r == nil || r.Screenshot == "" {
		return View{}
	}
	elements := r.Elements
	if elements == nil {
		elements = []Element{}
	}
	return View{
		Device:   r.Device,
		Elements: elements,
		Image:    ScreenshotSource(r.Screenshot),
	}
}

// WithDevice returns r with every zero device field taken from d. A result
// whose device is already complete is returned as is; otherwise the result
// is copied so r itself is never modified.
func WithDevice(r *AnalyzeResult, d Device) *AnalyzeResult {
	if r == nil {
		return nil
	}
	dev := r.Device
	if dev.Width == 0 {
		dev.Width = d.Width
	}
	if dev.Height == 0 {
		dev.Height = d.Height
	}
	if dev.ScaleFactor == 0 {
		dev.ScaleFactor = d.ScaleFactor
	}
	if dev.PPI == 0 {
		dev.PPI = d.PPI
	}
	if dev == r.Device {
		return r
	}
	c := *r
	c.Device = dev
	return &c
}

// DecodeScreenshot returns the raw image bytes behind a screenshot field,
// accepting both bare base64 and base64 data URIs.
func DecodeScreenshot(screenshot string) ([]byte, error) {
	payload := screenshot
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, fmt.Errorf("malformed data URI: missing ','")
		}
		if !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, fmt.Errorf("unsupported data URI encoding: %q", payload[:comma])
		}
		payload = payload[comma+1:]
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("empty screenshot")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some engines strip the padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return data, nil
}

// Validate reports every device or element field that breaks the data model
// invariants. It never modifies the result; callers decide whether to warn
// or refuse.
func Validate(r *AnalyzeResult) error {
	if r == nil {
		return errors.New("result is missing")
	}
	var errs []error
	d := r.Device
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, fmt.Errorf("device: size must be positive, got %dx%d", d.Width, d.Height))
	}
	if d.ScaleFactor <= 0 {
		errs = append(errs, fmt.Errorf("device: scaleFactor must be positive, got %g", d.ScaleFactor))
	}
	if d.PPI <= 0 {
		errs = append(errs, fmt.Errorf("device: ppi must be positive, got %d", d.PPI))
	}
	for i, el := range r.Elements {
		if el.Width < 0 || el.Height < 0 {
			errs = append(errs, fmt.Errorf("element %d: negative size %gx%g", i, el.Width, el.Height))
		}
		if el.TapSuccessRate < 0 || el.TapSuccessRate > 1 {
			errs = append(errs, fmt.Errorf("element %d: tapSuccessRate %g outside [0,1]", i, el.TapSuccessRate))
		}
	}
	return errors.Join(errs...)
}

// Unmarshal decodes a result from JSON or, when isYAML is set, YAML.
func Unmarshal(data []byte, isYAML bool) (*AnalyzeResult, error) {
	var r AnalyzeResult
	if isYAML {
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		return &r, nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &r, nil
}

// Load reads a result file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON.
func Load(path string) (*AnalyzeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return Unmarshal(data, ext == ".yaml" || ext == ".yml")
}

// Save writes a result to path as indented JSON.
func Save(path string, r *AnalyzeResult) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
