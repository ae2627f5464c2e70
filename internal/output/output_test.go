package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
	"gopkg.in/yaml.v3"
)

func sampleResult() model.AnalyzeResult {
	return model.AnalyzeResult{
		Device: model.Device{Width: 390, Height: 844, ScaleFactor: 3, PPI: 460},
		Elements: []model.Element{
			{Left: 10, Top: 20, Width: 44, Height: 44, TapSuccessRate: 0.9},
		},
		Screenshot: "abc",
	}
}

func TestPrint_YAMLToStdout(t *testing.T) {
	OutputFormat = FormatYAML
	defer func() { OutputFormat = FormatYAML }()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := Print(sampleResult())
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	// YAML output should be multi-line
	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded model.AnalyzeResult
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Device.Width != 390 {
		t.Errorf("width: got %d, want 390", decoded.Device.Width)
	}
	if len(decoded.Elements) != 1 {
		t.Errorf("elements: got %d, want 1", len(decoded.Elements))
	}
}

func TestWriteJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult(), false); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	// Compact output should be a single line (plus newline from Encode)
	if strings.Count(output, "\n") > 1 {
		t.Errorf("compact output should be single line, got:\n%s", output)
	}
	var decoded model.AnalyzeResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Elements[0].TapSuccessRate != 0.9 {
		t.Errorf("rate: got %g", decoded.Elements[0].TapSuccessRate)
	}
}

func TestWriteJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult(), true); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") <= 1 {
		t.Errorf("pretty output should be multi-line, got:\n%s", buf.String())
	}
}

func TestFprint_JSONFormat(t *testing.T) {
	OutputFormat = FormatJSON
	defer func() { OutputFormat = FormatYAML }()

	var buf bytes.Buffer
	if err := Fprint(&buf, map[string]int{"total": 3}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"total":3}` {
		t.Errorf("got %s", got)
	}
}

func TestWriteYAML_ColorsAsText(t *testing.T) {
	regions := overlay.Derive(sampleResult().Device, sampleResult().Elements, 0)
	var buf bytes.Buffer
	if err := WriteYAML(&buf, regions); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "border: '#f59e0bff'") && !strings.Contains(out, `border: "#f59e0bff"`) {
		t.Errorf("expected border colour as hex text, got:\n%s", out)
	}
	if !strings.Contains(out, "tier: needs-improvement") {
		t.Errorf("expected tier in output, got:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("agent"); err == nil {
		t.Error("ParseFormat(\"agent\") should fail")
	}
}
