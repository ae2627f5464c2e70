package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/overlay"
	"github.com/tahmarrrr23/tappval/internal/render"
	"github.com/tahmarrrr23/tappval/internal/viewer"
	"gopkg.in/yaml.v3"
)

// NewMCPServer creates an MCP server exposing h as tools.
func NewMCPServer(h *Host, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("tappval", version)
	h.registerTools(s)
	return s
}

func (h *Host) registerTools(s *mcpserver.MCPServer) {
	// analyze
	s.AddTool(
		mcp.NewTool("analyze",
			mcp.WithDescription("Analyze a web page for tap-target usability and show the result. Returns the summary."),
			mcp.WithString("url", mcp.Description("Page URL to analyze"), mcp.Required()),
			mcp.WithBoolean("refresh", mcp.Description("Ignore any cached result for this URL")),
		),
		h.handleAnalyzeTool,
	)

	// load_result
	s.AddTool(
		mcp.NewTool("load_result",
			mcp.WithDescription("Show an analysis result from a JSON or YAML file"),
			mcp.WithString("path", mcp.Description("Path to the result file"), mcp.Required()),
		),
		h.handleLoadResult,
	)

	// summary
	s.AddTool(
		mcp.NewTool("summary",
			mcp.WithDescription("Summarize the result on screen: element count, average tap success rate, issues, overall tier"),
		),
		h.handleSummary,
	)

	// overlay
	s.AddTool(
		mcp.NewTool("overlay",
			mcp.WithDescription("List the overlay regions in paint order with tier, colours and layer"),
			mcp.WithString("tier", mcp.Description("Only regions of this tier: poor, needs-improvement, good")),
		),
		h.handleOverlay,
	)

	// hover
	s.AddTool(
		mcp.NewTool("hover",
			mcp.WithDescription("Move the pointer over the overlay (CSS pixels) or onto an element by index, and return the tooltip"),
			mcp.WithNumber("x", mcp.Description("Pointer X relative to the overlay")),
			mcp.WithNumber("y", mcp.Description("Pointer Y relative to the overlay")),
			mcp.WithNumber("index", mcp.Description("Hover the element at this detection-order index instead")),
		),
		h.handleHover,
	)

	// leave
	s.AddTool(
		mcp.NewTool("leave",
			mcp.WithDescription("Move the pointer out of the overlay, clearing the hover"),
		),
		h.handleLeave,
	)

	// scroll
	s.AddTool(
		mcp.NewTool("scroll",
			mcp.WithDescription("Report viewport scroll metrics and return whether the scroll hint is shown"),
			mcp.WithNumber("scroll-height", mcp.Description("Total content height"), mcp.Required()),
			mcp.WithNumber("client-height", mcp.Description("Visible viewport height"), mcp.Required()),
			mcp.WithNumber("scroll-top", mcp.Description("Current scroll offset")),
		),
		h.handleScroll,
	)

	// resize
	s.AddTool(
		mcp.NewTool("resize",
			mcp.WithDescription("Report the rendered height of the overlay container, used to keep the tooltip inside it"),
			mcp.WithNumber("container-height", mcp.Description("Container height in CSS pixels (0 = unknown)"), mcp.Required()),
		),
		h.handleResize,
	)

	// screenshot
	s.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Render the screenshot with the overlay and tooltip drawn on it"),
		),
		h.handleScreenshot,
	)
}

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (h *Host) handleAnalyzeTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := stringParam(params, "url", "")
	if boolParam(params, "refresh", false) {
		h.InvalidateCache(target)
	}

	_, err := h.Analyze(ctx, target)
	switch {
	case errors.Is(err, analyze.ErrEmptyURL), errors.Is(err, analyze.ErrBusy):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return mcp.NewToolResultError(analyze.AlertMessage), nil
	}
	return mcp.NewToolResultText(toText(h.Summary())), nil
}

func (h *Host) handleLoadResult(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringParam(request.GetArguments(), "path", "")
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	result, err := model.Load(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := model.Validate(result); err != nil {
		h.logger.Warn("loaded result has invalid fields", "path", path, "error", err)
	}
	h.Load(result)
	return mcp.NewToolResultText(toText(h.Summary())), nil
}

func (h *Host) handleSummary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(h.Summary())), nil
}

func (h *Host) handleOverlay(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dl := h.Render()
	if dl.Placeholder != viewer.PlaceholderNone {
		return mcp.NewToolResultText(toText(dl)), nil
	}
	regions := dl.Regions
	if t := stringParam(request.GetArguments(), "tier", ""); t != "" {
		tier, err := model.ParseTier(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		regions = overlay.FilterTier(regions, tier)
	}
	return mcp.NewToolResultText(toText(regions)), nil
}

// hoverResult is the response of the hover tool.
type hoverResult struct {
	Hovered int             `yaml:"hovered"`
	Tooltip *viewer.Tooltip `yaml:"tooltip,omitempty"`
}

func (h *Host) handleHover(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	var dl viewer.DisplayList
	switch {
	case hasParam(params, "index"):
		dl = h.Dispatch(viewer.PointerEnter(intParam(params, "index", overlay.NoHover)))
	case hasParam(params, "x") && hasParam(params, "y"):
		dl = h.Dispatch(viewer.PointerMove(floatParam(params, "x", 0), floatParam(params, "y", 0)))
	default:
		return mcp.NewToolResultError("either index or both x and y are required"), nil
	}
	return mcp.NewToolResultText(toText(hoverResult{Hovered: h.State().Hovered, Tooltip: dl.Tooltip})), nil
}

func (h *Host) handleLeave(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.Dispatch(viewer.Event{Kind: viewer.EventContainerLeave})
	return mcp.NewToolResultText(toText(h.State())), nil
}

// scrollResult is the response of the scroll tool.
type scrollResult struct {
	viewer.ScrollState `yaml:",inline"`
	ShowHint           bool `yaml:"showHint"`
}

func (h *Host) handleScroll(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	dl := h.Dispatch(viewer.Scroll(
		floatParam(params, "scroll-height", 0),
		floatParam(params, "client-height", 0),
		floatParam(params, "scroll-top", 0),
	))
	return mcp.NewToolResultText(toText(scrollResult{ScrollState: h.State().Scroll, ShowHint: dl.ScrollHint})), nil
}

func (h *Host) handleResize(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	height := floatParam(request.GetArguments(), "container-height", 0)
	if height < 0 {
		return mcp.NewToolResultError("container-height must not be negative"), nil
	}
	h.Dispatch(viewer.Resize(height))
	return mcp.NewToolResultText(toText(h.State())), nil
}

func (h *Host) handleScreenshot(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := h.WritePNG(&buf); err != nil {
		if errors.Is(err, render.ErrNoImage) {
			return mcp.NewToolResultError("no result loaded; run analyze or load_result first"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}
