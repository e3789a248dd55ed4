package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/page-stitch-mcp/internal/config"
	"github.com/ironsheep/page-stitch-mcp/internal/imaging"
	"github.com/ironsheep/page-stitch-mcp/internal/locate"
	"github.com/ironsheep/page-stitch-mcp/internal/logging"
	"github.com/ironsheep/page-stitch-mcp/internal/stitch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "stitch_full_page").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logging.Warn("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Stitching
	case "stitch_full_page":
		return s.handleStitchFullPage(args)
	case "stitch_element":
		return s.handleStitchElement(args)
	case "stitch_named_region":
		return s.handleStitchNamedRegion(args)

	// Diagnostics
	case "detect_sticky_header":
		return s.handleDetectStickyHeader(args)
	case "locate_scroll_subject":
		return s.handleLocateScrollSubject(args)
	case "capture_info":
		return s.handleCaptureInfo(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Capture Input ===

type captureArgs struct {
	Path           string       `json:"path"`
	ImageBase64    string       `json:"image_base64"`
	ViewportWidth  float64      `json:"viewport_width"`
	ViewportHeight float64      `json:"viewport_height"`
	ScrollY        float64      `json:"scroll_y"`
	Rect           *stitch.Rect `json:"rect"`
	Last           bool         `json:"last"`
}

var errNoCaptures = errors.New("captures must contain at least one capture")

// captures reads every capture payload. File-backed captures are read as raw
// bytes and any entry cached for the path by capture_info is dropped, so only
// the stitcher holds decoded surfaces.
func (s *Server) captures(args []captureArgs) ([]stitch.Capture, error) {
	out := make([]stitch.Capture, len(args))
	anyLast := false
	for i, a := range args {
		data, err := s.capturePayload(a)
		if err != nil {
			return nil, fmt.Errorf("capture %d: %w", i, err)
		}
		if a.Path != "" {
			s.cache.Evict(a.Path)
		}

		out[i] = stitch.Capture{
			Data:           data,
			ViewportWidth:  a.ViewportWidth,
			ViewportHeight: a.ViewportHeight,
			ScrollY:        a.ScrollY,
			Rect:           a.Rect,
			Last:           a.Last,
		}
		anyLast = anyLast || a.Last
	}
	if len(out) > 0 && !anyLast {
		out[len(out)-1].Last = true
	}
	return out, nil
}

func (s *Server) capturePayload(a captureArgs) ([]byte, error) {
	switch {
	case a.Path != "":
		return s.cache.Payload(a.Path)
	case strings.HasPrefix(a.ImageBase64, "data:"):
		return []byte(a.ImageBase64), nil
	case a.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("invalid image_base64: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("either path or image_base64 is required")
	}
}

// === Stitch Handlers ===

type stitchOutputArgs struct {
	OutputPath  string `json:"output_path"`
	IncludePlan bool   `json:"include_plan"`
}

// stitchOutput is the tool result of every stitch tool.
type stitchOutput struct {
	Mode            string        `json:"mode"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	HeaderHeight    int           `json:"header_height"`
	CapturesDrawn   int           `json:"captures_drawn"`
	CapturesSkipped int           `json:"captures_skipped"`
	States          []string      `json:"states"`
	SizeBytes       int           `json:"size_bytes"`
	OutputPath      string        `json:"output_path,omitempty"`
	ImageBase64     string        `json:"image_base64,omitempty"`
	Plan            []stitch.Step `json:"plan,omitempty"`
}

func (s *Server) runStitch(args []captureArgs, mode stitch.Mode, out stitchOutputArgs) (*stitchOutput, error) {
	if len(args) == 0 {
		return nil, errNoCaptures
	}
	captures, err := s.captures(args)
	if err != nil {
		return nil, err
	}

	res, err := s.stitcher.Stitch(captures, mode)
	if err != nil {
		return nil, err
	}

	result := &stitchOutput{
		Mode:            res.Layout.Mode,
		Width:           res.Width,
		Height:          res.Height,
		HeaderHeight:    res.HeaderHeight,
		CapturesDrawn:   res.Drawn,
		CapturesSkipped: res.Skipped,
		SizeBytes:       len(res.PNG),
	}
	for _, st := range res.Trace {
		result.States = append(result.States, st.String())
	}
	if out.IncludePlan {
		result.Plan = res.Layout.Steps
	}

	if out.OutputPath == "" {
		result.ImageBase64 = base64.StdEncoding.EncodeToString(res.PNG)
		return result, nil
	}

	path := config.ResolveOutputPath(out.OutputPath, s.cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	logging.Info("wrote %dx%d stitched image to %s", res.Width, res.Height, path)
	result.OutputPath = path
	return result, nil
}

type stitchFullPageArgs struct {
	Captures           []captureArgs `json:"captures"`
	OverlapHeight      float64       `json:"overlap_height"`
	UseCustomContainer bool          `json:"use_custom_container"`
	Container          *stitch.Rect  `json:"container"`
	DevicePixelRatio   float64       `json:"device_pixel_ratio"`
	stitchOutputArgs
}

func (s *Server) handleStitchFullPage(args json.RawMessage) (interface{}, error) {
	var a stitchFullPageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var mode stitch.Mode = stitch.WholePage{Overlap: a.OverlapHeight, DevicePixelRatio: a.DevicePixelRatio}
	if a.UseCustomContainer && a.Container != nil {
		mode = stitch.CustomContainer{
			Overlap:          a.OverlapHeight,
			Container:        *a.Container,
			DevicePixelRatio: a.DevicePixelRatio,
		}
	}
	return s.runStitch(a.Captures, mode, a.stitchOutputArgs)
}

type stitchElementArgs struct {
	Captures      []captureArgs         `json:"captures"`
	Element       *stitch.ElementBounds `json:"element"`
	OverlapHeight float64               `json:"overlap_height"`
	stitchOutputArgs
}

func (s *Server) handleStitchElement(args json.RawMessage) (interface{}, error) {
	var a stitchElementArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Element == nil {
		return nil, errors.New("element bounds are required")
	}
	return s.runStitch(a.Captures, stitch.ElementMode(*a.Element, a.OverlapHeight), a.stitchOutputArgs)
}

type stitchNamedRegionArgs struct {
	Captures      []captureArgs        `json:"captures"`
	Region        *stitch.RegionBounds `json:"region"`
	OverlapHeight float64              `json:"overlap_height"`
	stitchOutputArgs
}

func (s *Server) handleStitchNamedRegion(args json.RawMessage) (interface{}, error) {
	var a stitchNamedRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region == nil {
		return nil, errors.New("region bounds are required")
	}
	return s.runStitch(a.Captures, stitch.NamedRegion{Overlap: a.OverlapHeight, Crop: *a.Region}, a.stitchOutputArgs)
}

// === Diagnostic Handlers ===

type detectStickyHeaderArgs struct {
	Captures         []captureArgs `json:"captures"`
	Container        *stitch.Rect  `json:"container"`
	DevicePixelRatio float64       `json:"device_pixel_ratio"`
}

func (s *Server) handleDetectStickyHeader(args json.RawMessage) (interface{}, error) {
	var a detectStickyHeaderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Captures) < 2 {
		return nil, errors.New("detect_sticky_header needs at least two captures")
	}

	captures, err := s.captures(a.Captures[:2])
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, len(captures))
	for i, c := range captures {
		img, err := imaging.DecodePayload(c.Data)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", stitch.ErrDecode, i, err)
		}
		images[i] = img
	}

	var mode stitch.Mode = stitch.WholePage{DevicePixelRatio: a.DevicePixelRatio}
	if a.Container != nil {
		mode = stitch.CustomContainer{Container: *a.Container, DevicePixelRatio: a.DevicePixelRatio}
	}
	height := stitch.DetectHeader(captures, images, mode)

	return map[string]interface{}{
		"header_height": height,
		"detected":      height > 0,
	}, nil
}

type locateScrollSubjectArgs struct {
	Page          json.RawMessage       `json:"page"`
	Matchers      []locate.MatchLocator `json:"matchers"`
	OverlapHeight float64               `json:"overlap_height"`
}

// locateResult tells the caller which stitch tool to call with which
// arguments once the captures are taken.
type locateResult struct {
	Subject   locate.Subject         `json:"subject"`
	Mode      string                 `json:"mode"`
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

func (s *Server) handleLocateScrollSubject(args json.RawMessage) (interface{}, error) {
	var a locateScrollSubjectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Page) == 0 {
		return nil, errors.New("page snapshot is required")
	}

	page, err := locate.ParsePage(a.Page)
	if err != nil {
		return nil, err
	}
	matchers := append(append([]locate.MatchLocator{}, a.Matchers...), s.cfg.Matchers...)
	subject, err := locate.DefaultChain(matchers...).Locate(page)
	if err != nil {
		return nil, err
	}

	mode := subject.Mode(a.OverlapHeight)
	result := &locateResult{Subject: subject, Mode: mode.Name()}

	switch m := mode.(type) {
	case stitch.CustomContainer:
		result.Tool = "stitch_full_page"
		result.Arguments = map[string]interface{}{
			"overlap_height":       m.Overlap,
			"use_custom_container": true,
			"container":            m.Container,
			"device_pixel_ratio":   m.DevicePixelRatio,
		}
	case stitch.ElementInternalScroll:
		result.Tool = "stitch_element"
		result.Arguments = map[string]interface{}{"overlap_height": m.Overlap, "element": m.Element}
	case stitch.ElementPageScroll:
		result.Tool = "stitch_element"
		result.Arguments = map[string]interface{}{"overlap_height": m.Overlap, "element": m.Element}
	case stitch.WholePage:
		result.Tool = "stitch_full_page"
		result.Arguments = map[string]interface{}{
			"overlap_height":     m.Overlap,
			"device_pixel_ratio": m.DevicePixelRatio,
		}
	}
	return result, nil
}

type captureInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCaptureInfo(args json.RawMessage) (interface{}, error) {
	var a captureInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadCaptureInfo(s.cache, a.Path)
}
