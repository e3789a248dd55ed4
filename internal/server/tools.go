package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// rectSchema describes a rectangle in logical (CSS) pixels.
func rectSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"left":   map[string]interface{}{"type": "number"},
			"top":    map[string]interface{}{"type": "number"},
			"width":  map[string]interface{}{"type": "number"},
			"height": map[string]interface{}{"type": "number"},
		},
		"required": []string{"left", "top", "width", "height"},
	}
}

// capturesSchema describes the ordered capture list shared by the stitch tools.
func capturesSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Captures in increasing scroll order. Each capture gives either a file path or an inline image.",
		"minItems":    1,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the capture (PNG, JPEG, GIF, WebP, or a file holding a data URL)",
				},
				"image_base64": map[string]interface{}{
					"type":        "string",
					"description": "Inline capture as base64 or a data:image/...;base64, URL",
				},
				"viewport_width": map[string]interface{}{
					"type":        "number",
					"description": "Viewport width at capture time, logical pixels",
				},
				"viewport_height": map[string]interface{}{
					"type":        "number",
					"description": "Viewport height at capture time, logical pixels",
				},
				"scroll_y": map[string]interface{}{
					"type":        "number",
					"description": "Scroll offset of the capture, logical pixels",
				},
				"rect": rectSchema("Subject rectangle in the viewport at capture time. Needed when the element moves with the page."),
				"last": map[string]interface{}{
					"type":        "boolean",
					"description": "Marks the final capture",
				},
			},
		},
	}
}

func overlapSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Overlap between consecutive captures, logical pixels",
		"default":     0,
	}
}

func outputPathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Where to write the PNG. Relative paths resolve against the configured output directory. When omitted the PNG is returned as base64.",
	}
}

func includePlanSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Include the resolved per-capture draw plan in the result",
		"default":     false,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Stitching
		{
			Name:        "stitch_full_page",
			Description: "Stitch scrolled viewport captures into one tall PNG. Detects a sticky header and skips it on every capture after the first. With use_custom_container, every capture is first cropped to the scroll container.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"captures":       capturesSchema(),
					"overlap_height": overlapSchema(),
					"use_custom_container": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop every capture to container before stitching",
						"default":     false,
					},
					"container": rectSchema("Scroll container bounds, logical pixels"),
					"device_pixel_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Device pixel ratio of the captures. Default 1",
						"default":     1.0,
					},
					"output_path":  outputPathSchema(),
					"include_plan": includePlanSchema(),
				},
				"required": []string{"captures"},
			},
		},
		{
			Name:        "stitch_element",
			Description: "Stitch captures of one element, cropping each capture to it. has_internal_scroll selects whether the content scrolls inside a fixed element or the element moves with the page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"captures": capturesSchema(),
					"element": map[string]interface{}{
						"type":        "object",
						"description": "Element bounds, logical pixels. For page scroll, height is the full element height.",
						"properties": map[string]interface{}{
							"width":               map[string]interface{}{"type": "number"},
							"height":              map[string]interface{}{"type": "number"},
							"offset_x":            map[string]interface{}{"type": "number"},
							"offset_y":            map[string]interface{}{"type": "number"},
							"device_pixel_ratio":  map[string]interface{}{"type": "number"},
							"has_internal_scroll": map[string]interface{}{"type": "boolean"},
						},
						"required": []string{"width", "height"},
					},
					"overlap_height": overlapSchema(),
					"output_path":    outputPathSchema(),
					"include_plan":   includePlanSchema(),
				},
				"required": []string{"captures", "element"},
			},
		},
		{
			Name:        "stitch_named_region",
			Description: "Stitch a fixed crop rectangle of every capture with a fixed overlap and no header detection. Use for a known panel of a page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"captures": capturesSchema(),
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Crop rectangle, logical pixels",
						"properties": map[string]interface{}{
							"left":               map[string]interface{}{"type": "number"},
							"top":                map[string]interface{}{"type": "number"},
							"width":              map[string]interface{}{"type": "number"},
							"height":             map[string]interface{}{"type": "number"},
							"device_pixel_ratio": map[string]interface{}{"type": "number"},
						},
						"required": []string{"left", "top", "width", "height"},
					},
					"overlap_height": overlapSchema(),
					"output_path":    outputPathSchema(),
					"include_plan":   includePlanSchema(),
				},
				"required": []string{"captures", "region"},
			},
		},

		// Diagnostics
		{
			Name:        "detect_sticky_header",
			Description: "Compare the top of the first two captures and report the height of a sticky header, or 0 when none is found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"captures":  capturesSchema(),
					"container": rectSchema("Optional scroll container; comparison runs inside it"),
					"device_pixel_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Device pixel ratio of the captures. Default 1",
						"default":     1.0,
					},
				},
				"required": []string{"captures"},
			},
		},
		{
			Name:        "locate_scroll_subject",
			Description: "Pick what to scroll and stitch from a page snapshot: a site-specific panel, the document, or the largest scroll container. Returns the subject and the stitch tool arguments to use.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"page": map[string]interface{}{
						"type":        "object",
						"description": "Page snapshot: url, viewport_width, viewport_height, device_pixel_ratio, document_height and elements (selector, tag, id, classes, role, computed_styles, bounding_rect, scroll_height, client_height)",
					},
					"matchers": map[string]interface{}{
						"type":        "array",
						"description": "Site-specific matchers tried before the generic strategies",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":  map[string]interface{}{"type": "string"},
								"id":    map[string]interface{}{"type": "string"},
								"class": map[string]interface{}{"type": "string"},
								"tag":   map[string]interface{}{"type": "string"},
								"role":  map[string]interface{}{"type": "string"},
							},
						},
					},
					"overlap_height": overlapSchema(),
				},
				"required": []string{"page"},
			},
		},
		{
			Name:        "capture_info",
			Description: "Decode a capture file and return its pixel dimensions, detected format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the capture file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
