// Package server implements the MCP (Model Context Protocol) server for page
// stitching.
//
// This package provides a JSON-RPC 2.0 server that exposes the stitcher
// through the MCP protocol, so an agent driving a browser can hand over its
// scroll captures and get one tall image back.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Stitching:
//   - stitch_full_page: Whole viewport, or a custom scroll container
//   - stitch_element: One element, scrolling internally or with the page
//   - stitch_named_region: Fixed crop rectangle, fixed overlap
//
// Diagnostics:
//   - detect_sticky_header: Sticky header height of two captures
//   - locate_scroll_subject: Pick the scroll subject from a page snapshot
//   - capture_info: Dimensions and format of a capture file
//
// # Captures
//
// Every stitch tool takes an ordered list of captures. A capture is either a
// file path or an inline image (base64 or a data URL). File-backed captures
// go through the image cache and are evicted once the call returns.
//
// # Output
//
// With output_path the PNG is written to disk (relative paths resolve
// against the configured output directory); without it the PNG is returned
// as base64 in the tool result.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, including the failing capture index
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
