// Package server implements the MCP (Model Context Protocol) server for face
// detection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the region detector
// through the MCP protocol, so that MCP-compatible clients can ask where the
// faces, eyes and smiles in an image file are.
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
//   - faces_detect: Detect faces, and eyes and smiles inside each face
//   - faces_annotate: Detect and return the image with rectangles drawn
//   - faces_config: Report classifier models, tuning values and colors
//
// Eye and smile rectangles are relative to the top-left corner of their face.
//
// # Image Caching
//
// Images are cached by path and reused across tool calls. Annotation always
// draws on a copy, so cached images stay pristine.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(detector, colors, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
