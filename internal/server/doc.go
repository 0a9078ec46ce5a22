// Package server implements the MCP (Model Context Protocol) server for the
// background and upscaling tools.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color at pixel
//
// Background Operations:
//   - image_detect_background: Estimate the background color and its coverage
//   - image_remove_background: Transparent or solid-color cutout to PNG
//   - image_transparent_background: Fade the background to a transparency level
//
// Upscaling:
//   - image_upscale: 2x, 4x or 8x enlargement with sharpening
//
// Tools that produce images write them to the caller's output_path and
// return a JSON summary; image bytes never travel over the protocol. Every
// call reads its input from disk again, so edits between calls are seen.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Malformed lines get a -32700 parse error with a null id.
//
// # Logging
//
// stdout carries protocol traffic only. Diagnostics go to the slog logger
// passed to New, which the command points at stderr.
package server
