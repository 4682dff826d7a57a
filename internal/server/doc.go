// Package server implements the MCP (Model Context Protocol) server that
// exposes shape analysis and scene generation as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logging goes to stderr only, since stdout carries the protocol.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image analysis:
//   - shapes_analyze: Detect contours in an image file and group them
//
// Descriptor operations (no image needed):
//   - shapes_classify: Nearest reference category per shape
//   - shapes_cluster: Running-mean ratio clustering
//   - shapes_statistics: Ratio, scale and similarity statistics of one group
//
// Scene generation:
//   - scene_generate: Random non-overlapping primitives, optionally rendered
//
// Optional tool arguments fall back to the loaded configuration, so a
// SHAPEKIT_ANALYZE_THRESHOLD set for the process also applies to tool calls.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server, so
// repeated analysis of the same file skips disk I/O. shapes_analyze with
// reload set decodes the file again.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses with:
//   - code -32602: malformed params, bad arguments, unknown tool
//   - code -32000: tool execution failure (decode errors, write errors)
//   - code -32601: unknown method
//
// The data field carries the Go error string.
package server
