// Package service implements the workspace operations shared by the HTTP
// server, the CLI, and the MCP server.
//
// WorkspaceService sits between the transports and the pure core packages
// (parser, validator, formatter, analysis, codec). It enforces source size
// limits, records validation runs in the repository when one is configured,
// updates metrics, and publishes events.
//
// # Event System
//
// Completed operations are published on an EventBus. The server forwards
// them to Server-Sent Events clients through the hub; the watcher publishes
// file_changed events on the same bus.
package service
