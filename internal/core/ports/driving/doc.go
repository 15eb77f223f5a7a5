// Package driving provides interfaces exposed by the application core to
// external actors (primary/inbound ports): the CLI, the chat TUI, and the
// MCP server.
package driving
