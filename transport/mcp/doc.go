// Package mcp exposes the server's observability API as MCP tools.
//
// The Client is a thin proxy: every tool call becomes a request against
// the REST API and the JSON response is reformatted as readable text.
// No room state lives here, and no tool can mutate a room; matches are
// created and played over the websocket protocol only.
//
// Tools:
//   - list_rooms: live rooms with player counts
//   - room_info: one room by code
//   - server_stats: registry counters and connection count
//   - game_settings: the court settings in effect
//   - list_configs: available settings files
//   - game_rules: how the online protocol works
//
// Run with ServeStdio for use from an MCP-speaking agent:
//
//	client := mcp.NewClient("http://localhost:8080")
//	mcpserver.ServeStdio(client.GetMCPServer())
package mcp
