package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/netpong/netpong/game/config"
	"github.com/netpong/netpong/game/engine"
	"github.com/netpong/netpong/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Netpong",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Netpong - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Netpong is a two-player online Pong server. Players connect over a
websocket, create a six-character room code, share it, and play. These
tools are read-only observability into the running server; they cannot
create or join rooms.

AVAILABLE TOOLS:
- list_rooms: List live rooms with player counts
- room_info: Get one room by its code
- server_stats: Registry counters and connection count
- game_settings: The court settings in effect
- list_configs: List available settings files
- game_rules: How rooms and the relay protocol work`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live rooms with player counts and readiness",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_info",
		Description: "Get details of one room by its six-character code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": map[string]interface{}{
					"type":        "string",
					"description": "Room code, e.g. AB12C3",
				},
			},
			Required: []string{"code"},
		},
	}, c.handleRoomInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Get registry counters and the live connection count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_settings",
		Description: "Get the court settings the server is running with",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameSettings)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game settings files",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain how rooms, roles, and the relay protocol work",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Rooms []*service.RoomInfo `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/rooms", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += formatRoomLine(r)
	}
	if response.Count == 0 {
		result += "(no rooms open)\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRoomInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	code, _ := args["code"].(string)

	var room service.RoomInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s", strings.ToUpper(code)), nil, &room)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatRoomInfo(&room)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats struct {
		OpenRooms    int `json:"open_rooms"`
		ReadyRooms   int `json:"ready_rooms"`
		TotalCreated int `json:"total_created"`
		TotalJoined  int `json:"total_joined"`
		Connections  int `json:"connections"`
	}

	err := c.apiCall("GET", "/api/stats", nil, &stats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf(`Server Stats:
Open rooms: %d (%d ready)
Connections: %d
Rooms created (lifetime): %d
Rooms joined (lifetime): %d
`,
		stats.OpenRooms, stats.ReadyRooms, stats.Connections,
		stats.TotalCreated, stats.TotalJoined)

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var settings engine.Config
	err := c.apiCall("GET", "/api/settings", nil, &settings)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSettings(&settings)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []config.Info
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Settings Files:\n\n"
	for _, cfg := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Court: %.0fx%.0f, Win score: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.CourtWidth, cfg.CourtHeight, cfg.WinScore)
	}
	if len(configs) == 0 {
		result += "(server is running on built-in defaults)\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `Netpong - Online Match Rules

ROOMS:
- A player creates a room and receives a six-character code (A-Z, 0-9).
- The code is shared out of band; anyone holding it may join.
- A room holds exactly two players. The creator is player 1 (host), the
  joiner is player 2 (guest). A third join attempt gets "Room is full".
- The room is destroyed the moment either player leaves or disconnects.
  The survivor is notified and the code returns to the available pool.

ROLES:
- The host runs ball physics and scoring locally and broadcasts ball and
  score state every simulation tick.
- The guest mirrors the host's ball and score; it never simulates.
- Both players broadcast their own paddle position on every movement
  input, fire and forget. Lost updates are superseded by the next one.

RELAY:
- The server holds no game state. It forwards paddle and ball updates to
  the sender's peer and broadcasts score updates to both players.
- Payloads are not validated; peers are trusted.

SETTINGS:
- Court geometry, speeds, win score, and tick rate come from the server's
  settings (see game_settings). First to the win score takes the match.`

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatRoomLine(room *service.RoomInfo) string {
	status := "waiting for opponent"
	if room.Ready {
		status = "in play"
	}
	return fmt.Sprintf("- %s: %d/2 players, %s (created %s)\n",
		room.Code, room.PlayerCount, status, room.CreatedAt.Format("15:04:05"))
}

func formatRoomInfo(room *service.RoomInfo) string {
	status := "waiting for opponent"
	if room.Ready {
		status = "in play"
	}
	return fmt.Sprintf(`Room %s:
Players: %d/2
Status: %s
Created: %s
`,
		room.Code, room.PlayerCount, status,
		room.CreatedAt.Format("2006-01-02 15:04:05"))
}

func formatSettings(settings *engine.Config) string {
	return fmt.Sprintf(`Game Settings: %s
%s

Court: %.0fx%.0f
Paddles: %.0fx%.0f, inset %.0f, speed %.0f
Ball: radius %.0f, serve speed %.0f, cap %.0f, x%.2f per hit
Win score: %d
Tick rate: %d/s
`,
		settings.Name, settings.Description,
		settings.CourtWidth, settings.CourtHeight,
		settings.PaddleWidth, settings.PaddleHeight, settings.PaddleInset, settings.PaddleSpeed,
		settings.BallRadius, settings.BallSpeed, settings.MaxBallSpeed, settings.SpeedIncrease,
		settings.WinScore, settings.TickRate)
}
