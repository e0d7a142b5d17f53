package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/netpong/netpong/game/engine"
	"github.com/netpong/netpong/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"status": "healthy",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api/health", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/rooms", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/rooms", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "room not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/rooms/ZZZZZ9", nil, nil)
	if err == nil || err.Error() != "room not found" {
		t.Errorf("Expected the API's error message, got: %v", err)
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	if args == nil {
		args = map[string]interface{}{}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestClient_listRooms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/rooms" {
			t.Errorf("Expected GET /api/rooms, got %s %s", r.Method, r.URL.Path)
		}

		resp := map[string]interface{}{
			"count": 2,
			"rooms": []*service.RoomInfo{
				{Code: "AB12C3", PlayerCount: 2, Ready: true, CreatedAt: time.Now()},
				{Code: "XY99Z8", PlayerCount: 1, CreatedAt: time.Now()},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleListRooms(context.Background(), toolRequest("list_rooms", nil))
	if err != nil {
		t.Fatalf("list_rooms failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "AB12C3") || !strings.Contains(text, "in play") {
		t.Errorf("Expected room details in result, got: %s", text)
	}
	if !strings.Contains(text, "XY99Z8") || !strings.Contains(text, "waiting for opponent") {
		t.Errorf("Expected waiting room in result, got: %s", text)
	}
}

func TestClient_roomInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms/AB12C3" {
			t.Errorf("Expected /api/rooms/AB12C3, got %s", r.URL.Path)
		}

		resp := service.RoomInfo{Code: "AB12C3", PlayerCount: 2, Ready: true, CreatedAt: time.Now()}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	// Lowercase input should be uppercased before the API call.
	result, err := client.handleRoomInfo(context.Background(), toolRequest("room_info", map[string]interface{}{
		"code": "ab12c3",
	}))
	if err != nil {
		t.Fatalf("room_info failed: %v", err)
	}

	text := toolText(t, result)
	if !strings.Contains(text, "Room AB12C3") || !strings.Contains(text, "2/2") {
		t.Errorf("Expected room info in result, got: %s", text)
	}
}

func TestClient_serverStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]int{
			"open_rooms":    3,
			"ready_rooms":   1,
			"total_created": 42,
			"total_joined":  30,
			"connections":   5,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleServerStats(context.Background(), toolRequest("server_stats", nil))
	if err != nil {
		t.Fatalf("server_stats failed: %v", err)
	}

	text := toolText(t, result)
	for _, want := range []string{"Open rooms: 3 (1 ready)", "Connections: 5", "created (lifetime): 42"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_gameSettings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.DefaultConfig())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleGameSettings(context.Background(), toolRequest("game_settings", nil))
	if err != nil {
		t.Fatalf("game_settings failed: %v", err)
	}

	text := toolText(t, result)
	for _, want := range []string{"Court: 800x600", "Win score: 11", "Tick rate: 60/s"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleGameRules(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameRules(context.Background(), toolRequest("game_rules", nil))
	if err != nil {
		t.Fatalf("game_rules failed: %v", err)
	}

	text := toolText(t, result)
	expectedContent := []string{
		"ROOMS:",
		"ROLES:",
		"RELAY:",
		"six-character code",
		"player 1 (host)",
		"Room is full",
		"never simulates",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected %q in rules, got: %s", content, text)
		}
	}
}
