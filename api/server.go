package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/netpong/netpong/game/config"
	"github.com/netpong/netpong/game/service"
	"github.com/netpong/netpong/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RoomService
	hub     *websocket.Hub
	configs *config.Manager
	router  *mux.Router
}

// NewServer creates a new API server. The settings manager may be nil when
// the server runs on built-in defaults only.
func NewServer(roomService service.RoomService, hub *websocket.Hub, configs *config.Manager) *Server {
	s := &Server{
		service: roomService,
		hub:     hub,
		configs: configs,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Room observability (read-only; rooms are mutated over the websocket)
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{code}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// Game settings
	api.HandleFunc("/settings", s.handleSettings).Methods("GET")
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Room Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created" (default), "players"
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of rooms to return

	if sortBy == "" {
		sortBy = "created"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(rooms, func(i, j int) bool {
		var less bool
		if sortBy == "players" {
			less = rooms[i].PlayerCount < rooms[j].PlayerCount
		} else { // "created"
			less = rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		if order == "asc" {
			return less
		}
		return !less // desc
	})

	// Apply limit if specified
	limit := len(rooms)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(rooms) {
			limit = l
		}
	}
	rooms = rooms[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := vars["code"]

	room, err := s.service.GetRoom(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	connections := 0
	if s.hub != nil {
		connections = s.hub.ConnectionCount()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"open_rooms":    stats.OpenRooms,
		"ready_rooms":   stats.ReadyRooms,
		"total_created": stats.TotalCreated,
		"total_joined":  stats.TotalJoined,
		"connections":   connections,
	})
}

// Settings Handlers

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.service.Settings(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	if s.configs == nil {
		respondJSON(w, http.StatusOK, []*config.Info{})
		return
	}

	infos, err := s.configs.ListConfigs()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if infos == nil {
		infos = []*config.Info{}
	}

	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.configs == nil {
		respondError(w, http.StatusNotFound, "no settings directory configured")
		return
	}

	vars := mux.Vars(r)
	configName := vars["name"]

	// Remove .json extension if present
	configName = strings.TrimSuffix(configName, ".json")

	cfg, err := s.configs.LoadConfig(configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}
