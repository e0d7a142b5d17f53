package service

import "time"

// RoomInfo provides information about a live room. PlayerNumber is set on
// create/join results to tell the caller their assigned role; listings
// leave it zero.
type RoomInfo struct {
	Code         string    `json:"code"`
	PlayerCount  int       `json:"player_count"`
	Ready        bool      `json:"ready"`
	CreatedAt    time.Time `json:"created_at"`
	PlayerNumber int       `json:"player_number,omitempty"`
}

// Teardown is the result of removing a room: the room that was destroyed
// and the surviving peer to notify, if any.
type Teardown struct {
	Room       *RoomInfo `json:"room"`
	PeerConnID string    `json:"peer_conn_id,omitempty"`
}

// ServerStats summarizes registry activity for the stats endpoints.
type ServerStats struct {
	OpenRooms     int       `json:"open_rooms"`
	ReadyRooms    int       `json:"ready_rooms"`
	TotalCreated  int64     `json:"total_created"`
	TotalJoined   int64     `json:"total_joined"`
	TotalClosed   int64     `json:"total_closed"`
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}
