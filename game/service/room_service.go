package service

import (
	"context"

	"github.com/netpong/netpong/game/engine"
)

// RoomService defines all room-related operations.
type RoomService interface {
	// Membership (driven by the websocket hub)
	CreateRoom(ctx context.Context, connID string) (*RoomInfo, error)
	JoinRoom(ctx context.Context, connID, code string) (*RoomInfo, error)
	LeaveRoom(ctx context.Context, connID string) (*Teardown, bool)

	// Relay scoping: the peer to forward to, provided the sender is
	// currently bound to the named room. ok false means drop.
	PeerInRoom(ctx context.Context, connID, roomCode string) (peerID string, ok bool)

	// InRoom reports whether the connection is currently bound to the
	// named room, regardless of peer presence.
	InRoom(ctx context.Context, connID, roomCode string) bool

	// Observability (REST API, MCP tools)
	GetRoom(ctx context.Context, code string) (*RoomInfo, error)
	ListRooms(ctx context.Context) ([]*RoomInfo, error)
	Stats(ctx context.Context) (*ServerStats, error)
	Settings(ctx context.Context) (*engine.Config, error)
}
