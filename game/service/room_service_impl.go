package service

import (
	"context"
	"log"
	"time"

	"github.com/netpong/netpong/game/engine"
	"github.com/netpong/netpong/game/room"
)

// roomService implements RoomService over the room registry.
type roomService struct {
	registry  *room.Registry
	settings  *engine.Config
	startedAt time.Time
}

// NewRoomService creates the room service. settings may be nil, in which
// case the engine defaults are served.
func NewRoomService(registry *room.Registry, settings *engine.Config) RoomService {
	if settings == nil {
		settings = engine.DefaultConfig()
	}
	return &roomService{
		registry:  registry,
		settings:  settings,
		startedAt: time.Now(),
	}
}

func (s *roomService) CreateRoom(ctx context.Context, connID string) (*RoomInfo, error) {
	r, err := s.registry.Create(connID)
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOM] created code=%s host=%s", r.Code, connID)
	info := roomInfo(r)
	info.PlayerNumber = 1
	return info, nil
}

func (s *roomService) JoinRoom(ctx context.Context, connID, code string) (*RoomInfo, error) {
	r, err := s.registry.Join(connID, code)
	if err != nil {
		return nil, err
	}

	log.Printf("[ROOM] joined code=%s guest=%s", r.Code, connID)
	info := roomInfo(r)
	info.PlayerNumber = r.PlayerNumber(connID)
	return info, nil
}

func (s *roomService) LeaveRoom(ctx context.Context, connID string) (*Teardown, bool) {
	removed, peerID, ok := s.registry.Remove(connID)
	if !ok {
		return nil, false
	}

	log.Printf("[ROOM] closed code=%s by=%s peer=%s", removed.Code, connID, peerID)
	return &Teardown{Room: roomInfo(removed), PeerConnID: peerID}, true
}

func (s *roomService) PeerInRoom(ctx context.Context, connID, roomCode string) (string, bool) {
	r, ok := s.registry.RoomFor(connID)
	if !ok || r.Code != roomCode {
		return "", false
	}
	return r.Peer(connID)
}

func (s *roomService) InRoom(ctx context.Context, connID, roomCode string) bool {
	r, ok := s.registry.RoomFor(connID)
	return ok && r.Code == roomCode
}

func (s *roomService) GetRoom(ctx context.Context, code string) (*RoomInfo, error) {
	r, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return roomInfo(r), nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]*RoomInfo, error) {
	rooms := s.registry.List()
	result := make([]*RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, roomInfo(r))
	}
	return result, nil
}

func (s *roomService) Stats(ctx context.Context) (*ServerStats, error) {
	stats := s.registry.Stats()
	return &ServerStats{
		OpenRooms:     stats.OpenRooms,
		ReadyRooms:    stats.ReadyRooms,
		TotalCreated:  stats.TotalCreated,
		TotalJoined:   stats.TotalJoined,
		TotalClosed:   stats.TotalClosed,
		StartedAt:     s.startedAt,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}, nil
}

func (s *roomService) Settings(ctx context.Context) (*engine.Config, error) {
	return s.settings, nil
}

func roomInfo(r *room.Room) *RoomInfo {
	return &RoomInfo{
		Code:        r.Code,
		PlayerCount: len(r.Members),
		Ready:       r.Ready(),
		CreatedAt:   r.CreatedAt,
	}
}
