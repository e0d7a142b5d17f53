package room

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("connection already in a room")
)

const (
	// CodeLength is the join code length in characters.
	CodeLength = 6

	// MaxMembers caps room membership by policy, not negotiation.
	MaxMembers = 2

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Room is a snapshot of a single room. Members is ordered: the first entry
// is the host (player 1), the second the guest (player 2).
type Room struct {
	Code      string    `json:"code"`
	Members   []string  `json:"members"`
	HostID    string    `json:"host_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Ready reports whether both players are present.
func (r *Room) Ready() bool {
	return len(r.Members) == MaxMembers
}

// PlayerNumber returns 1 for the host, 2 for the guest, and 0 if the
// connection is not a member.
func (r *Room) PlayerNumber(connID string) int {
	for i, id := range r.Members {
		if id == connID {
			return i + 1
		}
	}
	return 0
}

// Peer returns the other member's connection ID, if present.
func (r *Room) Peer(connID string) (string, bool) {
	for _, id := range r.Members {
		if id != connID {
			return id, true
		}
	}
	return "", false
}

func (r *Room) snapshot() *Room {
	clone := *r
	clone.Members = append([]string(nil), r.Members...)
	return &clone
}

// Stats summarizes registry activity since construction.
type Stats struct {
	OpenRooms    int   `json:"open_rooms"`
	ReadyRooms   int   `json:"ready_rooms"`
	TotalCreated int64 `json:"total_created"`
	TotalJoined  int64 `json:"total_joined"`
	TotalClosed  int64 `json:"total_closed"`
}

// Registry owns the mapping of join codes to live rooms and the
// connection-to-room membership index.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byConn map[string]string // connection ID -> room code

	totalCreated int64
	totalJoined  int64
	totalClosed  int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		byConn: make(map[string]string),
	}
}

// Create makes a new room with the caller as sole member and host. It
// fails only if the connection already belongs to a room.
func (g *Registry) Create(connID string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byConn[connID]; exists {
		return nil, ErrAlreadyInRoom
	}

	code := g.generateCode()
	r := &Room{
		Code:      code,
		Members:   []string{connID},
		HostID:    connID,
		CreatedAt: time.Now(),
	}
	g.rooms[code] = r
	g.byConn[connID] = code
	g.totalCreated++

	return r.snapshot(), nil
}

// Join adds the caller as the room's second member (the guest). Codes are
// matched case-insensitively since players type them by hand.
func (g *Registry) Join(connID, code string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byConn[connID]; exists {
		return nil, ErrAlreadyInRoom
	}

	r, exists := g.rooms[strings.ToUpper(code)]
	if !exists {
		return nil, ErrRoomNotFound
	}
	if len(r.Members) >= MaxMembers {
		return nil, ErrRoomFull
	}

	r.Members = append(r.Members, connID)
	g.byConn[connID] = r.Code
	g.totalJoined++

	return r.snapshot(), nil
}

// Remove destroys the room the connection belongs to, if any. It returns
// the removed room and the surviving peer's connection ID so the caller
// can notify them. Calling it for a roomless connection is a no-op: the
// room record's absence is the teardown tombstone.
func (g *Registry) Remove(connID string) (removed *Room, peerID string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code, exists := g.byConn[connID]
	if !exists {
		return nil, "", false
	}

	r := g.rooms[code]
	delete(g.rooms, code)
	for _, id := range r.Members {
		delete(g.byConn, id)
	}
	g.totalClosed++

	peerID, _ = r.Peer(connID)
	return r.snapshot(), peerID, true
}

// Get returns a snapshot of the room with the given code.
func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, exists := g.rooms[strings.ToUpper(code)]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return r.snapshot(), nil
}

// RoomFor returns a snapshot of the room the connection belongs to.
func (g *Registry) RoomFor(connID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	code, exists := g.byConn[connID]
	if !exists {
		return nil, false
	}
	return g.rooms[code].snapshot(), true
}

// List returns snapshots of all live rooms.
func (g *Registry) List() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		result = append(result, r.snapshot())
	}
	return result
}

// Count returns the number of live rooms.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Stats returns activity counters and current room totals.
func (g *Registry) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ready := 0
	for _, r := range g.rooms {
		if r.Ready() {
			ready++
		}
	}
	return Stats{
		OpenRooms:    len(g.rooms),
		ReadyRooms:   ready,
		TotalCreated: g.totalCreated,
		TotalJoined:  g.totalJoined,
		TotalClosed:  g.totalClosed,
	}
}

// generateCode produces a code not currently in use. Collisions are retried
// by regeneration; with 36^6 codes the loop terminates in practice on the
// first attempt. Callers must hold the write lock.
func (g *Registry) generateCode() string {
	for {
		code := randomCode()
		if _, taken := g.rooms[code]; !taken {
			return code
		}
	}
}

// randomCode draws CodeLength characters from the code alphabet using
// cryptographic randomness.
func randomCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the platform's entropy source is
			// broken; there is no reasonable recovery.
			panic(fmt.Sprintf("room: entropy source unavailable: %v", err))
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}
