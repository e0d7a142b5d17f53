package room

import (
	"strings"
	"testing"
)

func TestRegistry_Create(t *testing.T) {
	registry := NewRegistry()

	r, err := registry.Create("conn-a")
	if err != nil {
		t.Fatalf("Failed to create room: %v", err)
	}

	if len(r.Code) != CodeLength {
		t.Errorf("Expected %d-character code, got %q", CodeLength, r.Code)
	}
	for _, ch := range r.Code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			t.Errorf("Code %q contains character outside alphabet", r.Code)
		}
	}
	if r.HostID != "conn-a" {
		t.Errorf("Expected creator as host, got %q", r.HostID)
	}
	if r.PlayerNumber("conn-a") != 1 {
		t.Errorf("Expected creator as player 1, got %d", r.PlayerNumber("conn-a"))
	}
	if r.Ready() {
		t.Error("Room with one member should not be ready")
	}

	t.Run("creator cannot create twice", func(t *testing.T) {
		if _, err := registry.Create("conn-a"); err != ErrAlreadyInRoom {
			t.Errorf("Expected ErrAlreadyInRoom, got %v", err)
		}
	})
}

func TestRegistry_UniqueCodes(t *testing.T) {
	registry := NewRegistry()
	seen := make(map[string]bool)

	for i := 0; i < 200; i++ {
		r, err := registry.Create(strings.Repeat("x", i+1))
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[r.Code] {
			t.Fatalf("Duplicate live code %q", r.Code)
		}
		seen[r.Code] = true
	}
}

func TestRegistry_Join(t *testing.T) {
	registry := NewRegistry()
	created, _ := registry.Create("host")

	t.Run("unknown code", func(t *testing.T) {
		if _, err := registry.Join("guest", "NOPE99"); err != ErrRoomNotFound {
			t.Errorf("Expected ErrRoomNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		r, err := registry.Join("guest", created.Code)
		if err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if !r.Ready() {
			t.Error("Room with two members should be ready")
		}
		if r.PlayerNumber("host") != 1 || r.PlayerNumber("guest") != 2 {
			t.Errorf("Expected players {1,2}, got %d and %d",
				r.PlayerNumber("host"), r.PlayerNumber("guest"))
		}
		if peer, ok := r.Peer("host"); !ok || peer != "guest" {
			t.Errorf("Expected guest as host's peer, got %q", peer)
		}
	})

	t.Run("full room rejects a third member", func(t *testing.T) {
		if _, err := registry.Join("third", created.Code); err != ErrRoomFull {
			t.Errorf("Expected ErrRoomFull, got %v", err)
		}
		r, err := registry.Get(created.Code)
		if err != nil {
			t.Fatalf("Room disappeared: %v", err)
		}
		if len(r.Members) != 2 {
			t.Errorf("Expected membership unchanged, got %d members", len(r.Members))
		}
	})

	t.Run("case-insensitive code", func(t *testing.T) {
		other, _ := registry.Create("host2")
		if _, err := registry.Join("guest2", strings.ToLower(other.Code)); err != nil {
			t.Errorf("Lowercase code should match: %v", err)
		}
	})

	t.Run("member cannot join another room", func(t *testing.T) {
		other, _ := registry.Create("host3")
		if _, err := registry.Join("guest", other.Code); err != ErrAlreadyInRoom {
			t.Errorf("Expected ErrAlreadyInRoom, got %v", err)
		}
	})
}

func TestRegistry_Remove(t *testing.T) {
	registry := NewRegistry()
	created, _ := registry.Create("host")
	registry.Join("guest", created.Code)

	removed, peerID, ok := registry.Remove("guest")
	if !ok {
		t.Fatal("Expected removal to find the room")
	}
	if removed.Code != created.Code {
		t.Errorf("Expected room %q removed, got %q", created.Code, removed.Code)
	}
	if peerID != "host" {
		t.Errorf("Expected host as surviving peer, got %q", peerID)
	}

	if _, err := registry.Get(created.Code); err != ErrRoomNotFound {
		t.Errorf("Expected room gone from registry, got %v", err)
	}
	if _, err := registry.Join("late", created.Code); err != ErrRoomNotFound {
		t.Errorf("Expected join after teardown to fail with ErrRoomNotFound, got %v", err)
	}

	t.Run("idempotent", func(t *testing.T) {
		if _, _, ok := registry.Remove("guest"); ok {
			t.Error("Second removal should be a no-op")
		}
		if _, _, ok := registry.Remove("host"); ok {
			t.Error("Peer was unbound by the room teardown; removal should be a no-op")
		}
	})

	t.Run("roomless connection", func(t *testing.T) {
		if _, _, ok := registry.Remove("stranger"); ok {
			t.Error("Expected no-op for a connection with no membership")
		}
	})

	t.Run("members free to start over", func(t *testing.T) {
		if _, err := registry.Create("host"); err != nil {
			t.Errorf("Host should be unbound after teardown: %v", err)
		}
		if _, err := registry.Create("guest"); err != nil {
			t.Errorf("Guest should be unbound after teardown: %v", err)
		}
	})
}

func TestRegistry_RoomFor(t *testing.T) {
	registry := NewRegistry()
	created, _ := registry.Create("host")

	r, ok := registry.RoomFor("host")
	if !ok || r.Code != created.Code {
		t.Errorf("Expected host bound to %q", created.Code)
	}
	if _, ok := registry.RoomFor("stranger"); ok {
		t.Error("Expected no room for unbound connection")
	}
}

func TestRegistry_Stats(t *testing.T) {
	registry := NewRegistry()

	a, _ := registry.Create("a")
	registry.Create("b")
	registry.Join("c", a.Code)
	registry.Remove("b")

	stats := registry.Stats()
	if stats.OpenRooms != 1 {
		t.Errorf("Expected 1 open room, got %d", stats.OpenRooms)
	}
	if stats.ReadyRooms != 1 {
		t.Errorf("Expected 1 ready room, got %d", stats.ReadyRooms)
	}
	if stats.TotalCreated != 2 {
		t.Errorf("Expected 2 created, got %d", stats.TotalCreated)
	}
	if stats.TotalJoined != 1 {
		t.Errorf("Expected 1 joined, got %d", stats.TotalJoined)
	}
	if stats.TotalClosed != 1 {
		t.Errorf("Expected 1 closed, got %d", stats.TotalClosed)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	registry := NewRegistry()
	r, _ := registry.Create("host")

	// Mutating the returned snapshot must not affect the registry.
	r.Members = append(r.Members, "intruder")
	fresh, _ := registry.Get(r.Code)
	if len(fresh.Members) != 1 {
		t.Errorf("Registry state leaked through snapshot: %d members", len(fresh.Members))
	}
}
