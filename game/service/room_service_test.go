package service

import (
	"context"
	"testing"

	"github.com/netpong/netpong/game/engine"
	"github.com/netpong/netpong/game/room"
)

func newTestService() RoomService {
	return NewRoomService(room.NewRegistry(), nil)
}

func TestRoomService_CreateAndJoin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, "host")
	if err != nil {
		t.Fatalf("Failed to create room: %v", err)
	}
	if created.PlayerNumber != 1 {
		t.Errorf("Expected creator assigned player 1, got %d", created.PlayerNumber)
	}
	if created.Ready {
		t.Error("Room should not be ready with one member")
	}

	joined, err := svc.JoinRoom(ctx, "guest", created.Code)
	if err != nil {
		t.Fatalf("Failed to join room: %v", err)
	}
	if joined.PlayerNumber != 2 {
		t.Errorf("Expected joiner assigned player 2, got %d", joined.PlayerNumber)
	}
	if !joined.Ready {
		t.Error("Room should be ready with two members")
	}
}

func TestRoomService_JoinErrors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.JoinRoom(ctx, "guest", "ABCDEF"); err != room.ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}

	created, _ := svc.CreateRoom(ctx, "host")
	svc.JoinRoom(ctx, "guest", created.Code)
	if _, err := svc.JoinRoom(ctx, "third", created.Code); err != room.ErrRoomFull {
		t.Errorf("Expected ErrRoomFull, got %v", err)
	}
}

func TestRoomService_LeaveRoom(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateRoom(ctx, "host")
	svc.JoinRoom(ctx, "guest", created.Code)

	teardown, ok := svc.LeaveRoom(ctx, "host")
	if !ok {
		t.Fatal("Expected teardown for a bound connection")
	}
	if teardown.PeerConnID != "guest" {
		t.Errorf("Expected guest as surviving peer, got %q", teardown.PeerConnID)
	}
	if teardown.Room.Code != created.Code {
		t.Errorf("Expected room %q in teardown, got %q", created.Code, teardown.Room.Code)
	}

	if _, ok := svc.LeaveRoom(ctx, "host"); ok {
		t.Error("Second leave should be a no-op")
	}
	if _, err := svc.GetRoom(ctx, created.Code); err != room.ErrRoomNotFound {
		t.Errorf("Expected room gone, got %v", err)
	}
}

func TestRoomService_PeerInRoom(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateRoom(ctx, "host")
	svc.JoinRoom(ctx, "guest", created.Code)

	peer, ok := svc.PeerInRoom(ctx, "host", created.Code)
	if !ok || peer != "guest" {
		t.Errorf("Expected guest as relay target, got %q ok=%v", peer, ok)
	}

	t.Run("sender not bound to named room", func(t *testing.T) {
		if _, ok := svc.PeerInRoom(ctx, "host", "WRONG1"); ok {
			t.Error("Expected drop for mismatched room code")
		}
	})

	t.Run("roomless sender", func(t *testing.T) {
		if _, ok := svc.PeerInRoom(ctx, "stranger", created.Code); ok {
			t.Error("Expected drop for unbound sender")
		}
	})

	t.Run("no peer yet", func(t *testing.T) {
		solo, _ := svc.CreateRoom(ctx, "alone")
		if _, ok := svc.PeerInRoom(ctx, "alone", solo.Code); ok {
			t.Error("Expected no relay target in a one-member room")
		}
	})
}

func TestRoomService_InRoom(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, _ := svc.CreateRoom(ctx, "solo")
	if !svc.InRoom(ctx, "solo", created.Code) {
		t.Error("Expected sole member to be bound to its room")
	}
	if svc.InRoom(ctx, "solo", "WRONG1") {
		t.Error("Expected mismatched code to report unbound")
	}
	if svc.InRoom(ctx, "stranger", created.Code) {
		t.Error("Expected unknown connection to report unbound")
	}
}

func TestRoomService_ListAndStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, _ := svc.CreateRoom(ctx, "a")
	svc.CreateRoom(ctx, "b")
	svc.JoinRoom(ctx, "c", a.Code)

	rooms, err := svc.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 2 {
		t.Errorf("Expected 2 rooms, got %d", len(rooms))
	}
	for _, r := range rooms {
		if r.PlayerNumber != 0 {
			t.Errorf("Listings should not carry a player number, got %d", r.PlayerNumber)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.OpenRooms != 2 || stats.ReadyRooms != 1 {
		t.Errorf("Expected 2 open / 1 ready, got %d / %d", stats.OpenRooms, stats.ReadyRooms)
	}
	if stats.TotalCreated != 2 || stats.TotalJoined != 1 {
		t.Errorf("Unexpected counters: %+v", stats)
	}
}

func TestRoomService_Settings(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		svc := newTestService()
		settings, err := svc.Settings(context.Background())
		if err != nil {
			t.Fatalf("Settings failed: %v", err)
		}
		if settings.CourtWidth != 800 {
			t.Errorf("Expected default settings, got court width %v", settings.CourtWidth)
		}
	})

	t.Run("custom", func(t *testing.T) {
		custom := engine.DefaultConfig()
		custom.WinScore = 21
		svc := NewRoomService(room.NewRegistry(), custom)
		settings, _ := svc.Settings(context.Background())
		if settings.WinScore != 21 {
			t.Errorf("Expected custom win score, got %d", settings.WinScore)
		}
	})
}
