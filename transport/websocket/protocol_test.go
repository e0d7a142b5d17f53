package websocket

import (
	"encoding/json"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Run("with payload", func(t *testing.T) {
		frame, err := Encode(EventRoomCreated, RoomAssignment{RoomCode: "AB12C3", PlayerNumber: 1})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		var raw map[string]json.RawMessage
		if err := json.Unmarshal(frame, &raw); err != nil {
			t.Fatalf("Frame is not valid JSON: %v", err)
		}
		if string(raw["event"]) != `"roomCreated"` {
			t.Errorf("Unexpected event field: %s", raw["event"])
		}

		var payload RoomAssignment
		if err := json.Unmarshal(raw["data"], &payload); err != nil {
			t.Fatalf("Payload not decodable: %v", err)
		}
		if payload.RoomCode != "AB12C3" || payload.PlayerNumber != 1 {
			t.Errorf("Payload round trip mismatch: %+v", payload)
		}
	})

	t.Run("nil payload omits data", func(t *testing.T) {
		frame, err := Encode(EventGameReady, nil)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if string(frame) != `{"event":"gameReady"}` {
			t.Errorf("Expected bare envelope, got %s", frame)
		}
	})
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		env, err := DecodeEnvelope([]byte(`{"event":"joinRoom","data":{"roomCode":"AB12C3"}}`))
		if err != nil {
			t.Fatalf("DecodeEnvelope failed: %v", err)
		}
		if env.Event != EventJoinRoom {
			t.Errorf("Expected joinRoom, got %q", env.Event)
		}

		var payload JoinRoomPayload
		if err := DecodePayload(env, &payload); err != nil {
			t.Fatalf("DecodePayload failed: %v", err)
		}
		if payload.RoomCode != "AB12C3" {
			t.Errorf("Expected room code AB12C3, got %q", payload.RoomCode)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if _, err := DecodeEnvelope([]byte(`{"event":`)); err == nil {
			t.Error("Expected error for malformed frame")
		}
	})

	t.Run("missing event", func(t *testing.T) {
		if _, err := DecodeEnvelope([]byte(`{"data":{}}`)); err == nil {
			t.Error("Expected error for envelope without event")
		}
	})
}

func TestDecodePayload_Missing(t *testing.T) {
	env := &Envelope{Event: EventPaddleMove}
	var payload PaddleMovePayload
	if err := DecodePayload(env, &payload); err == nil {
		t.Error("Expected error for missing payload")
	}
}

func TestProtocolFieldNames(t *testing.T) {
	// The wire format uses the protocol's camelCase keys; clients in other
	// languages depend on them.
	frame, _ := Encode(EventScoreUpdate, ScoreUpdatePayload{
		RoomCode:     "AB12C3",
		Player1Score: 3,
		Player2Score: 1,
	})

	var raw struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(frame, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"roomCode", "player1Score", "player2Score"} {
		if _, ok := raw.Data[key]; !ok {
			t.Errorf("Missing wire key %q in %v", key, raw.Data)
		}
	}

	frame, _ = Encode(EventBallUpdate, BallUpdatePayload{X: 1, Y: 2, DX: 3, DY: 4})
	if err := json.Unmarshal(frame, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"x", "y", "dx", "dy"} {
		if _, ok := raw.Data[key]; !ok {
			t.Errorf("Missing wire key %q in %v", key, raw.Data)
		}
	}
}
