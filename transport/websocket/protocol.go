package websocket

import (
	"encoding/json"
	"fmt"
)

// Client-to-server events.
const (
	EventCreateRoom  = "createRoom"
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventPaddleMove  = "paddleMove"
	EventBallUpdate  = "ballUpdate"
	EventScoreUpdate = "scoreUpdate"
)

// Server-to-client events.
const (
	EventRoomCreated          = "roomCreated"
	EventRoomJoined           = "roomJoined"
	EventRoomError            = "roomError"
	EventGameReady            = "gameReady"
	EventOpponentPaddleMove   = "opponentPaddleMove"
	EventBallSync             = "ballSync"
	EventScoreSync            = "scoreSync"
	EventOpponentDisconnected = "opponentDisconnected"
)

// User-facing join failure messages carried by roomError.
const (
	MsgRoomNotFound  = "Room not found"
	MsgRoomFull      = "Room is full"
	MsgAlreadyInRoom = "Already in a room"
)

// Envelope wraps every protocol message: one JSON envelope per websocket
// text frame.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomAssignment is the payload of roomCreated and roomJoined.
type RoomAssignment struct {
	RoomCode     string `json:"roomCode"`
	PlayerNumber int    `json:"playerNumber"`
}

// JoinRoomPayload is the payload of joinRoom.
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// RoomErrorPayload is the payload of roomError.
type RoomErrorPayload struct {
	Message string `json:"message"`
}

// PaddleMovePayload is the payload of paddleMove and, without the room
// code, of opponentPaddleMove.
type PaddleMovePayload struct {
	RoomCode     string  `json:"roomCode,omitempty"`
	Y            float64 `json:"y"`
	PlayerNumber int     `json:"playerNumber"`
}

// BallUpdatePayload is the payload of ballUpdate and, without the room
// code, of ballSync. Only the host originates it.
type BallUpdatePayload struct {
	RoomCode string  `json:"roomCode,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
}

// ScoreUpdatePayload is the payload of scoreUpdate and, without the room
// code, of scoreSync.
type ScoreUpdatePayload struct {
	RoomCode     string `json:"roomCode,omitempty"`
	Player1Score int    `json:"player1Score"`
	Player2Score int    `json:"player2Score"`
}

// Encode marshals an event and payload into a wire frame. A nil payload
// produces an envelope with no data field (gameReady, opponentDisconnected).
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// DecodeEnvelope parses a wire frame into its envelope.
func DecodeEnvelope(frame []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("envelope missing event")
	}
	return &env, nil
}

// DecodePayload parses an envelope's data into the given payload struct.
func DecodePayload(env *Envelope, payload any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s: missing payload", env.Event)
	}
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return fmt.Errorf("%s: malformed payload: %w", env.Event, err)
	}
	return nil
}
