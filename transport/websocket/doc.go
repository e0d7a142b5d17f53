// Package websocket provides the websocket transport for online matches.
//
// The websocket package implements:
//   - The wire protocol: one JSON envelope per text frame
//   - Connection lifecycle tracking with opaque connection IDs
//   - Room membership operations (create, join, leave)
//   - Room-scoped relaying of paddle, ball, and score updates
//
// Architecture:
//
// The package uses a hub model: every connection registers with a central
// Hub, and all registry mutations and relay decisions run on the hub's
// single Run loop goroutine. Each inbound message is handled to completion
// before the next, so room state transitions are atomically ordered
// without per-room locking.
//
// Relay Semantics:
//
// The relay never buffers, reorders, or inspects payloads. Paddle and
// ball updates go to the sender's peer only; score updates go to both
// members. A frame whose sender is not bound to the named room is dropped
// silently; a stale message after teardown has no observable effect.
// Per-connection ordering is inherited from the websocket transport.
//
// Disconnects:
//
// A transport-level disconnect unregisters the client exactly once, tears
// the room down, and delivers a single opponentDisconnected to the
// surviving peer. An explicit leaveRoom racing a disconnect converges on
// the same idempotent teardown.
//
// Usage:
//
//	hub := websocket.NewHub(roomService)
//	go hub.Run()
//	http.HandleFunc("/ws", hub.ServeWS)
package websocket
