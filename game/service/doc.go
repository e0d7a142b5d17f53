// Package service defines the room service boundary between transports
// and the room registry.
//
// RoomService is the interface every transport consumes: the websocket hub
// drives the mutating operations (create, join, leave, relay scoping) while
// the REST API and MCP tools use the read-only ones. Keeping transports on
// the interface lets tests substitute a mock service.
//
// The service owns no simulation state. It validates membership and
// returns relay targets; payload contents are never inspected.
package service
