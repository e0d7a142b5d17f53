// Package api provides the HTTP surface of the server.
//
// It exposes a small read-only REST API for observability next to the
// websocket endpoint the game itself runs over:
//
//	GET /api/health           liveness check
//	GET /api/rooms            live rooms, with sort/order/limit params
//	GET /api/rooms/{code}     one room by code
//	GET /api/stats            registry counters plus connection count
//	GET /api/settings         the game settings in effect
//	GET /api/configs          available settings files
//	GET /api/configs/{name}   one settings file
//	GET /ws                   websocket upgrade
//
// Rooms are mutated only through the websocket protocol; the REST API
// never creates, joins, or destroys a room.
package api
