package websocket

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/netpong/netpong/game/room"
	"github.com/netpong/netpong/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound buffer per client. Relay traffic is latest-value-wins, so a
	// client that cannot drain this many frames is dropped.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client represents one websocket connection. Its ID is the opaque
// connection identity the registry binds room membership to.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// inbound pairs a decoded frame with the client that sent it.
type inbound struct {
	client *Client
	env    *Envelope
}

// Hub tracks connection lifecycles and relays room-scoped events. All
// registry mutations and relay decisions happen on the Run loop goroutine,
// so each inbound message is handled to completion before the next: an
// explicit leave and a transport disconnect for the same connection cannot
// interleave.
type Hub struct {
	service service.RoomService

	clients    map[string]*Client
	inbound    chan *inbound
	register   chan *Client
	unregister chan *Client

	connCount atomic.Int64
}

// NewHub creates a hub backed by the given room service.
func NewHub(svc service.RoomService) *Hub {
	return &Hub{
		service:    svc,
		clients:    make(map[string]*Client),
		inbound:    make(chan *inbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.inbound:
			h.dispatch(msg.client, msg.env)
		}
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	return int(h.connCount.Load())
}

// ServeWS upgrades an HTTP request into a tracked websocket connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.NewString(),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// registerClient starts tracking a connection.
func (h *Hub) registerClient(client *Client) {
	h.clients[client.id] = client
	h.connCount.Add(1)
	log.Printf("Client %s connected (total: %d)", client.id, len(h.clients))
}

// unregisterClient stops tracking a connection and tears down its room.
// Safe to call more than once for the same client; only the first call
// observes the client in the map.
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	h.connCount.Add(-1)

	// Room teardown and peer notification. LeaveRoom is idempotent, so a
	// leaveRoom frame processed moments earlier makes this a no-op.
	if teardown, ok := h.service.LeaveRoom(context.Background(), client.id); ok {
		if teardown.PeerConnID != "" {
			h.sendTo(teardown.PeerConnID, EventOpponentDisconnected, nil)
		}
	}

	log.Printf("Client %s disconnected (total: %d)", client.id, len(h.clients))
}

// dispatch routes one decoded frame. Membership operations mutate the
// registry; relay operations forward payloads without inspecting them.
func (h *Hub) dispatch(client *Client, env *Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventCreateRoom:
		h.handleCreateRoom(ctx, client)
	case EventJoinRoom:
		h.handleJoinRoom(ctx, client, env)
	case EventLeaveRoom:
		h.handleLeaveRoom(ctx, client)
	case EventPaddleMove:
		h.relayPaddleMove(ctx, client, env)
	case EventBallUpdate:
		h.relayBallUpdate(ctx, client, env)
	case EventScoreUpdate:
		h.relayScoreUpdate(ctx, client, env)
	default:
		log.Printf("Client %s sent unknown event %q", client.id, env.Event)
	}
}

func (h *Hub) handleCreateRoom(ctx context.Context, client *Client) {
	info, err := h.service.CreateRoom(ctx, client.id)
	if err != nil {
		h.sendTo(client.id, EventRoomError, RoomErrorPayload{Message: MsgAlreadyInRoom})
		return
	}

	h.sendTo(client.id, EventRoomCreated, RoomAssignment{
		RoomCode:     info.Code,
		PlayerNumber: info.PlayerNumber,
	})
}

func (h *Hub) handleJoinRoom(ctx context.Context, client *Client, env *Envelope) {
	var payload JoinRoomPayload
	if err := DecodePayload(env, &payload); err != nil {
		log.Printf("Client %s: %v", client.id, err)
		return
	}

	info, err := h.service.JoinRoom(ctx, client.id, payload.RoomCode)
	if err != nil {
		h.sendTo(client.id, EventRoomError, RoomErrorPayload{Message: joinErrorMessage(err)})
		return
	}

	h.sendTo(client.id, EventRoomJoined, RoomAssignment{
		RoomCode:     info.Code,
		PlayerNumber: info.PlayerNumber,
	})

	// Both players are present; tell them the game can start.
	h.sendTo(client.id, EventGameReady, nil)
	if peer, ok := h.service.PeerInRoom(ctx, client.id, info.Code); ok {
		h.sendTo(peer, EventGameReady, nil)
	}
}

func (h *Hub) handleLeaveRoom(ctx context.Context, client *Client) {
	if teardown, ok := h.service.LeaveRoom(ctx, client.id); ok {
		if teardown.PeerConnID != "" {
			h.sendTo(teardown.PeerConnID, EventOpponentDisconnected, nil)
		}
	}
}

// relayPaddleMove forwards a paddle position to the sender's peer. A
// sender not bound to the named room is dropped silently: a stale frame
// after teardown must have no observable effect.
func (h *Hub) relayPaddleMove(ctx context.Context, client *Client, env *Envelope) {
	var payload PaddleMovePayload
	if err := DecodePayload(env, &payload); err != nil {
		log.Printf("Client %s: %v", client.id, err)
		return
	}

	peer, ok := h.service.PeerInRoom(ctx, client.id, payload.RoomCode)
	if !ok {
		return
	}
	h.sendTo(peer, EventOpponentPaddleMove, PaddleMovePayload{
		Y:            payload.Y,
		PlayerNumber: payload.PlayerNumber,
	})
}

// relayBallUpdate forwards ball state to the sender's peer. Host authority
// is client convention; the relay does not verify the sender is the host.
func (h *Hub) relayBallUpdate(ctx context.Context, client *Client, env *Envelope) {
	var payload BallUpdatePayload
	if err := DecodePayload(env, &payload); err != nil {
		log.Printf("Client %s: %v", client.id, err)
		return
	}

	peer, ok := h.service.PeerInRoom(ctx, client.id, payload.RoomCode)
	if !ok {
		return
	}
	h.sendTo(peer, EventBallSync, BallUpdatePayload{
		X:  payload.X,
		Y:  payload.Y,
		DX: payload.DX,
		DY: payload.DY,
	})
}

// relayScoreUpdate broadcasts the score to both room members, sender
// included, mirroring the room-wide scoreboard.
func (h *Hub) relayScoreUpdate(ctx context.Context, client *Client, env *Envelope) {
	var payload ScoreUpdatePayload
	if err := DecodePayload(env, &payload); err != nil {
		log.Printf("Client %s: %v", client.id, err)
		return
	}

	if !h.service.InRoom(ctx, client.id, payload.RoomCode) {
		return
	}

	sync := ScoreUpdatePayload{
		Player1Score: payload.Player1Score,
		Player2Score: payload.Player2Score,
	}
	h.sendTo(client.id, EventScoreSync, sync)
	if peer, ok := h.service.PeerInRoom(ctx, client.id, payload.RoomCode); ok {
		h.sendTo(peer, EventScoreSync, sync)
	}
}

// joinErrorMessage maps registry errors onto the protocol's user-facing
// messages.
func joinErrorMessage(err error) string {
	switch err {
	case room.ErrRoomNotFound:
		return MsgRoomNotFound
	case room.ErrRoomFull:
		return MsgRoomFull
	case room.ErrAlreadyInRoom:
		return MsgAlreadyInRoom
	default:
		return err.Error()
	}
}

// sendTo marshals and queues a frame for one connection. A client whose
// send buffer is full is dropped: slow consumers cannot stall the loop,
// and relay traffic is superseded by the next tick anyway.
func (h *Hub) sendTo(connID, event string, payload any) {
	client, ok := h.clients[connID]
	if !ok {
		return
	}

	frame, err := Encode(event, payload)
	if err != nil {
		log.Printf("Failed to encode %s: %v", event, err)
		return
	}

	select {
	case client.send <- frame:
	default:
		h.unregisterClient(client)
	}
}

// readPump pumps frames from the websocket connection into the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		env, err := DecodeEnvelope(frame)
		if err != nil {
			log.Printf("Client %s: %v", c.id, err)
			continue
		}
		c.hub.inbound <- &inbound{client: c, env: env}
	}
}

// writePump pumps queued frames to the websocket connection. Each frame is
// written as its own message so the peer can decode envelopes one per
// frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
