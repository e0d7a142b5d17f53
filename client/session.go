package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netpong/netpong/game/engine"
	"github.com/netpong/netpong/game/room"
	wire "github.com/netpong/netpong/transport/websocket"
)

// Phase is the session's position in the match lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingPeer
	PhaseReady
	PhaseActive
	PhaseTornDown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingPeer:
		return "awaitingPeer"
	case PhaseReady:
		return "ready"
	case PhaseActive:
		return "active"
	case PhaseTornDown:
		return "tornDown"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrNotIdle is returned when a create or join is attempted while the
	// session is already bound to a room.
	ErrNotIdle = errors.New("session already in a room")

	// ErrRequestInFlight is returned when a create or join is attempted
	// while another one is still awaiting its reply.
	ErrRequestInFlight = errors.New("room request already in flight")

	// ErrNotActive is returned by inputs that require a running match.
	ErrNotActive = errors.New("session not active")
)

// Time allowed to write a frame to the server.
const writeWait = 10 * time.Second

// closedChan is returned by signal accessors once their event has passed.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// joinReply carries the server's answer to a create or join request.
type joinReply struct {
	assignment wire.RoomAssignment
	err        error
}

// Session is one player's connection to the server. All exported methods
// are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	send      func(event string, payload any) error
	closeConn func() error

	cfg *engine.Config

	phase        Phase
	roomCode     string
	playerNumber int

	// court holds the local mirror. The host steps it; the guest only
	// applies remote snapshots to it.
	court *engine.Court

	pending    chan joinReply
	readyTimer *time.Timer
	tickStop   chan struct{}

	activeCh chan struct{}
	tornCh   chan struct{}
}

// Dial connects to the server's websocket endpoint. A nil config uses the
// built-in defaults; both players should run the same settings.
func Dial(ctx context.Context, url string, cfg *engine.Config) (*Session, error) {
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	var writeMu sync.Mutex
	s.send = func(event string, payload any) error {
		frame, err := wire.Encode(event, payload)
		if err != nil {
			return err
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, frame)
	}
	s.closeConn = conn.Close

	go s.readLoop(conn)
	return s, nil
}

func newSession(cfg *engine.Config) (*Session, error) {
	if cfg == nil {
		cfg = engine.DefaultConfig()
	}
	if err := engine.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		activeCh: make(chan struct{}),
		tornCh:   make(chan struct{}),
	}, nil
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// RoomCode returns the bound room code, empty when unbound.
func (s *Session) RoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomCode
}

// PlayerNumber returns the assigned player number, zero when unbound.
func (s *Session) PlayerNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerNumber
}

// IsHost reports whether this session owns ball physics and scoring.
func (s *Session) IsHost() bool {
	return s.PlayerNumber() == engine.Player1
}

// Activated returns a channel closed when the current room reaches the
// active phase. Grab it after CreateRoom or JoinRoom returns.
func (s *Session) Activated() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCh
}

// TornDown returns a channel closed when the current room is torn down.
func (s *Session) TornDown() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tornCh == nil {
		return closedChan
	}
	return s.tornCh
}

// Snapshot returns a copy of the local mirror. Before activation it is the
// zero state.
func (s *Session) Snapshot() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.court == nil {
		return engine.State{}
	}
	return *s.court.State()
}

// CreateRoom asks the server for a fresh room and returns its code. The
// caller becomes the host.
func (s *Session) CreateRoom(ctx context.Context) (string, error) {
	assignment, err := s.request(ctx, wire.EventCreateRoom, nil)
	if err != nil {
		return "", err
	}
	return assignment.RoomCode, nil
}

// JoinRoom joins an existing room by code. The caller becomes the guest.
// Failure leaves the session idle with the connection open, so the caller
// may retry with another code immediately.
func (s *Session) JoinRoom(ctx context.Context, code string) error {
	_, err := s.request(ctx, wire.EventJoinRoom, wire.JoinRoomPayload{RoomCode: code})
	return err
}

func (s *Session) request(ctx context.Context, event string, payload any) (*wire.RoomAssignment, error) {
	s.mu.Lock()
	if s.phase != PhaseIdle && s.phase != PhaseTornDown {
		s.mu.Unlock()
		return nil, ErrNotIdle
	}
	if s.pending != nil {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	pending := make(chan joinReply, 1)
	s.pending = pending
	s.phase = PhaseIdle
	s.activeCh = make(chan struct{})
	s.tornCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.send(event, payload); err != nil {
		s.clearPending(pending)
		return nil, err
	}

	select {
	case reply := <-pending:
		if reply.err != nil {
			return nil, reply.err
		}
		return &reply.assignment, nil
	case <-ctx.Done():
		s.clearPending(pending)
		return nil, ctx.Err()
	}
}

func (s *Session) clearPending(pending chan joinReply) {
	s.mu.Lock()
	if s.pending == pending {
		s.pending = nil
	}
	s.mu.Unlock()
}

// MovePaddle moves this player's paddle one input step and broadcasts the
// new position. Only valid while active.
func (s *Session) MovePaddle(direction string) error {
	s.mu.Lock()
	if s.phase != PhaseActive || s.court == nil {
		s.mu.Unlock()
		return ErrNotActive
	}
	y := s.court.MovePaddle(s.playerNumber, direction)
	code, player := s.roomCode, s.playerNumber
	s.mu.Unlock()

	return s.send(wire.EventPaddleMove, wire.PaddleMovePayload{
		RoomCode:     code,
		Y:            y,
		PlayerNumber: player,
	})
}

// Leave exits the current room explicitly and returns the session to a
// clean slate. A no-op when unbound.
func (s *Session) Leave() error {
	s.mu.Lock()
	bound := s.roomCode != ""
	s.mu.Unlock()
	if !bound {
		return nil
	}

	err := s.send(wire.EventLeaveRoom, nil)
	s.teardown()
	return err
}

// Close tears the session down and closes the underlying connection.
func (s *Session) Close() error {
	s.teardown()
	if s.closeConn != nil {
		return s.closeConn()
	}
	return nil
}

// readLoop pumps server frames into the session until the transport drops.
func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.teardown()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := wire.DecodeEnvelope(frame)
		if err != nil {
			log.Printf("Dropping bad frame from server: %v", err)
			continue
		}
		s.handle(env)
	}
}

// handle applies one server event to the state machine.
func (s *Session) handle(env *wire.Envelope) {
	switch env.Event {
	case wire.EventRoomCreated, wire.EventRoomJoined:
		s.handleAssignment(env)
	case wire.EventRoomError:
		s.handleRoomError(env)
	case wire.EventGameReady:
		s.handleGameReady()
	case wire.EventOpponentPaddleMove:
		s.handleOpponentPaddle(env)
	case wire.EventBallSync:
		s.handleBallSync(env)
	case wire.EventScoreSync:
		s.handleScoreSync(env)
	case wire.EventOpponentDisconnected:
		s.teardown()
	default:
		log.Printf("Ignoring unknown server event %q", env.Event)
	}
}

func (s *Session) handleAssignment(env *wire.Envelope) {
	var payload wire.RoomAssignment
	if err := wire.DecodePayload(env, &payload); err != nil {
		log.Printf("Bad %s payload: %v", env.Event, err)
		return
	}

	s.mu.Lock()
	s.roomCode = payload.RoomCode
	s.playerNumber = payload.PlayerNumber
	s.phase = PhaseAwaitingPeer
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		pending <- joinReply{assignment: payload}
	}
}

func (s *Session) handleRoomError(env *wire.Envelope) {
	var payload wire.RoomErrorPayload
	if err := wire.DecodePayload(env, &payload); err != nil {
		log.Printf("Bad %s payload: %v", env.Event, err)
		return
	}

	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		pending <- joinReply{err: roomError(payload.Message)}
	}
}

func (s *Session) handleGameReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAwaitingPeer {
		return
	}
	s.phase = PhaseReady

	// Fixed settle delay so both clients finish local setup before the
	// first tick.
	delay := time.Duration(s.cfg.ReadyDelayMs) * time.Millisecond
	s.readyTimer = time.AfterFunc(delay, s.activate)
}

// activate moves Ready to Active, builds the local mirror, and starts the
// host's tick loop.
func (s *Session) activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseReady {
		return
	}
	s.phase = PhaseActive

	court, err := engine.NewCourt(s.cfg)
	if err != nil {
		// cfg was validated at construction.
		panic(fmt.Sprintf("client: settings rejected: %v", err))
	}
	s.court = court
	close(s.activeCh)

	if s.playerNumber == engine.Player1 {
		s.tickStop = make(chan struct{})
		go s.runTicks(s.tickStop)
	}
}

// runTicks is the host's simulation loop. Each tick steps the court and
// broadcasts the ball; the score goes out only when it changes.
func (s *Session) runTicks(stop chan struct{}) {
	interval := time.Second / time.Duration(s.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	s.mu.Lock()
	if s.phase != PhaseActive || s.court == nil {
		s.mu.Unlock()
		return
	}
	result := s.court.Step()
	state := *s.court.State()
	code := s.roomCode
	s.mu.Unlock()

	if err := s.send(wire.EventBallUpdate, wire.BallUpdatePayload{
		RoomCode: code,
		X:        state.Ball.X,
		Y:        state.Ball.Y,
		DX:       state.Ball.DX,
		DY:       state.Ball.DY,
	}); err != nil {
		return
	}

	if result.ScoredBy != 0 {
		s.send(wire.EventScoreUpdate, wire.ScoreUpdatePayload{
			RoomCode:     code,
			Player1Score: state.Player1Score,
			Player2Score: state.Player2Score,
		})
	}
}

func (s *Session) handleOpponentPaddle(env *wire.Envelope) {
	var payload wire.PaddleMovePayload
	if err := wire.DecodePayload(env, &payload); err != nil {
		log.Printf("Bad %s payload: %v", env.Event, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.court == nil {
		return
	}
	s.court.SetPaddleY(payload.PlayerNumber, payload.Y)
}

// handleBallSync applies the host's ball snapshot. The host ignores it:
// its own simulation is the authority.
func (s *Session) handleBallSync(env *wire.Envelope) {
	var payload wire.BallUpdatePayload
	if err := wire.DecodePayload(env, &payload); err != nil {
		log.Printf("Bad %s payload: %v", env.Event, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.court == nil || s.playerNumber == engine.Player1 {
		return
	}
	s.court.SetBall(payload.X, payload.Y, payload.DX, payload.DY)
}

func (s *Session) handleScoreSync(env *wire.Envelope) {
	var payload wire.ScoreUpdatePayload
	if err := wire.DecodePayload(env, &payload); err != nil {
		log.Printf("Bad %s payload: %v", env.Event, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.court == nil || s.playerNumber == engine.Player1 {
		return
	}
	s.court.SetScore(payload.Player1Score, payload.Player2Score)
}

// teardown releases the room binding and clears the mirror. Safe to call
// more than once; later calls find nothing to release.
func (s *Session) teardown() {
	s.mu.Lock()
	if s.readyTimer != nil {
		s.readyTimer.Stop()
		s.readyTimer = nil
	}
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
	pending := s.pending
	s.pending = nil
	s.court = nil
	s.roomCode = ""
	s.playerNumber = 0
	s.phase = PhaseTornDown
	torn := s.tornCh
	s.tornCh = nil
	s.mu.Unlock()

	if pending != nil {
		pending <- joinReply{err: errors.New("session torn down")}
	}
	if torn != nil {
		close(torn)
	}
}

// roomError maps the protocol's user-facing messages back onto the
// registry's sentinel errors so callers can branch on them.
func roomError(message string) error {
	switch message {
	case wire.MsgRoomNotFound:
		return room.ErrRoomNotFound
	case wire.MsgRoomFull:
		return room.ErrRoomFull
	case wire.MsgAlreadyInRoom:
		return room.ErrAlreadyInRoom
	default:
		return errors.New(message)
	}
}
