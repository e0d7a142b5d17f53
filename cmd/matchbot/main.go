// Command matchbot plays online Pong matches against the server.
//
// It drives the same client sessions a real player would, over real
// websockets, which makes it a quick smoke test for a running server:
//
//	matchbot play                  # host bot vs guest bot, full match
//	matchbot host                  # create a room, print the code, play
//	matchbot join -code AB12C3     # join a friend's room and play
//
// Bots fetch the server's game settings first so their local simulation
// matches the host's.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/netpong/netpong/client"
	"github.com/netpong/netpong/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "matchbot",
		Usage: "play online Pong matches against a netpong server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "base URL of the server",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Minute,
				Usage: "give up if the match has not finished by then",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "run a host bot and a guest bot through a full match",
				Action: runPlay,
			},
			{
				Name:   "host",
				Usage:  "create a room, print its code, and play as the host",
				Action: runHost,
			},
			{
				Name:  "join",
				Usage: "join an existing room and play as the guest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "room code to join",
						Required: true,
					},
				},
				Action: runJoin,
			},
		},
		DefaultCommand: "play",
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// fetchSettings pulls the court settings from the server so the bot's
// simulation matches the one the host runs.
func fetchSettings(ctx context.Context, serverURL string) (*engine.Config, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", serverURL+"/api/settings", nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch settings: unexpected status %d", resp.StatusCode)
	}

	var cfg engine.Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &cfg, nil
}

// wsURL converts the server base URL into the websocket endpoint.
func wsURL(serverURL string) string {
	url := strings.TrimSuffix(serverURL, "/")
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws"
}

func dialSession(ctx context.Context, cmd *cli.Command) (*client.Session, *engine.Config, error) {
	serverURL := cmd.String("server")

	cfg, err := fetchSettings(ctx, serverURL)
	if err != nil {
		return nil, nil, err
	}

	session, err := client.Dial(ctx, wsURL(serverURL), cfg)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	host, cfg, err := dialSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer host.Close()

	guest, _, err := dialSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer guest.Close()

	code, err := host.CreateRoom(ctx)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	log.Printf("Host created room %s", code)

	if err := guest.JoinRoom(ctx, code); err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	log.Printf("Guest joined room %s", code)

	var final engine.State
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := playMatch(gCtx, host, cfg, "host")
		final = state
		return err
	})
	g.Go(func() error {
		_, err := playMatch(gCtx, guest, cfg, "guest")
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("Final score %d:%d, winner: player %d",
		final.Player1Score, final.Player2Score, final.Winner)
	return nil
}

func runHost(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	session, cfg, err := dialSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	code, err := session.CreateRoom(ctx)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	fmt.Printf("Room code: %s\n", code)
	fmt.Println("Waiting for an opponent...")

	state, err := playMatch(ctx, session, cfg, "host")
	if err != nil {
		return err
	}
	fmt.Printf("Final score %d:%d, winner: player %d\n",
		state.Player1Score, state.Player2Score, state.Winner)
	return nil
}

func runJoin(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	session, cfg, err := dialSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	code := cmd.String("code")
	if err := session.JoinRoom(ctx, code); err != nil {
		return fmt.Errorf("join room %s: %w", code, err)
	}
	log.Printf("Joined room %s as guest", strings.ToUpper(code))

	state, err := playMatch(ctx, session, cfg, "guest")
	if err != nil {
		return err
	}
	fmt.Printf("Final score %d:%d, winner: player %d\n",
		state.Player1Score, state.Player2Score, state.Winner)
	return nil
}

// playMatch waits for the room to activate, then chases the ball until the
// match ends or the room is torn down. It returns the last state the bot
// observed, since teardown wipes the session's own mirror.
func playMatch(ctx context.Context, session *client.Session, cfg *engine.Config, name string) (engine.State, error) {
	activated := session.Activated()
	tornDown := session.TornDown()

	var last engine.State

	select {
	case <-activated:
	case <-tornDown:
		return last, fmt.Errorf("%s: room torn down before the match started", name)
	case <-ctx.Done():
		return last, ctx.Err()
	}
	log.Printf("%s: match started", name)

	// Input cadence mirrors a held-down key rather than the simulation tick.
	ticker := time.NewTicker(15 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-tornDown:
			// The opponent leaving right after match point is a normal end.
			if last.GameOver {
				return last, nil
			}
			return last, fmt.Errorf("%s: opponent disconnected mid-match", name)
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
			state := session.Snapshot()
			last = state
			if state.GameOver {
				log.Printf("%s: match over", name)
				session.Leave()
				return last, nil
			}
			if direction := chaseBall(&state, cfg, session.PlayerNumber()); direction != "" {
				if err := session.MovePaddle(direction); err != nil {
					// Teardown raced the tick; the tornDown case reports it.
					continue
				}
			}
		}
	}
}

// chaseBall picks the input that moves this player's paddle center toward
// the ball. Inside a dead zone of half an input step it holds still so the
// paddle does not jitter.
func chaseBall(state *engine.State, cfg *engine.Config, player int) string {
	paddle := state.Paddle1
	if player == engine.Player2 {
		paddle = state.Paddle2
	}

	center := paddle.Y + cfg.PaddleHeight/2
	diff := state.Ball.Y - center

	deadZone := cfg.PaddleSpeed / 2
	switch {
	case diff < -deadZone:
		return engine.DirUp
	case diff > deadZone:
		return engine.DirDown
	default:
		return ""
	}
}
