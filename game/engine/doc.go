// Package engine implements the Pong court simulation.
//
// The engine package is pure game rules with no networking or rendering:
//   - Ball movement, wall reflection, and paddle deflection
//   - Paddle movement with court clamping
//   - Scoring, serve reset, and match end detection
//
// Core Types:
//
// Court is the simulation container. It is driven one tick at a time via
// Step by whichever side owns ball physics (the room host), and mirrored
// via the Set* methods by the side that does not (the guest).
//
// Authority:
//
// The court itself has no notion of host or guest. Callers decide whether
// they advance the simulation (Step) or apply remote values (SetBall,
// SetScore, SetPaddleY). Both sides move their own paddle locally with
// MovePaddle.
//
// Usage:
//
//	court, err := engine.NewCourt(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Host side, once per tick:
//	result := court.Step()
//	if result.ScoredBy != 0 {
//		// broadcast the new score
//	}
//
//	// Guest side, on incoming sync:
//	court.SetBall(x, y, dx, dy)
//
// Determinism:
//
// Serve direction after a reset is randomized, matching the original
// arcade behavior. Everything else is deterministic given the same inputs.
package engine
