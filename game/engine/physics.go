package engine

import (
	"fmt"
	"math"
	"math/rand"
)

// Court runs the Pong simulation for one match.
type Court struct {
	config *Config
	state  *State
	rng    *rand.Rand
}

// NewCourt creates a court with the provided configuration, validated first.
func NewCourt(config *Config) (*Court, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	c := &Court{
		config: config,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
	c.state = c.initialState()
	c.serve()
	return c, nil
}

// NewCourtWithDefaults creates a court with DefaultConfig.
func NewCourtWithDefaults() *Court {
	court, err := NewCourt(DefaultConfig())
	if err != nil {
		// DefaultConfig is always valid.
		panic(fmt.Sprintf("engine: default config rejected: %v", err))
	}
	return court
}

// initialState centers the ball and both paddles.
func (c *Court) initialState() *State {
	paddleY := c.config.CourtHeight/2 - c.config.PaddleHeight/2
	return &State{
		Ball: Ball{
			X:     c.config.CourtWidth / 2,
			Y:     c.config.CourtHeight / 2,
			Speed: c.config.BallSpeed,
		},
		Paddle1: Paddle{Y: paddleY},
		Paddle2: Paddle{Y: paddleY},
	}
}

// Config returns the court configuration.
func (c *Court) Config() *Config {
	return c.config
}

// State returns the current simulation snapshot.
func (c *Court) State() *State {
	return c.state
}

// Reset recenters paddles, zeroes the score, and serves a fresh ball.
func (c *Court) Reset() *State {
	c.state = c.initialState()
	c.serve()
	return c.state
}

/// Step advances the simulation by one tick: ball movement, wall and paddle
// collisions, scoring, and match end. Paddle positions are moved separately
// via MovePaddle / SetPaddleY.
func (c *Court) Step() *StepResult {
	result := &StepResult{}
	if c.state.GameOver {
		result.GameOver = true
		result.Winner = c.state.Winner
		return result
	}

	ball := &c.state.Ball
	ball.X += ball.DX
	ball.Y += ball.DY

	// Top and bottom wall reflection.
	if ball.Y-c.config.BallRadius < 0 {
		ball.Y = c.config.BallRadius
		ball.DY = -ball.DY
		result.WallBounce = true
	} else if ball.Y+c.config.BallRadius > c.config.CourtHeight {
		ball.Y = c.config.CourtHeight - c.config.BallRadius
		ball.DY = -ball.DY
		result.WallBounce = true
	}

	// Paddle collisions. The ball is pushed out of the paddle face and
	// deflected by how far from the paddle center it struck.
	if ball.DX < 0 && c.hitsPaddle(c.config.Paddle1X(), c.state.Paddle1.Y) {
		ball.DX = math.Abs(ball.DX)
		ball.X = c.config.Paddle1X() + c.config.PaddleWidth + c.config.BallRadius
		c.deflect(c.state.Paddle1.Y)
		c.accelerate()
		result.PaddleHit = Player1
	} else if ball.DX > 0 && c.hitsPaddle(c.config.Paddle2X(), c.state.Paddle2.Y) {
		ball.DX = -math.Abs(ball.DX)
		ball.X = c.config.Paddle2X() - c.config.BallRadius
		c.deflect(c.state.Paddle2.Y)
		c.accelerate()
		result.PaddleHit = Player2
	}

	// Scoring: ball fully past either edge.
	if ball.X-c.config.BallRadius < 0 {
		c.state.Player2Score++
		result.ScoredBy = Player2
		c.resetBall()
	} else if ball.X+c.config.BallRadius > c.config.CourtWidth {
		c.state.Player1Score++
		result.ScoredBy = Player1
		c.resetBall()
	}

	if result.ScoredBy != 0 && c.config.WinScore > 0 {
		switch {
		case c.state.Player1Score >= c.config.WinScore:
			c.state.GameOver = true
			c.state.Winner = Player1
		case c.state.Player2Score >= c.config.WinScore:
			c.state.GameOver = true
			c.state.Winner = Player2
		}
		result.GameOver = c.state.GameOver
		result.Winner = c.state.Winner
	}

	return result
}

// MovePaddle moves one paddle a single input step in the given direction,
// clamped to the court. It returns the resulting y position.
func (c *Court) MovePaddle(player int, direction string) float64 {
	paddle := c.paddle(player)
	if paddle == nil {
		return 0
	}

	switch direction {
	case DirUp:
		paddle.Y -= c.config.PaddleSpeed
	case DirDown:
		paddle.Y += c.config.PaddleSpeed
	}
	paddle.Y = c.clampPaddleY(paddle.Y)
	return paddle.Y
}

// SetPaddleY applies a remote paddle position, clamped to the court.
func (c *Court) SetPaddleY(player int, y float64) {
	if paddle := c.paddle(player); paddle != nil {
		paddle.Y = c.clampPaddleY(y)
	}
}

// SetBall applies a remote ball snapshot. Used by the mirroring side only.
func (c *Court) SetBall(x, y, dx, dy float64) {
	c.state.Ball.X = x
	c.state.Ball.Y = y
	c.state.Ball.DX = dx
	c.state.Ball.DY = dy
}

// SetScore applies a remote score snapshot and re-evaluates match end.
func (c *Court) SetScore(player1Score, player2Score int) {
	c.state.Player1Score = player1Score
	c.state.Player2Score = player2Score

	if c.config.WinScore > 0 {
		switch {
		case player1Score >= c.config.WinScore:
			c.state.GameOver = true
			c.state.Winner = Player1
		case player2Score >= c.config.WinScore:
			c.state.GameOver = true
			c.state.Winner = Player2
		}
	}
}

// paddle returns the paddle owned by the given player number.
func (c *Court) paddle(player int) *Paddle {
	switch player {
	case Player1:
		return &c.state.Paddle1
	case Player2:
		return &c.state.Paddle2
	default:
		return nil
	}
}

func (c *Court) clampPaddleY(y float64) float64 {
	return math.Max(0, math.Min(y, c.config.CourtHeight-c.config.PaddleHeight))
}

// hitsPaddle reports whether the ball overlaps the paddle at (x, y).
func (c *Court) hitsPaddle(x, y float64) bool {
	ball := &c.state.Ball
	return ball.X-c.config.BallRadius < x+c.config.PaddleWidth &&
		ball.X+c.config.BallRadius > x &&
		ball.Y-c.config.BallRadius < y+c.config.PaddleHeight &&
		ball.Y+c.config.BallRadius > y
}

// deflect sets the vertical velocity from where the ball struck the paddle:
// center hits go straight, edge hits go out at the base serve speed.
func (c *Court) deflect(paddleY float64) {
	ball := &c.state.Ball
	half := c.config.PaddleHeight / 2
	hitPos := (ball.Y - (paddleY + half)) / half
	ball.DY = hitPos * ball.Speed
}

// accelerate speeds the ball up per paddle hit until the horizontal speed cap.
func (c *Court) accelerate() {
	ball := &c.state.Ball
	if math.Abs(ball.DX) < c.config.MaxBallSpeed {
		ball.DX *= c.config.SpeedIncrease
		ball.DY *= c.config.SpeedIncrease
	}
}

// resetBall recenters the ball and serves toward a random side.
func (c *Court) resetBall() {
	c.state.Ball = Ball{
		X:     c.config.CourtWidth / 2,
		Y:     c.config.CourtHeight / 2,
		Speed: c.config.BallSpeed,
	}
	c.serve()
}

// serve picks the initial velocity: full speed toward a random side with a
// random vertical component in [-speed, speed].
func (c *Court) serve() {
	ball := &c.state.Ball
	ball.DX = ball.Speed
	if c.rng.Intn(2) == 0 {
		ball.DX = -ball.Speed
	}
	ball.DY = (c.rng.Float64()*2 - 1) * ball.Speed
}
