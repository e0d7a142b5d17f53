package engine

// Player numbers used throughout the simulation and the wire protocol.
const (
	Player1 = 1 // left paddle, room host
	Player2 = 2 // right paddle, room guest
)

// Movement directions accepted by MovePaddle.
const (
	DirUp   = "up"
	DirDown = "down"
)

// Validation bounds for Config.
const (
	MinCourtSize   = 100
	MaxCourtSize   = 4096
	MinPaddleSpeed = 1
	MinBallSpeed   = 1
)

// Ball is the shared ball state. Speed is the base serve speed used to
// derive the deflection angle on paddle hits; DX/DY carry the per-hit
// acceleration and can exceed Speed up to the configured cap.
type Ball struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Speed float64 `json:"speed"`
}

// Paddle is a single paddle's vertical position (top edge).
type Paddle struct {
	Y float64 `json:"y"`
}

// State is the complete simulation snapshot.
type State struct {
	Ball         Ball   `json:"ball"`
	Paddle1      Paddle `json:"paddle1"`
	Paddle2      Paddle `json:"paddle2"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
	GameOver     bool   `json:"game_over"`
	Winner       int    `json:"winner,omitempty"`
}

// StepResult reports what happened during a single simulation tick.
type StepResult struct {
	PaddleHit  int  `json:"paddle_hit,omitempty"` // 1 or 2, 0 if none
	WallBounce bool `json:"wall_bounce,omitempty"`
	ScoredBy   int  `json:"scored_by,omitempty"` // 1 or 2, 0 if none
	GameOver   bool `json:"game_over,omitempty"`
	Winner     int  `json:"winner,omitempty"`
}
