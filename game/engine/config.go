package engine

import "fmt"

// Config holds court geometry and gameplay tuning. The JSON shape matches
// the settings files under configs/.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	CourtWidth  float64 `json:"court_width"`
	CourtHeight float64 `json:"court_height"`

	PaddleWidth  float64 `json:"paddle_width"`
	PaddleHeight float64 `json:"paddle_height"`
	PaddleInset  float64 `json:"paddle_inset"` // gap between court edge and paddle face
	PaddleSpeed  float64 `json:"paddle_speed"`

	BallRadius    float64 `json:"ball_radius"`
	BallSpeed     float64 `json:"ball_speed"`
	MaxBallSpeed  float64 `json:"max_ball_speed"`
	SpeedIncrease float64 `json:"speed_increase"` // dx/dy multiplier per paddle hit

	WinScore     int `json:"win_score"` // 0 means play forever
	TickRate     int `json:"tick_rate"` // host simulation ticks per second
	ReadyDelayMs int `json:"ready_delay_ms"`
}

// DefaultConfig returns the classic court: 800x600, 15x100 paddles inset 20
// from each edge, ball serving at speed 5 and capped at 12.
func DefaultConfig() *Config {
	return &Config{
		Name:          "classic",
		Description:   "Classic 800x600 court",
		CourtWidth:    800,
		CourtHeight:   600,
		PaddleWidth:   15,
		PaddleHeight:  100,
		PaddleInset:   20,
		PaddleSpeed:   6,
		BallRadius:    10,
		BallSpeed:     5,
		MaxBallSpeed:  12,
		SpeedIncrease: 1.05,
		WinScore:      11,
		TickRate:      60,
		ReadyDelayMs:  1000,
	}
}

// ValidateConfig checks a configuration for values the simulation cannot
// run with. It returns the first problem found.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.CourtWidth < MinCourtSize || config.CourtWidth > MaxCourtSize {
		return fmt.Errorf("court_width %v out of range [%d, %d]", config.CourtWidth, MinCourtSize, MaxCourtSize)
	}
	if config.CourtHeight < MinCourtSize || config.CourtHeight > MaxCourtSize {
		return fmt.Errorf("court_height %v out of range [%d, %d]", config.CourtHeight, MinCourtSize, MaxCourtSize)
	}
	if config.PaddleWidth <= 0 || config.PaddleHeight <= 0 {
		return fmt.Errorf("paddle dimensions must be positive, got %vx%v", config.PaddleWidth, config.PaddleHeight)
	}
	if config.PaddleHeight >= config.CourtHeight {
		return fmt.Errorf("paddle_height %v must be smaller than court_height %v", config.PaddleHeight, config.CourtHeight)
	}
	if config.PaddleSpeed < MinPaddleSpeed {
		return fmt.Errorf("paddle_speed must be at least %d, got %v", MinPaddleSpeed, config.PaddleSpeed)
	}
	if config.BallRadius <= 0 {
		return fmt.Errorf("ball_radius must be positive, got %v", config.BallRadius)
	}
	if config.BallSpeed < MinBallSpeed {
		return fmt.Errorf("ball_speed must be at least %d, got %v", MinBallSpeed, config.BallSpeed)
	}
	if config.MaxBallSpeed < config.BallSpeed {
		return fmt.Errorf("max_ball_speed %v cannot be below ball_speed %v", config.MaxBallSpeed, config.BallSpeed)
	}
	if config.SpeedIncrease < 1 {
		return fmt.Errorf("speed_increase must be >= 1, got %v", config.SpeedIncrease)
	}
	if config.WinScore < 0 {
		return fmt.Errorf("win_score cannot be negative, got %d", config.WinScore)
	}
	if config.TickRate <= 0 || config.TickRate > 240 {
		return fmt.Errorf("tick_rate %d out of range (0, 240]", config.TickRate)
	}
	if config.ReadyDelayMs < 0 {
		return fmt.Errorf("ready_delay_ms cannot be negative, got %d", config.ReadyDelayMs)
	}
	return nil
}

// Paddle1X returns the left paddle's x position (left edge).
func (c *Config) Paddle1X() float64 {
	return c.PaddleInset
}

// Paddle2X returns the right paddle's x position (left edge).
func (c *Config) Paddle2X() float64 {
	return c.CourtWidth - c.PaddleInset - c.PaddleWidth
}
