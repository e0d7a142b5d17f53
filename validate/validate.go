// Command validate provides a small CLI that validates game settings JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Simulation bounds (court size, speeds, tick rate)
//   - Playability: the ball must fit on the court and between the paddles
//   - Name and description presence for the settings listing
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netpong/netpong/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateSettings loads and validates a single settings JSON file.
// It performs structural checks, simulation bounds via the engine's own
// validator, and playability checks the engine does not enforce.
func validateSettings(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// The server's settings listing needs both of these.
	if config.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: name")
	}
	if config.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: description")
	}

	// Simulation bounds, same checks the server runs at startup.
	if err := engine.ValidateConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Simulation bounds: %v", err))
		return result
	}

	// Playability checks beyond the engine's bounds
	playErrors := validatePlayability(&config)
	if len(playErrors) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, playErrors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Court: %.0fx%.0f", config.CourtWidth, config.CourtHeight))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Paddles: %.0fx%.0f, inset %.0f, speed %.0f", config.PaddleWidth, config.PaddleHeight, config.PaddleInset, config.PaddleSpeed))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ball: radius %.0f, speed %.0f-%.0f (x%.2f per hit)", config.BallRadius, config.BallSpeed, config.MaxBallSpeed, config.SpeedIncrease))
		winScore := fmt.Sprintf("%d", config.WinScore)
		if config.WinScore == 0 {
			winScore = "unlimited"
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Win score: %s", winScore))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Tick rate: %d/s, ready delay %dms", config.TickRate, config.ReadyDelayMs))
	}

	return result
}

// validatePlayability checks geometry the engine's bounds do not cover: the
// ball must fit between the paddle faces and inside the court, and the
// paddles must sit on their own halves.
func validatePlayability(config *engine.Config) []string {
	var errors []string

	leftFace := config.Paddle1X() + config.PaddleWidth
	rightFace := config.Paddle2X()

	if rightFace <= leftFace {
		errors = append(errors, fmt.Sprintf("Paddles overlap: left face at %.0f, right face at %.0f", leftFace, rightFace))
		return errors
	}

	gap := rightFace - leftFace
	if gap < 4*config.BallRadius {
		errors = append(errors, fmt.Sprintf("Gap between paddles (%.0f) too narrow for ball radius %.0f", gap, config.BallRadius))
	}

	if 2*config.BallRadius >= config.CourtHeight {
		errors = append(errors, fmt.Sprintf("Ball diameter %.0f does not fit court height %.0f", 2*config.BallRadius, config.CourtHeight))
	}

	// A serve faster than the gap between the paddles can tunnel through a
	// paddle in a single tick.
	if config.MaxBallSpeed >= gap {
		errors = append(errors, fmt.Sprintf("max_ball_speed %.0f can tunnel the %.0f gap in one tick", config.MaxBallSpeed, gap))
	}

	if config.PaddleInset+config.PaddleWidth >= config.CourtWidth/2 {
		errors = append(errors, fmt.Sprintf("Paddle inset %.0f plus width %.0f crosses the center line", config.PaddleInset, config.PaddleWidth))
	}

	return errors
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding settings files: %v\n", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		fmt.Printf("No settings files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateSettings(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All settings files are valid!")
	} else {
		fmt.Println("❌ Some settings files have errors")
		os.Exit(1)
	}
}
