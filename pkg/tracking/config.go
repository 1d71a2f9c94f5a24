package tracking

import (
	"errors"
	"fmt"
	"time"

	"github.com/teslashibe/go-ptz/pkg/tracking/detection"
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid tracking config")

// Config holds all tunable parameters for target following
type Config struct {
	// Proportional law
	Kp       float64 // Pixels of error to actuator units
	Deadband int     // Skip pan/tilt when |output| <= this

	// Zoom heuristic: ZoomOffset + (frameWidth - boxWidth) * ZoomScale
	ZoomOffset float64
	ZoomScale  float64

	// Target
	TargetClass int // COCO class to follow

	// Timing
	LoopInterval time.Duration // Fixed delay after each cycle

	// Manual commands waiting for the loop
	ManualQueue int
}

// DefaultConfig returns the compiled-in follow parameters
func DefaultConfig() Config {
	return Config{
		Kp:       0.1,
		Deadband: 1,

		ZoomOffset: 10000,
		ZoomScale:  5,

		TargetClass: detection.PersonClass,

		LoopInterval: 50 * time.Millisecond, // ~20 cycles per second at most

		ManualQueue: 16,
	}
}

// Validate checks that the config can drive the loop.
func (c Config) Validate() error {
	switch {
	case c.Kp <= 0:
		return fmt.Errorf("%w: kp must be positive, got %v", ErrInvalidConfig, c.Kp)
	case c.Deadband < 0:
		return fmt.Errorf("%w: deadband must not be negative, got %d", ErrInvalidConfig, c.Deadband)
	case c.ZoomScale < 0:
		return fmt.Errorf("%w: zoom scale must not be negative, got %v", ErrInvalidConfig, c.ZoomScale)
	case c.TargetClass < 0 || c.TargetClass >= len(detection.COCOClasses):
		return fmt.Errorf("%w: unknown target class %d", ErrInvalidConfig, c.TargetClass)
	case c.LoopInterval < 0:
		return fmt.Errorf("%w: loop interval must not be negative", ErrInvalidConfig)
	case c.ManualQueue <= 0:
		return fmt.Errorf("%w: manual queue must hold at least one command", ErrInvalidConfig)
	}
	return nil
}
