// Package focus finds the sharpest focus position by sweeping the focus axis.
//
// The search is a single exhaustive pass over a fixed grid: move, settle,
// grab one frame, score it. No refinement pass follows; the focus range is
// small and one settle-and-sample per step is cheap.
package focus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-ptz/internal/clock"
	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/video"
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid focus config")

// unscored is the sharpness of the initial best guess before any sample.
const unscored = -1.0

// Config holds the sweep grid and timing
type Config struct {
	MinFocus int
	MaxFocus int
	Step     int
	Settle   time.Duration // Wait after each move before grabbing a frame
}

// DefaultConfig returns the compiled-in sweep
func DefaultConfig() Config {
	return Config{
		MinFocus: 0,
		MaxFocus: 60000,
		Step:     2000,
		Settle:   150 * time.Millisecond,
	}
}

// Validate checks the sweep grid.
func (c Config) Validate() error {
	switch {
	case c.Step <= 0:
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidConfig, c.Step)
	case c.MaxFocus < c.MinFocus:
		return fmt.Errorf("%w: max focus %d below min focus %d", ErrInvalidConfig, c.MaxFocus, c.MinFocus)
	case c.MaxFocus > math.MaxInt-c.Step:
		return fmt.Errorf("%w: max focus %d too large for step %d", ErrInvalidConfig, c.MaxFocus, c.Step)
	case c.Settle < 0:
		return fmt.Errorf("%w: settle must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Positions returns the focus values the sweep visits, in order.
func (c Config) Positions() []int {
	if c.Step <= 0 || c.MaxFocus < c.MinFocus {
		return nil
	}
	var out []int
	for f := c.MinFocus; ; f += c.Step {
		out = append(out, f)
		if f > c.MaxFocus-c.Step {
			return out
		}
	}
}

// Sample is one scored focus position.
type Sample struct {
	Focus     int     `json:"focus"`
	Sharpness float64 `json:"sharpness"`
}

// Result is the outcome of a sweep.
type Result struct {
	Best    Sample   `json:"best"`
	Samples []Sample `json:"samples"`
	Skipped int      `json:"skipped"`
}

// Searcher sweeps the focus axis and commits the sharpest position.
type Searcher struct {
	config Config
	cam    ptz.Focuser
	source video.Source
	scorer Scorer
	log    *slog.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSearcher creates a searcher. A nil scorer means LaplacianVariance.
func NewSearcher(config Config, cam ptz.Focuser, source video.Source, scorer Scorer, logger *slog.Logger) (*Searcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if cam == nil || source == nil {
		return nil, errors.New("searcher needs a camera and a frame source")
	}
	if scorer == nil {
		scorer = LaplacianVariance
	}
	return &Searcher{
		config: config,
		cam:    cam,
		source: source,
		scorer: scorer,
		log:    log.Component(logger, "focus"),
		sleep:  clock.Sleep,
	}, nil
}

// Run performs the sweep and moves focus to the best position found. Ties
// keep the earliest position. If no frame could be scored, MinFocus is
// committed. When ctx ends mid-sweep the best position so far is still
// committed and ctx's error returned.
func (s *Searcher) Run(ctx context.Context) (Result, error) {
	res := Result{Best: Sample{Focus: s.config.MinFocus, Sharpness: unscored}}

	frame := gocv.NewMat()
	defer frame.Close()

	s.log.Info("running laplacian autofocus sweep",
		"min", s.config.MinFocus, "max", s.config.MaxFocus, "step", s.config.Step)

	var runErr error
	for _, pos := range s.config.Positions() {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		s.cam.SetFocus(pos)
		if err := s.sleep(ctx, s.config.Settle); err != nil {
			runErr = err
			break
		}

		if !s.source.Read(&frame) {
			res.Skipped++
			s.log.Debug("no frame, skipping", "focus", pos)
			continue
		}

		sharpness, err := s.scorer.Score(frame)
		if err != nil {
			res.Skipped++
			s.log.Debug("score failed, skipping", "focus", pos, "error", err)
			continue
		}

		sample := Sample{Focus: pos, Sharpness: sharpness}
		res.Samples = append(res.Samples, sample)
		s.log.Debug("sample", "focus", pos, "variance", fmt.Sprintf("%.2f", sharpness))

		if sharpness > res.Best.Sharpness {
			res.Best = sample
		}
	}

	s.log.Info("best focus", "focus", res.Best.Focus, "variance", fmt.Sprintf("%.2f", res.Best.Sharpness),
		"samples", len(res.Samples), "skipped", res.Skipped)
	s.cam.SetFocus(res.Best.Focus)

	return res, runErr
}
