// Package tracking keeps a detected target centered in the camera frame.
//
// Each cycle is independent: read a frame, detect, pick the first detection
// of the target class, and turn its offset from the frame center into pan
// and tilt deltas and its width into a zoom target. There is no memory
// between frames.
package tracking

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-ptz/internal/clock"
	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/tracking/detection"
	"github.com/teslashibe/go-ptz/pkg/video"
)

// ErrQueueFull is returned by Enqueue when the loop has not caught up.
var ErrQueueFull = errors.New("manual command queue full")

// Observer receives a report after every cycle.
type Observer interface {
	OnCycle(Report)
}

// Previewer displays a frame and returns the key pressed, or -1.
type Previewer interface {
	Show(frame gocv.Mat, target *image.Rectangle) int
}

// Report describes what one cycle saw and did.
type Report struct {
	Session    string               `json:"session"`
	Frame      uint64               `json:"frame"`
	At         time.Time            `json:"at"`
	Detections int                  `json:"detections"`
	Target     *detection.Detection `json:"target,omitempty"`
	Correction *Correction          `json:"correction,omitempty"`
	Commands   []ptz.Command        `json:"commands,omitempty"`
	Manual     []ptz.Command        `json:"manual,omitempty"`
}

// Follower runs the per-frame control loop. All camera commands, including
// queued manual ones, are issued from the goroutine running Run.
type Follower struct {
	config   Config
	law      *PController
	cam      ptz.Executor
	detector detection.Detector
	source   video.Source
	geometry video.Geometry

	observer Observer
	preview  Previewer
	log      *slog.Logger

	session string
	frames  atomic.Uint64
	manual  chan ptz.Command
}

// New creates a follower. The frame geometry is taken from the source once
// and stays fixed for the session.
func New(config Config, cam ptz.Executor, detector detection.Detector, source video.Source, logger *slog.Logger) (*Follower, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if cam == nil || detector == nil || source == nil {
		return nil, errors.New("follower needs a camera, a detector and a frame source")
	}

	session := uuid.NewString()
	return &Follower{
		config:   config,
		law:      NewPController(config),
		cam:      cam,
		detector: detector,
		source:   source,
		geometry: source.Geometry(),
		log:      log.Component(logger, "tracking").With("session", session),
		session:  session,
		manual:   make(chan ptz.Command, config.ManualQueue),
	}, nil
}

// SetObserver sets the per-cycle report observer
func (f *Follower) SetObserver(o Observer) {
	f.observer = o
}

// SetPreview sets the preview window. ESC in the window ends the session.
func (f *Follower) SetPreview(p Previewer) {
	f.preview = p
}

// Session returns the id tagged on every report.
func (f *Follower) Session() string {
	return f.session
}

// Geometry returns the session's frame geometry.
func (f *Follower) Geometry() video.Geometry {
	return f.geometry
}

// Frames returns the number of cycles run so far.
func (f *Follower) Frames() uint64 {
	return f.frames.Load()
}

// Enqueue schedules cmd to run at the start of the next cycle. It never
// blocks.
func (f *Follower) Enqueue(cmd ptz.Command) error {
	select {
	case f.manual <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run loops until ctx is cancelled, the frame source fails or the preview
// window sees ESC. Source failure and ESC end the session normally (nil).
func (f *Follower) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	f.log.Info("follow session started", "width", f.geometry.Width, "height", f.geometry.Height)
	defer func() {
		f.log.Info("follow session ended", "frames", f.frames.Load())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !f.source.Read(&frame) {
			f.log.Info("frame read failed, ending session")
			return nil
		}

		dets, err := f.detector.Detect(frame)
		if err != nil {
			f.log.Warn("detection failed", "error", err)
			dets = nil
		}

		report := f.Step(dets)
		if f.observer != nil {
			f.observer.OnCycle(report)
		}

		if f.preview != nil {
			var box *image.Rectangle
			if report.Target != nil {
				r := report.Target.Box.Rect()
				box = &r
			}
			if f.preview.Show(frame, box) == video.KeyEscape {
				f.log.Info("cancelled from preview")
				return nil
			}
		}

		if err := clock.Sleep(ctx, f.config.LoopInterval); err != nil {
			return err
		}
	}
}

// Step runs one control cycle on a frame's detections: drain queued manual
// commands, then pan, tilt and zoom toward the first target.
func (f *Follower) Step(dets []detection.Detection) Report {
	report := Report{
		Session:    f.session,
		Frame:      f.frames.Add(1),
		At:         time.Now(),
		Detections: len(dets),
	}

	report.Manual = f.drainManual()

	target := detection.SelectFirst(dets, f.config.TargetClass)
	if target == nil {
		return report
	}
	t := *target
	report.Target = &t

	corr := f.law.Compute(t.Box, f.geometry)
	report.Correction = &corr

	if corr.PanActive {
		report.Commands = append(report.Commands, f.issue(ptz.Pan(corr.Pan)))
	}
	if corr.TiltActive {
		report.Commands = append(report.Commands, f.issue(ptz.Tilt(corr.Tilt)))
	}
	report.Commands = append(report.Commands, f.issue(ptz.SetZoom(corr.Zoom)))

	f.log.Debug("target",
		"dx", corr.DX, "dy", corr.DY,
		"pan", corr.Pan, "tilt", corr.Tilt, "zoom", corr.Zoom,
		"confidence", t.Confidence)

	return report
}

func (f *Follower) issue(cmd ptz.Command) ptz.Command {
	f.cam.Do(cmd)
	return cmd
}

func (f *Follower) drainManual() []ptz.Command {
	var done []ptz.Command
	for {
		select {
		case cmd := <-f.manual:
			f.log.Info("manual command", "cmd", cmd.String())
			done = append(done, f.issue(cmd))
		default:
			return done
		}
	}
}
