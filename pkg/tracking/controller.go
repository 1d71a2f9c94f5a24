package tracking

import (
	"math"

	"github.com/teslashibe/go-ptz/pkg/tracking/detection"
	"github.com/teslashibe/go-ptz/pkg/video"
)

// Correction is the actuator output for one frame.
type Correction struct {
	DX, DY     float64 `json:"-"`
	Pan        int     `json:"pan"`
	Tilt       int     `json:"tilt"`
	Zoom       int     `json:"zoom"`
	PanActive  bool    `json:"pan_active"`
	TiltActive bool    `json:"tilt_active"`
}

// PController implements proportional control with a deadband.
// It keeps no state between frames.
type PController struct {
	Kp       float64
	Deadband int

	ZoomOffset float64
	ZoomScale  float64
}

// NewPController creates a controller from config
func NewPController(config Config) *PController {
	return &PController{
		Kp:         config.Kp,
		Deadband:   config.Deadband,
		ZoomOffset: config.ZoomOffset,
		ZoomScale:  config.ZoomScale,
	}
}

// Output maps a pixel error to an axis value and reports whether it clears
// the deadband.
func (c *PController) Output(err float64) (int, bool) {
	v := int(math.Round(err * c.Kp))
	return v, abs(v) > c.Deadband
}

// Zoom returns the zoom target for a box of the given width. Narrower boxes
// give larger values.
func (c *PController) Zoom(boxWidth float64, frameWidth int) int {
	return int(math.Round(c.ZoomOffset + (float64(frameWidth)-boxWidth)*c.ZoomScale))
}

// Compute derives pan, tilt and zoom for a target box in a frame.
func (c *PController) Compute(box detection.Box, g video.Geometry) Correction {
	cx, cy := box.Center()
	fx, fy := g.Center()

	corr := Correction{
		DX: cx - float64(fx),
		DY: cy - float64(fy),
	}
	corr.Pan, corr.PanActive = c.Output(corr.DX)
	corr.Tilt, corr.TiltActive = c.Output(corr.DY)
	corr.Zoom = c.Zoom(box.Width(), g.Width)
	return corr
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
