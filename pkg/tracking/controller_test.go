package tracking

import (
	"testing"

	"github.com/teslashibe/go-ptz/pkg/tracking/detection"
	"github.com/teslashibe/go-ptz/pkg/video"
)

var hd = video.Geometry{Width: 1280, Height: 720}

// boxAt returns a box of the given size centered on (cx, cy).
func boxAt(cx, cy, w, h float64) detection.Box {
	return detection.Box{X1: cx - w/2, Y1: cy - h/2, X2: cx + w/2, Y2: cy + h/2}
}

func TestPController_CenteredTargetIsSilent(t *testing.T) {
	c := NewPController(DefaultConfig())

	corr := c.Compute(boxAt(640, 360, 100, 200), hd)
	if corr.PanActive || corr.TiltActive {
		t.Errorf("expected no pan/tilt for centered target, got %+v", corr)
	}
	if corr.Pan != 0 || corr.Tilt != 0 {
		t.Errorf("expected zero output, got pan=%d tilt=%d", corr.Pan, corr.Tilt)
	}
}

func TestPController_Deadband(t *testing.T) {
	c := NewPController(DefaultConfig())

	tests := []struct {
		name       string
		err        float64
		wantValue  int
		wantActive bool
	}{
		{"zero", 0, 0, false},
		{"rounds to one", 14, 1, false},
		{"rounds to minus one", -14, -1, false},
		{"just under two", 14.9, 1, false},
		{"rounds up to two", 15, 2, true},
		{"twenty pixels", 20, 2, true},
		{"negative two", -20, -2, true},
		{"large", 640, 64, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, active := c.Output(tc.err)
			if v != tc.wantValue || active != tc.wantActive {
				t.Errorf("Output(%v): got (%d,%v), want (%d,%v)", tc.err, v, active, tc.wantValue, tc.wantActive)
			}
		})
	}
}

func TestPController_ZoomMonotonic(t *testing.T) {
	c := NewPController(DefaultConfig())

	prev := c.Zoom(0, hd.Width)
	for w := 10.0; w <= float64(hd.Width); w += 10 {
		z := c.Zoom(w, hd.Width)
		if z > prev {
			t.Fatalf("zoom increased from %d to %d at width %v", prev, z, w)
		}
		prev = z
	}

	if z := c.Zoom(float64(hd.Width), hd.Width); z != 10000 {
		t.Errorf("full-width box: got %d, want 10000", z)
	}
}

func TestPController_ReferenceFrame(t *testing.T) {
	c := NewPController(DefaultConfig())

	corr := c.Compute(detection.Box{X1: 590, Y1: 330, X2: 690, Y2: 430}, hd)

	if corr.DX != 0 || corr.DY != 20 {
		t.Errorf("error: got (%v,%v), want (0,20)", corr.DX, corr.DY)
	}
	if corr.PanActive {
		t.Error("pan should be inside the deadband")
	}
	if !corr.TiltActive || corr.Tilt != 2 {
		t.Errorf("tilt: got %d active=%v, want 2 active", corr.Tilt, corr.TiltActive)
	}
	if corr.Zoom != 15900 {
		t.Errorf("zoom: got %d, want 15900", corr.Zoom)
	}
}

func TestPController_CustomGain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kp = 0.5
	cfg.Deadband = 3
	c := NewPController(cfg)

	if v, active := c.Output(6); v != 3 || active {
		t.Errorf("Output(6): got (%d,%v), want (3,false)", v, active)
	}
	if v, active := c.Output(8); v != 4 || !active {
		t.Errorf("Output(8): got (%d,%v), want (4,true)", v, active)
	}
}
