// Package video provides frame sources for the tracker and focus sweep.
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Geometry is the frame size of a capture session. It is fixed once the
// source is opened.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the optical center used as the control setpoint.
func (g Geometry) Center() (x, y int) {
	return g.Width / 2, g.Height / 2
}

// Source yields frames until exhausted.
type Source interface {
	// Read fills dst with the next frame. It returns false on failure or
	// end of stream.
	Read(dst *gocv.Mat) bool
	Geometry() Geometry
	Close() error
}

// Capture is a Source backed by an OpenCV VideoCapture.
type Capture struct {
	cap      *gocv.VideoCapture
	id       string
	geometry Geometry
}

// Open opens a device index ("0"), device path ("/dev/video0") or file.
func Open(id string) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, fmt.Errorf("open video source %s: %w", id, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open video source %s", id)
	}

	return &Capture{
		cap: vc,
		id:  id,
		geometry: Geometry{
			Width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		},
	}, nil
}

// Read grabs the next frame into dst.
func (c *Capture) Read(dst *gocv.Mat) bool {
	if !c.cap.Read(dst) {
		return false
	}
	return !dst.Empty()
}

// Geometry returns the frame size reported when the source was opened.
func (c *Capture) Geometry() Geometry {
	return c.geometry
}

// ID returns the identifier the capture was opened with.
func (c *Capture) ID() string {
	return c.id
}

// Close releases the capture device.
func (c *Capture) Close() error {
	return c.cap.Close()
}
