// Package detection provides object detection using computer vision
package detection

import (
	"image"

	"gocv.io/x/gocv"
)

// PersonClass is the COCO class id of "person".
const PersonClass = 0

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Center returns the center point of the box
func (b Box) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Area returns the area of the bounding box
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Rect converts the box to an integer rectangle for drawing.
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}

// Detection is one detected object in a single frame. Detections carry no
// identity across frames.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
}

// ClassName returns the COCO name of the detection's class.
func (d Detection) ClassName() string {
	if d.ClassID < 0 || d.ClassID >= len(COCOClasses) {
		return "unknown"
	}
	return COCOClasses[d.ClassID]
}

// Detector is the interface for detection backends
type Detector interface {
	// Detect finds objects in the frame, in backend output order
	Detect(frame gocv.Mat) ([]Detection, error)

	// Close releases resources
	Close() error
}

// SelectFirst returns the first detection of classID in list order, or nil.
// Order is whatever the detector produced; it is not re-ranked.
func SelectFirst(dets []Detection, classID int) *Detection {
	for i := range dets {
		if dets[i].ClassID == classID {
			return &dets[i]
		}
	}
	return nil
}
