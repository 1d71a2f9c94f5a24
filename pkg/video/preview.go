package video

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// KeyEscape is the key code that cancels a preview session.
const KeyEscape = 27

// Preview shows frames in a desktop window and polls the keyboard.
type Preview struct {
	window *gocv.Window
}

// NewPreview opens a window titled name.
func NewPreview(name string) *Preview {
	return &Preview{window: gocv.NewWindow(name)}
}

// Show draws frame with an optional target box and returns the key pressed
// during the 1ms poll, or -1.
func (p *Preview) Show(frame gocv.Mat, target *image.Rectangle) int {
	if target != nil {
		gocv.Rectangle(&frame, *target, color.RGBA{G: 255, A: 255}, 2)
	}
	p.window.IMShow(frame)
	return p.window.WaitKey(1)
}

// Close destroys the window.
func (p *Preview) Close() error {
	return p.window.Close()
}
