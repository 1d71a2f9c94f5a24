package focus

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestLaplacianVariance_Uniform(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 64, 64, gocv.MatTypeCV8UC3)
	defer img.Close()

	v, err := LaplacianVariance.Score(img)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if v != 0 {
		t.Errorf("uniform frame: got %v, want 0", v)
	}
}

func TestLaplacianVariance_EdgesScoreHigher(t *testing.T) {
	board := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	defer board.Close()
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (x/8+y/8)%2 == 0 {
				board.SetUCharAt(y, x, 255)
			} else {
				board.SetUCharAt(y, x, 0)
			}
		}
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(board, &blurred, image.Pt(9, 9), 0, 0, gocv.BorderDefault)

	sharp, err := LaplacianVariance.Score(board)
	if err != nil {
		t.Fatalf("Score sharp: %v", err)
	}
	soft, err := LaplacianVariance.Score(blurred)
	if err != nil {
		t.Fatalf("Score blurred: %v", err)
	}
	if sharp <= 0 || sharp <= soft {
		t.Errorf("expected sharp (%v) > blurred (%v) > 0", sharp, soft)
	}
}

func TestLaplacianVariance_Empty(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := LaplacianVariance.Score(empty); err == nil {
		t.Error("expected error for empty frame")
	}
}
