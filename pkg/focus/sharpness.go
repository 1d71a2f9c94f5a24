package focus

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Scorer rates how sharp a frame is. Higher is sharper.
type Scorer interface {
	Score(frame gocv.Mat) (float64, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(frame gocv.Mat) (float64, error)

func (f ScorerFunc) Score(frame gocv.Mat) (float64, error) { return f(frame) }

// LaplacianVariance scores a frame by the variance of its Laplacian on the
// grayscale image. Color frames are converted from BGR first.
var LaplacianVariance Scorer = ScorerFunc(laplacianVariance)

func laplacianVariance(frame gocv.Mat) (float64, error) {
	if frame.Empty() {
		return 0, errors.New("empty frame")
	}

	gray := frame
	if frame.Channels() > 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	}

	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)
	if lap.Empty() {
		return 0, errors.New("laplacian produced no output")
	}

	data, err := lap.DataPtrFloat64()
	if err != nil {
		return 0, fmt.Errorf("laplacian data: %w", err)
	}

	_, variance := stat.PopMeanVariance(data, nil)
	return variance, nil
}
