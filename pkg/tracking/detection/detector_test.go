package detection

import (
	"image"
	"testing"
)

func TestBox_Center(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		expectX float64
		expectY float64
	}{
		{
			name:    "near frame center",
			box:     Box{X1: 590, Y1: 330, X2: 690, Y2: 430},
			expectX: 640,
			expectY: 380,
		},
		{
			name:    "top left corner",
			box:     Box{X1: 0, Y1: 0, X2: 20, Y2: 10},
			expectX: 10,
			expectY: 5,
		},
		{
			name:    "fractional",
			box:     Box{X1: 1.5, Y1: 2, X2: 4, Y2: 3},
			expectX: 2.75,
			expectY: 2.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.box.Center()
			if x != tc.expectX {
				t.Errorf("Center X: got %.2f, want %.2f", x, tc.expectX)
			}
			if y != tc.expectY {
				t.Errorf("Center Y: got %.2f, want %.2f", y, tc.expectY)
			}
		})
	}
}

func TestBox_SizeAndRect(t *testing.T) {
	b := Box{X1: 10, Y1: 20, X2: 110, Y2: 70}

	if b.Width() != 100 {
		t.Errorf("Width: got %v, want 100", b.Width())
	}
	if b.Height() != 50 {
		t.Errorf("Height: got %v, want 50", b.Height())
	}
	if b.Area() != 5000 {
		t.Errorf("Area: got %v, want 5000", b.Area())
	}
	if got := b.Rect(); got != image.Rect(10, 20, 110, 70) {
		t.Errorf("Rect: got %v", got)
	}
}

func TestSelectFirst(t *testing.T) {
	car := Detection{ClassID: 2, Confidence: 0.99}
	lowPerson := Detection{ClassID: PersonClass, Confidence: 0.3, Box: Box{X1: 1}}
	highPerson := Detection{ClassID: PersonClass, Confidence: 0.9, Box: Box{X1: 2}}

	tests := []struct {
		name       string
		detections []Detection
		expectNil  bool
		expectX1   float64
	}{
		{
			name:       "empty list",
			detections: nil,
			expectNil:  true,
		},
		{
			name:       "no person",
			detections: []Detection{car, car},
			expectNil:  true,
		},
		{
			name:       "skips other classes",
			detections: []Detection{car, highPerson},
			expectX1:   2,
		},
		{
			name:       "positional, not confidence ranked",
			detections: []Detection{lowPerson, highPerson},
			expectX1:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectFirst(tc.detections, PersonClass)
			if tc.expectNil {
				if got != nil {
					t.Errorf("SelectFirst: expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("SelectFirst: expected non-nil, got nil")
			}
			if got.Box.X1 != tc.expectX1 {
				t.Errorf("SelectFirst: got %+v", got)
			}
		})
	}
}

func TestClassNames(t *testing.T) {
	if len(COCOClasses) != 80 {
		t.Errorf("expected 80 COCO classes, got %d", len(COCOClasses))
	}
	if ClassID("person") != PersonClass {
		t.Errorf("person should be class %d", PersonClass)
	}
	if ClassID("unicorn") != -1 {
		t.Error("unknown class should map to -1")
	}
	if name := (Detection{ClassID: 2}).ClassName(); name != "car" {
		t.Errorf("ClassName: got %q, want car", name)
	}
	if name := (Detection{ClassID: 500}).ClassName(); name != "unknown" {
		t.Errorf("ClassName: got %q, want unknown", name)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelPath == "" {
		t.Error("DefaultConfig: ModelPath should not be empty")
	}
	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh > 1 {
		t.Errorf("DefaultConfig: ConfidenceThresh should be 0-1, got %f", cfg.ConfidenceThresh)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		t.Errorf("DefaultConfig: input size should be positive, got %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
}

func TestNewYOLO_MissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "/nonexistent/model.onnx"
	if _, err := NewYOLO(cfg); err == nil {
		t.Error("expected error for missing model")
	}
}
