package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLODetector runs a YOLOv8 ONNX model through the OpenCV DNN module.
type YOLODetector struct {
	net       gocv.Net
	config    Config
	mu        sync.Mutex
	inputSize image.Point
}

// Config holds YOLO detector configuration
type Config struct {
	ModelPath        string
	ConfidenceThresh float32
	NMSThresh        float32
	InputWidth       int
	InputHeight      int
}

// DefaultConfig returns production defaults for YOLOv8n
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.25,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// NewYOLO creates a new YOLO object detector
func NewYOLO(cfg Config) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", cfg.ModelPath, err)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load YOLO model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds objects in the frame. Results are in NMS output order with
// boxes in frame pixel coordinates.
func (d *YOLODetector) Detect(frame gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float32(frame.Cols())
	imgH := float32(frame.Rows())

	blob := gocv.BlobFromImage(frame, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.parseYOLOv8Output(output, imgW, imgH), nil
}

// yoloTensor is a view over a [1, 4+classes, anchors] YOLOv8 output.
// Channels 0..3 are cx, cy, w, h in network input pixels.
type yoloTensor struct {
	data    []float32
	chans   int
	anchors int
}

func newYOLOTensor(output gocv.Mat) (yoloTensor, bool) {
	sizes := output.Size()
	if len(sizes) != 3 || sizes[1] <= 4 {
		return yoloTensor{}, false
	}
	data, err := output.DataPtrFloat32()
	if err != nil || len(data) < sizes[1]*sizes[2] {
		return yoloTensor{}, false
	}
	return yoloTensor{data: data, chans: sizes[1], anchors: sizes[2]}, true
}

func (t yoloTensor) at(ch, anchor int) float32 {
	return t.data[ch*t.anchors+anchor]
}

// best returns the highest scoring class for an anchor.
func (t yoloTensor) best(anchor int) (int, float32) {
	class, score := 0, float32(0)
	for ch := 4; ch < t.chans; ch++ {
		if v := t.at(ch, anchor); v > score {
			class, score = ch-4, v
		}
	}
	return class, score
}

// parseYOLOv8Output decodes candidates above the confidence threshold,
// scales them to frame pixels and applies NMS.
func (d *YOLODetector) parseYOLOv8Output(output gocv.Mat, imgW, imgH float32) []Detection {
	t, ok := newYOLOTensor(output)
	if !ok {
		return nil
	}

	sx := imgW / float32(d.config.InputWidth)
	sy := imgH / float32(d.config.InputHeight)

	var (
		boxes  []Box
		rects  []image.Rectangle // integer copies, only for NMSBoxes
		scores []float32
		class  []int
	)
	for i := 0; i < t.anchors; i++ {
		id, score := t.best(i)
		if score < d.config.ConfidenceThresh {
			continue
		}
		cx, cy := float64(t.at(0, i)*sx), float64(t.at(1, i)*sy)
		hw, hh := float64(t.at(2, i)*sx)/2, float64(t.at(3, i)*sy)/2

		b := Box{X1: cx - hw, Y1: cy - hh, X2: cx + hw, Y2: cy + hh}
		boxes = append(boxes, b)
		rects = append(rects, b.Rect())
		scores = append(scores, score)
		class = append(class, id)
	}
	if len(boxes) == 0 {
		return nil
	}

	keep := gocv.NMSBoxes(rects, scores, d.config.ConfidenceThresh, d.config.NMSThresh)

	detections := make([]Detection, 0, len(keep))
	for _, idx := range keep {
		detections = append(detections, Detection{
			ClassID:    class[idx],
			Box:        boxes[idx],
			Confidence: float64(scores[idx]),
		})
	}
	return detections
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// COCOClasses contains the 80 COCO class names
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// ClassID returns the COCO id for name, or -1.
func ClassID(name string) int {
	for i, n := range COCOClasses {
		if n == name {
			return i
		}
	}
	return -1
}
