package capture

import (
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Webcam is a Source backed by gocv.VideoCapture.
type Webcam struct {
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	config Config

	mu     sync.Mutex
	closed bool
}

// OpenWebcam opens the camera device and requests the configured resolution
// and frame rate. An open failure maps to ErrDeviceUnavailable.
func OpenWebcam(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cap, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrDeviceUnavailable, cfg.Device, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: device %d", ErrDeviceUnavailable, cfg.Device)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))

	return &Webcam{
		cap:    cap,
		mat:    gocv.NewMat(),
		config: cfg,
	}, nil
}

// Read captures the current frame from the device.
func (w *Webcam) Read() (Frame, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return Frame{}, ErrClosed
	}

	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return Frame{}, ErrNoFrame
	}

	img, err := w.mat.ToImage()
	if err != nil {
		return Frame{}, fmt.Errorf("capture: convert frame: %w", err)
	}

	rgba := toRGBA(img)
	bounds := rgba.Bounds()

	return Frame{
		Image:     rgba,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Timestamp: time.Now(),
	}, nil
}

// Close releases the camera device. Idempotent.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.mat.Close()
	return w.cap.Close()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}
