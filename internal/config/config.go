// Package config provides environment-based configuration for glyphcam
// commands. A .env file in the working directory is loaded first, then
// real environment variables take precedence.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the glyphcam service.
const (
	DefaultHTTPPort      = "8090"
	DefaultCameraDevice  = 0
	DefaultCaptureWidth  = 640
	DefaultCaptureHeight = 480
	DefaultCaptureFPS    = 30
	DefaultDetectStride  = 10
	DefaultModelPath     = "models/face_detection_yunet.onnx"
	DefaultLogLevel      = "info"
)

// App holds the top-level service configuration.
type App struct {
	HTTPPort      string // Dashboard listen port
	CameraDevice  int    // V4L2 / AVFoundation device index
	CaptureWidth  int    // Requested capture width in pixels
	CaptureHeight int    // Requested capture height in pixels
	CaptureFPS    int    // Target frames per second
	DetectStride  int    // Run face detection once every N frames
	ModelPath     string // Path to the YuNet ONNX model
	LogLevel      string // debug, info, warn, error
}

// Load reads configuration from .env (if present) and the environment.
func Load() App {
	// Missing .env is fine, env vars alone are enough
	_ = godotenv.Load()

	return App{
		HTTPPort:      getString("GLYPHCAM_PORT", DefaultHTTPPort),
		CameraDevice:  getInt("GLYPHCAM_CAMERA", DefaultCameraDevice),
		CaptureWidth:  getInt("GLYPHCAM_WIDTH", DefaultCaptureWidth),
		CaptureHeight: getInt("GLYPHCAM_HEIGHT", DefaultCaptureHeight),
		CaptureFPS:    getInt("GLYPHCAM_FPS", DefaultCaptureFPS),
		DetectStride:  getInt("GLYPHCAM_DETECT_STRIDE", DefaultDetectStride),
		ModelPath:     getString("GLYPHCAM_MODEL", DefaultModelPath),
		LogLevel:      getString("GLYPHCAM_LOG_LEVEL", DefaultLogLevel),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
