// glyphcam: live camera feed as ASCII art or face-boxed video,
// streamed over a websocket dashboard.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/glyphcam/glyphcam/internal/config"
	"github.com/glyphcam/glyphcam/internal/log"
	"github.com/glyphcam/glyphcam/pkg/capture"
	"github.com/glyphcam/glyphcam/pkg/detect"
	"github.com/glyphcam/glyphcam/pkg/loop"
	"github.com/glyphcam/glyphcam/pkg/render"
	"github.com/glyphcam/glyphcam/pkg/web"
)

var autostart = flag.Bool("autostart", true, "Enable capture on launch")

func main() {
	flag.Parse()

	cfg := config.Load()
	log.Init(cfg.LogLevel)
	log.Info("glyphcam starting", "port", cfg.HTTPPort, "camera", cfg.CameraDevice)

	settings := loop.NewManager()
	server := web.NewServer(cfg.HTTPPort, settings)

	painter, err := render.NewPainter(cfg.CaptureWidth, cfg.CaptureHeight)
	if err != nil {
		log.Error("painter init failed", "error", err)
		os.Exit(1)
	}

	captureCfg := capture.Config{
		Device: cfg.CameraDevice,
		Width:  cfg.CaptureWidth,
		Height: cfg.CaptureHeight,
		FPS:    cfg.CaptureFPS,
	}

	detectCfg := detect.DefaultConfig()
	detectCfg.ModelPath = cfg.ModelPath

	loopCfg := loop.DefaultConfig()
	loopCfg.DetectEvery = cfg.DetectStride

	driver := loop.New(loopCfg, settings, painter, server,
		func() (capture.Source, error) { return capture.OpenWebcam(captureCfg) },
		func() (detect.Detector, error) { return detect.NewYuNet(detectCfg) },
	)
	server.AttachDriver(driver)

	server.StartAsync()

	if *autostart {
		if err := driver.Enable(); err != nil {
			// Stay up: the dashboard shows the error and capture can be
			// re-enabled once the camera is available
			log.Error("capture unavailable", "error", err)
		}
	}

	// Block until shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	driver.Disable()
	if err := server.Shutdown(); err != nil {
		log.Warn("server shutdown", "error", err)
	}
}
