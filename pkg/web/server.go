// Package web provides the glyphcam dashboard: a small REST API for
// controls plus websocket feeds for the ascii block, painted frames,
// status, and logs.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/glyphcam/glyphcam/internal/log"
	"github.com/glyphcam/glyphcam/pkg/hub"
	"github.com/glyphcam/glyphcam/pkg/loop"
)

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, state, error
	Message string `json:"message"`
}

// Server is the dashboard server. It implements loop.Sink, so the frame
// loop publishes straight into the websocket hubs.
type Server struct {
	app  *fiber.App
	port string

	settings *loop.Manager

	driverMu sync.RWMutex
	driver   *loop.Driver

	logs   []LogEntry
	logsMu sync.RWMutex

	asciiHub  *hub.Hub
	videoHub  *hub.Hub
	statusHub *hub.Hub
	logHub    *hub.Hub
}

// NewServer creates the dashboard server. Attach the frame loop driver with
// AttachDriver before starting.
func NewServer(port string, settings *loop.Manager) *Server {
	s := &Server{
		port:      port,
		settings:  settings,
		logs:      make([]LogEntry, 0, 500),
		asciiHub:  hub.New("ascii"),
		videoHub:  hub.New("video"),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "glyphcam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/settings", s.handleGetSettings)
	api.Post("/settings", s.handleUpdateSettings)
	api.Post("/capture/enable", s.handleEnable)
	api.Post("/capture/disable", s.handleDisable)
	api.Get("/palette", s.handlePalette)
	api.Get("/logs", s.handleGetLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/ascii", websocket.New(s.feedHandler(s.asciiHub)))
	app.Get("/ws/video", websocket.New(s.feedHandler(s.videoHub)))
	app.Get("/ws/status", websocket.New(s.feedHandler(s.statusHub)))
	app.Get("/ws/logs", websocket.New(s.feedHandler(s.logHub)))

	s.app = app
	return s
}

// AttachDriver wires the frame loop driver for the control endpoints.
func (s *Server) AttachDriver(d *loop.Driver) {
	s.driverMu.Lock()
	s.driver = d
	s.driverMu.Unlock()
}

func (s *Server) getDriver() *loop.Driver {
	s.driverMu.RLock()
	defer s.driverMu.RUnlock()
	return s.driver
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.asciiHub.Run()
	go s.videoHub.Run()
	go s.statusHub.Run()
	go s.logHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server and ends the feed hubs.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()

	s.asciiHub.Stop()
	s.videoHub.Stop()
	s.statusHub.Stop()
	s.logHub.Stop()

	return err
}

// AddLog appends a dashboard log line and broadcasts it.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > 500 {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// --- loop.Sink ---

// PublishASCII broadcasts the rendered text block.
func (s *Server) PublishASCII(block string) {
	s.asciiHub.BroadcastText([]byte(block))
}

// PublishFrame broadcasts the painted surface as a JPEG frame.
func (s *Server) PublishFrame(jpeg []byte) {
	s.videoHub.BroadcastBinary(jpeg)
}

// PublishStatus broadcasts lifecycle transitions.
func (s *Server) PublishStatus(st loop.Status) {
	s.statusHub.BroadcastJSON(st)

	if st.Message != "" {
		s.AddLog("error", string(st.State)+": "+st.Message)
	} else {
		s.AddLog("state", string(st.State))
	}
}
