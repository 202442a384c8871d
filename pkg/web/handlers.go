package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/glyphcam/glyphcam/pkg/hub"
	"github.com/glyphcam/glyphcam/pkg/loop"
	"github.com/glyphcam/glyphcam/pkg/palette"
)

// handleStatus returns the driver lifecycle snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	d := s.getDriver()
	if d == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "frame loop not attached",
		})
	}
	return c.JSON(d.Status())
}

// handleGetSettings returns the current render settings.
func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(s.settings.Snapshot())
}

// handleUpdateSettings applies a partial settings update.
func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var patch loop.Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	applied, err := s.settings.Apply(patch)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(applied)
}

// handleEnable starts the capture loop.
func (s *Server) handleEnable(c *fiber.Ctx) error {
	d := s.getDriver()
	if d == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "frame loop not attached",
		})
	}

	if err := d.Enable(); err != nil {
		// The driver already landed in the error state with a message;
		// mirror it to the caller
		return c.Status(fiber.StatusConflict).JSON(d.Status())
	}
	return c.JSON(d.Status())
}

// handleDisable stops the capture loop and releases the camera.
func (s *Server) handleDisable(c *fiber.Ctx) error {
	d := s.getDriver()
	if d == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "frame loop not attached",
		})
	}

	d.Disable()
	return c.JSON(d.Status())
}

// handlePalette lists the selectable accent colors.
func (s *Server) handlePalette(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default": palette.DefaultName,
		"accents": palette.List(),
	})
}

// handleGetLogs returns recent dashboard log lines.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}

// feedHandler subscribes a websocket connection to a hub feed.
func (s *Server) feedHandler(h *hub.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		client := hub.NewClient(h, conn)
		client.Run() // Blocks until the connection closes
	}
}
