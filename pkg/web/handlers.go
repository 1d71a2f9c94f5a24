package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-ptz/pkg/hub"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/tracking"
)

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Op    string `json:"op"`
	Value int    `json:"value"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Snapshot())
}

func (s *Server) handleExchanges(c *fiber.Ctx) error {
	return c.JSON(s.Exchanges())
}

// handleCommand queues a manual command for the next loop cycle.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	cmd, err := ptz.ParseCommand(req.Op, req.Value)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if s.queue == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "manual control unavailable"})
	}

	if err := s.queue.Enqueue(cmd); err != nil {
		if errors.Is(err, tracking.ErrQueueFull) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s.log.Info("manual command queued", "command", cmd.String())
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": cmd})
}

// handleStatusWS streams cycle reports until the client goes away.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	if err := c.WriteJSON(s.Snapshot()); err != nil {
		return
	}
	hub.NewClient(s.statusHub, c).Run()
}
