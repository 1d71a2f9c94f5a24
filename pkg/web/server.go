// Package web serves the follower dashboard: live status, the serial
// protocol log and a manual command endpoint.
package web

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/hub"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/serialline"
	"github.com/teslashibe/go-ptz/pkg/tracking"
)

// maxExchanges is how many protocol exchanges the dashboard keeps.
const maxExchanges = 200

// Enqueuer accepts manual commands for the control loop.
type Enqueuer interface {
	Enqueue(cmd ptz.Command) error
}

// Link reports on the serial channel.
type Link interface {
	State() serialline.State
	Stats() serialline.Stats
}

// Status is the body of GET /api/status.
type Status struct {
	Session string           `json:"session"`
	Link    string           `json:"link"`
	Stats   serialline.Stats `json:"stats"`
	Frames  uint64           `json:"frames"`
	Clients int              `json:"clients"`
	Last    *tracking.Report `json:"last,omitempty"`
}

// Server is the dashboard server
type Server struct {
	app  *fiber.App
	port string
	log  *slog.Logger

	queue   Enqueuer
	link    Link
	session string

	mu        sync.RWMutex
	last      *tracking.Report
	exchanges []serialline.Exchange

	statusHub *hub.Hub
}

// NewServer creates a dashboard. queue and link may be nil; the command
// endpoint then answers 503 and the link reads as closed.
func NewServer(port string, queue Enqueuer, link Link, logger *slog.Logger) *Server {
	l := log.Component(logger, "web")
	s := &Server{
		port:      port,
		log:       l,
		queue:     queue,
		link:      link,
		exchanges: make([]serialline.Exchange, 0, maxExchanges),
		statusHub: hub.New("status", l),
	}

	app := fiber.New(fiber.Config{
		AppName:               "PTZ Follow",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/exchanges", s.handleExchanges)
	api.Post("/command", s.handleCommand)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// SetSession labels the status with the follower's session id.
func (s *Server) SetSession(id string) {
	s.mu.Lock()
	s.session = id
	s.mu.Unlock()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the hub and blocks serving HTTP.
func (s *Server) Start() error {
	s.log.Info("web dashboard", "url", "http://localhost:"+s.port)
	go s.statusHub.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.log.Error("web server stopped", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server and disconnects websocket clients.
func (s *Server) Shutdown() error {
	s.statusHub.Stop()
	return s.app.Shutdown()
}

// OnCycle records the latest report and pushes it to websocket clients.
func (s *Server) OnCycle(rep tracking.Report) {
	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()

	if err := s.statusHub.BroadcastJSON(rep); err != nil {
		s.log.Warn("encode report", "error", err)
	}
}

// AddExchange records one serial exchange. Use it as the channel tap.
func (s *Server) AddExchange(ex serialline.Exchange) {
	s.mu.Lock()
	s.exchanges = append(s.exchanges, ex)
	if len(s.exchanges) > maxExchanges {
		s.exchanges = s.exchanges[len(s.exchanges)-maxExchanges:]
	}
	s.mu.Unlock()
}

// Snapshot returns the current dashboard status.
func (s *Server) Snapshot() Status {
	s.mu.RLock()
	st := Status{
		Session: s.session,
		Link:    serialline.Closed.String(),
		Last:    s.last,
		Clients: s.statusHub.ClientCount(),
	}
	if s.last != nil {
		st.Frames = s.last.Frame
	}
	s.mu.RUnlock()

	if s.link != nil {
		st.Link = s.link.State().String()
		st.Stats = s.link.Stats()
	}
	return st
}

// Exchanges returns a copy of the protocol log, oldest first.
func (s *Server) Exchanges() []serialline.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]serialline.Exchange(nil), s.exchanges...)
}
