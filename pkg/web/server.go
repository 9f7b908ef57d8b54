package web

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/base64"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/perbu/faqchat/pkg/assistant"
	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/metrics"
)

//go:embed views
var viewsFS embed.FS

// Config holds the settings of the web server
type Config struct {
	Addr          string
	Title         string
	SessionSecret string // Used to derive the cookie encryption key
	AccessLog     bool
}

// Server wraps the Fiber app and the chat state it serves.
type Server struct {
	App *fiber.App
	Cfg Config

	assistant *assistant.Assistant
	sessions  *chat.Sessions
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// New creates a server with middleware and routes configured.
// gatherer backs the /metrics endpoint.
func New(cfg Config, a *assistant.Assistant, sessions *chat.Sessions, rec *metrics.Recorder, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(views), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			} else {
				logger.Error("request failed", "path", c.Path(), "error", err)
			}

			return c.Status(code).Render("error", fiber.Map{
				"Title":   cfg.Title,
				"Message": message,
			})
		},
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(fiberlogger.New())
	}

	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey(cfg.SessionSecret),
	}))

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	s := &Server{
		App:       app,
		Cfg:       cfg,
		assistant: a,
		sessions:  sessions,
		metrics:   rec,
		logger:    logger,
	}

	app.Get("/", s.index)
	app.Post("/ask", s.ask)
	app.Post("/api/ask", s.apiAsk)
	app.Get("/healthz", s.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// Start listens on the configured address.
func (s *Server) Start() error {
	s.logger.Info("web server starting", "addr", s.Cfg.Addr)
	return s.App.Listen(s.Cfg.Addr, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

// Shutdown gracefully shuts down the server, waiting for open
// connections until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}

// PruneSessions drops chat sessions idle for longer than idle, checking
// every interval until ctx is done.
func (s *Server) PruneSessions(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Prune(time.Now().Add(-idle)); n > 0 {
				s.logger.Debug("pruned idle sessions", "count", n)
			}
			s.metrics.Sessions(s.sessions.Len())
		}
	}
}

// deriveEncryptionKey derives a 32-byte encryption key from the session secret.
func deriveEncryptionKey(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(hash[:])
}
