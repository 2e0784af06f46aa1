package server

import (
	"github.com/KevinDKao/running-diary/internal/config"
	"github.com/KevinDKao/running-diary/internal/db"
	"github.com/KevinDKao/running-diary/internal/journal"
	"github.com/KevinDKao/running-diary/internal/session"
	"github.com/KevinDKao/running-diary/internal/store"
	"github.com/KevinDKao/running-diary/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       db.Querier
	Redis    *redis.Client
	Stream   *stream.Hub
	Sessions *session.Service
	Journal  *journal.Orchestrator
	Log      *zap.Logger
}

// NewServer wires the journal onto a Fiber app. A nil Redis client keeps
// workout forms and refresh events inside this process.
func NewServer(cfg config.Config, q db.Querier, redisClient *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{ErrorHandler: journal.ErrorHandler, Immutable: true})
	app.Use(recover.New())
	app.Use(logger.New())

	var modals journal.ModalStore = journal.NewMemoryModalStore()
	if redisClient != nil {
		modals = journal.NewRedisModalStore(redisClient, cfg.ModalTTL)
	}

	hub := stream.NewHub(redisClient, log)
	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       q,
		Redis:    redisClient,
		Stream:   hub,
		Sessions: session.NewService(cfg.SessionSecret, cfg.SessionTTL),
		Journal:  journal.NewOrchestrator(store.New(q), modals, hub, log),
		Log:      log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	sessionMiddleware := session.Middleware(s.Sessions)

	session.RegisterRoutes(s.App.Group("/session"), s.Sessions)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, sessionMiddleware)
	journal.RegisterRoutes(s.App, s.Journal, sessionMiddleware)
}

// Close stops the refresh hub. The caller owns the database and Redis
// connections.
func (s *Server) Close() {
	s.Stream.Close()
}
