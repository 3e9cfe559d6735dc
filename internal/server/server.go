package server

import (
	"backend-ridetrack/internal/auth"
	"backend-ridetrack/internal/config"
	"backend-ridetrack/internal/ridestore"
	"backend-ridetrack/internal/stream"
	"backend-ridetrack/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	Rides    ridestore.Backend
	Redis    *redis.Client
	Stream   *stream.Hub
	Tracking *tracking.Service
}

func NewServer(cfg config.Config, rides ridestore.Backend, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	if rides == nil {
		rides = ridestore.NewMemory()
	}
	hub := stream.NewHub(redisClient)

	s := &Server{
		App:      app,
		Cfg:      cfg,
		Rides:    rides,
		Redis:    redisClient,
		Stream:   hub,
		Tracking: tracking.NewService(rides, hub),
	}

	registerRoutes(s)
	return s
}

// Close stops every rider's sensor feed and the live stream relay.
func (s *Server) Close() error {
	s.Tracking.Close()
	return s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	riderMiddleware := auth.RiderMiddleware(s.Cfg.JWTSecret)

	tracking.RegisterRoutes(s.App.Group("/rides"), s.Tracking, riderMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, riderMiddleware)
}
