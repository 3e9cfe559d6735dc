package tracking

import (
	"errors"

	"backend-ridetrack/internal/auth"
	"backend-ridetrack/internal/ride"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Use(authMiddleware, func(c *fiber.Ctx) error {
		if auth.RiderID(c) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "rider required")
		}
		return c.Next()
	})

	r.Post("/session/start", func(c *fiber.Ctx) error {
		snap, err := svc.Start(auth.RiderID(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(snap)
	})

	r.Post("/session/pause", func(c *fiber.Ctx) error {
		return c.JSON(svc.Pause(auth.RiderID(c)))
	})

	r.Post("/session/stop", func(c *fiber.Ctx) error {
		rec, err := svc.Stop(c.Context(), auth.RiderID(c))
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Post("/session/discard", func(c *fiber.Ctx) error {
		return c.JSON(svc.Discard(auth.RiderID(c)))
	})

	r.Get("/session", func(c *fiber.Ctx) error {
		return c.JSON(svc.Current(auth.RiderID(c)))
	})

	r.Post("/session/fixes", func(c *fiber.Ctx) error {
		var req FixRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.PushFix(auth.RiderID(c), req.Fix()); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		entries, err := svc.History(c.Context(), auth.RiderID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(entries)
	})
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidFix):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrAlreadyTracking), errors.Is(err, ride.ErrNotStarted), errors.Is(err, ErrNoActiveFeed):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ride.ErrRideTooShort):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ride.ErrSensorUnsupported):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
