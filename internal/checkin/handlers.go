package checkin

import (
	"errors"

	"backend-safeher/internal/settings"

	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	IntervalMin *int   `json:"interval_min"`
	GraceMin    *int   `json:"grace_min"`
	DurationMin *int   `json:"duration_min"`
	Message     string `json:"message"`
}

func RegisterRoutes(r fiber.Router, engine *Engine, prefs *settings.Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)

		defaults := settings.Defaults(userID)
		if prefs != nil {
			if loaded, err := prefs.Get(c.Context(), userID); err == nil {
				defaults = loaded
			}
		}

		interval := defaults.CheckInIntervalMin
		if req.IntervalMin != nil {
			interval = *req.IntervalMin
		}
		grace := defaults.CheckInGraceMin
		if req.GraceMin != nil {
			grace = *req.GraceMin
		}
		duration := defaults.CheckInDurationMin
		if req.DurationMin != nil {
			duration = *req.DurationMin
		}
		message := req.Message
		if message == "" {
			message = defaults.CheckInMessage
		}

		session := engine.Start(userID, interval, grace, duration, message)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"notice":  "check-in scheduled",
			"session": session,
		})
	})

	r.Post("/confirm", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := engine.Confirm(userID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"notice": "check-in confirmed"})
	})

	r.Post("/snooze", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Minutes int `json:"minutes"`
		}
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		session, err := engine.Snooze(userID, req.Minutes)
		if err != nil {
			if errors.Is(err, ErrNoActiveSession) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"session": session})
	})

	r.Post("/cancel", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := engine.Cancel(userID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(fiber.Map{"notice": "check-in cancelled"})
	})

	r.Get("/status", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		session, remaining, ok := engine.Status(userID)
		if !ok {
			return c.JSON(fiber.Map{"active": false})
		}
		return c.JSON(fiber.Map{
			"active":            true,
			"session":           session,
			"remaining_seconds": int(remaining.Seconds()),
		})
	})
}
