package fakecall

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		cfg, err := svc.Get(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(cfg)
	})

	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Settings
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		req.UserID, _ = c.Locals("user_id").(string)
		saved, err := svc.Save(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(saved)
	})

	r.Post("/trigger", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			DelaySeconds int `json:"delay_seconds"`
		}
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Trigger(c.Context(), userID, time.Duration(req.DelaySeconds)*time.Second); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return c.JSON(fiber.Map{"notice": "fake call scheduled"})
	})
}
