package sos

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, engine *Engine, authMiddleware fiber.Handler) {
	r.Post("/arm", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		ep, err := engine.Arm(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(ep)
	})

	r.Post("/cancel", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := engine.Cancel(userID); err != nil {
			if errors.Is(err, ErrNoEpisode) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(fiber.Map{"notice": "sos cancelled"})
	})

	r.Post("/end", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Confirm bool `json:"confirm"`
		}
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		if err := engine.End(userID, req.Confirm); err != nil {
			switch {
			case errors.Is(err, ErrConfirmationMissing):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNoEpisode):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			default:
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
		}
		return c.JSON(fiber.Map{"notice": "sos ended"})
	})

	r.Get("/status", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		ep, ok := engine.Status(userID)
		if !ok {
			return c.JSON(fiber.Map{"active": false})
		}
		return c.JSON(fiber.Map{"active": true, "episode": ep})
	})
}
