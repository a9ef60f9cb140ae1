package alert

import (
	"github.com/gofiber/fiber/v2"
)

type checkInRelayRequest struct {
	Recipients  []string `json:"recipients"`
	Message     string   `json:"message"`
	LocationURL string   `json:"locationUrl"`
}

// RegisterRoutes exposes the email relay used by clients as the
// preferred check-in alert channel.
func RegisterRoutes(r fiber.Router, email EmailSender, authMiddleware fiber.Handler) {
	r.Post("/checkin", authMiddleware, func(c *fiber.Ctx) error {
		var req checkInRelayRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if len(req.Recipients) == 0 || req.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "recipients and message required")
		}
		if email == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "email relay not configured")
		}

		body := withLocation(req.Message, req.LocationURL)
		if err := email.Send(c.Context(), req.Recipients, "SafeHer Check-In Missed", body); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, ErrAllChannelsFailed.Error())
		}
		return c.JSON(fiber.Map{"sent": len(req.Recipients)})
	})
}
