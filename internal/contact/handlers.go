package contact

import (
	"errors"

	"backend-safeher/internal/alert"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, links alert.LinkPusher, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		contacts, err := svc.List(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if contacts == nil {
			contacts = []Contact{}
		}
		return c.JSON(contacts)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Contact
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		req.UserID, _ = c.Locals("user_id").(string)
		created, err := svc.Create(c.Context(), req)
		if err != nil {
			if isValidationError(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Contact
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		updated, err := svc.Update(c.Context(), userID, c.Params("id"), req)
		if err != nil {
			if isValidationError(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusNotFound, "contact not found")
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Delete(c.Context(), userID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// sends a test message link to the user's own devices so they can
	// verify a contact before relying on it
	r.Post("/:id/test", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		contact, err := svc.Get(c.Context(), userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "contact not found")
		}
		if links == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "device channel not available")
		}

		recipient := alert.Recipient{UserID: userID, Name: contact.Name, Phone: contact.Phone, Email: contact.Email}
		body := "TEST SOS ALERT from SafeHer: this is a test message."
		if err := links.Push(c.Context(), userID, recipient, body); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{"notice": "test alert sent to " + contact.Name})
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPhone) || errors.Is(err, ErrInvalidEmail) || errors.Is(err, errNameAndPhoneRequired)
}
