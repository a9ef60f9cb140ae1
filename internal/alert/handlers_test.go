package alert

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestCheckInRelay(t *testing.T) {
	email := &fakeEmail{}
	app := fiber.New()
	RegisterRoutes(app.Group("/alerts"), email, passthrough)

	body := []byte(`{"recipients":["ana@example.com"],"message":"CHECK-IN MISSED","locationUrl":"https://maps.google.com/?q=1,2"}`)
	req := httptest.NewRequest(http.MethodPost, "/alerts/checkin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("relay status: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected one send")
	}
}

func TestCheckInRelayValidation(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/alerts"), &fakeEmail{}, passthrough)

	req := httptest.NewRequest(http.MethodPost, "/alerts/checkin", bytes.NewReader([]byte(`{"recipients":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestCheckInRelayFailure(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/alerts"), &fakeEmail{err: errors.New("down")}, passthrough)

	body := []byte(`{"recipients":["ana@example.com"],"message":"m"}`)
	req := httptest.NewRequest(http.MethodPost, "/alerts/checkin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected bad gateway, got %d", resp.StatusCode)
	}
}
