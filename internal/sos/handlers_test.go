package sos

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func userStub(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func newHandlerApp(t *testing.T) (*fiber.App, *Engine) {
	t.Helper()
	e := NewEngine(&fakeContacts{}, &fakeLocations{}, &fakeHistory{}, &fakeNotifier{}, nil)
	e.now = func() time.Time { return t0 }

	app := fiber.New()
	RegisterRoutes(app.Group("/sos"), e, userStub("user-1"))
	return app, e
}

func TestArmCancelFlow(t *testing.T) {
	app, engine := newHandlerApp(t)

	req := httptest.NewRequest(http.MethodPost, "/sos/arm", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("arm status: %v", err)
	}
	var ep Episode
	if err := json.NewDecoder(resp.Body).Decode(&ep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ep.State != StateCountingDown || ep.CountdownRemaining != CountdownSeconds {
		t.Fatalf("unexpected episode: %+v", ep)
	}

	// double arm conflicts
	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/sos/arm", nil))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict on double arm")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodPost, "/sos/cancel", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: %d", resp.StatusCode)
	}
	if _, ok := engine.Status("user-1"); ok {
		t.Fatalf("expected episode discarded")
	}
}

func TestEndHandlerConfirmation(t *testing.T) {
	app, engine := newHandlerApp(t)

	_, _ = engine.Arm("user-1")
	for i := 1; i <= CountdownSeconds; i++ {
		engine.TickAll(t0.Add(time.Duration(i) * time.Second))
	}

	req := httptest.NewRequest(http.MethodPost, "/sos/end", bytes.NewReader([]byte(`{"confirm":false}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unconfirmed end: expected 400, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/sos/end", bytes.NewReader([]byte(`{"confirm":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmed end: %d", resp.StatusCode)
	}
}

func TestStatusHandler(t *testing.T) {
	app, engine := newHandlerApp(t)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/sos/status", nil))
	var status struct {
		Active bool `json:"active"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&status)
	if status.Active {
		t.Fatalf("expected inactive status")
	}

	_, _ = engine.Arm("user-1")
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/sos/status", nil))
	_ = json.NewDecoder(resp.Body).Decode(&status)
	if !status.Active {
		t.Fatalf("expected active status")
	}
}
