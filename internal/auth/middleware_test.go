package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddlewareGuardsRoutes(t *testing.T) {
	app := fiber.New()
	app.Get("/guarded", JWTMiddleware("safeher-secret"), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.SendString(userID)
	})

	svc := NewService("safeher-secret", nil)
	token, err := svc.signToken("user-7", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	foreign, err := NewService("someone-elses-secret", nil).signToken("user-7", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not a bearer scheme", "Basic dXNlcjpwdw==", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"token signed with another key", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: test request: %v", tc.name, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, resp.StatusCode)
		}
	}
}

func TestJWTMiddlewareExposesUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", JWTMiddleware("safeher-secret"), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.SendString(userID)
	})

	svc := NewService("safeher-secret", nil)
	token, err := svc.signToken("user-7", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "user-7" {
		t.Fatalf("expected claims identity in locals, got %q", body)
	}
}
