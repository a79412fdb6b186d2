package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/config"
	"github.com/pulsewatch/pulsewatch/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := config.Config{
		AppName:          "pulsewatch-test",
		HashSecret:       "routes-test-secret",
		TokenTTL:         time.Hour,
		MaxChecksPerUser: 5,
	}
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body, tokenID string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if tokenID != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenID)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	payload := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func TestUserTokenCheckFlow(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users",
		`{"identity":"5551234567","firstName":"Ada","lastName":"Lovelace","password":"hunter2","agreedToTerms":true}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: status %d", resp.StatusCode)
	}

	resp, tokenBody := doJSON(t, app, fiber.MethodPost, "/api/v1/tokens",
		`{"identity":"5551234567","password":"hunter2"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("issue token: status %d", resp.StatusCode)
	}
	tokenID, _ := tokenBody["id"].(string)
	if tokenID == "" {
		t.Fatalf("no token id in %v", tokenBody)
	}

	resp, userBody := doJSON(t, app, fiber.MethodGet, "/api/v1/users?identity=5551234567", "", tokenID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get user: status %d", resp.StatusCode)
	}
	if _, leaked := userBody["passwordDigest"]; leaked {
		t.Fatal("password digest leaked in user response")
	}

	resp, checkBody := doJSON(t, app, fiber.MethodPost, "/api/v1/checks",
		`{"protocol":"https","url":"example.com","method":"get","successCodes":[200],"timeoutSeconds":3}`, tokenID)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create check: status %d", resp.StatusCode)
	}
	checkID, _ := checkBody["id"].(string)
	if checkID == "" {
		t.Fatalf("no check id in %v", checkBody)
	}
	if owner, _ := checkBody["ownerIdentity"].(string); owner != "5551234567" {
		t.Fatalf("check owner %q", owner)
	}

	_, userBody = doJSON(t, app, fiber.MethodGet, "/api/v1/users?identity=5551234567", "", tokenID)
	ids, _ := userBody["checkIds"].([]any)
	if len(ids) != 1 || ids[0] != checkID {
		t.Fatalf("user check list not updated: %v", userBody["checkIds"])
	}

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/api/v1/checks?id="+checkID, "", tokenID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete check: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/checks?id="+checkID, "", tokenID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted check: status %d", resp.StatusCode)
	}

	_, userBody = doJSON(t, app, fiber.MethodGet, "/api/v1/users?identity=5551234567", "", tokenID)
	if ids, _ := userBody["checkIds"].([]any); len(ids) != 0 {
		t.Fatalf("check id survived on user: %v", userBody["checkIds"])
	}
}

func TestUserEndpointsRequireToken(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users",
		`{"identity":"5551234567","firstName":"Ada","lastName":"Lovelace","password":"hunter2","agreedToTerms":true}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user: status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/users?identity=5551234567", "", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("tokenless get: status %d, want 403", resp.StatusCode)
	}
}

func TestPing(t *testing.T) {
	app := setupApp(t)
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/ping", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ping: status %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("ping body %v", body)
	}
}
