package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/service-request-manager/internal/api/http/handlers"
	"github.com/spec-kit/service-request-manager/internal/auth"
	"github.com/spec-kit/service-request-manager/internal/domain"
	"github.com/spec-kit/service-request-manager/internal/observability"
	"github.com/spec-kit/service-request-manager/internal/persistence"
	"github.com/spec-kit/service-request-manager/internal/repository"
	"github.com/spec-kit/service-request-manager/internal/service"
)

type testApp struct {
	app    *fiber.App
	store  *repository.MemoryStore
	tokens *auth.TokenManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := repository.NewMemoryStore()
	store.SeedServiceRequests([]domain.ServiceRequest{
		{ID: 1, Title: "Laptop screen repair", Description: "My laptop screen is cracked.", CreatedDate: time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC), Status: "Open", CreatedBy: "john.doe"},
		{ID: 2, Title: "Software installation", Description: "Need VS Code installed on my new machine.", CreatedDate: time.Date(2023, 1, 16, 14, 30, 0, 0, time.UTC), Status: "In Progress", CreatedBy: "jane.smith"},
		{ID: 3, Title: "Network connectivity issue", Description: "Cannot access internal network drives.", CreatedDate: time.Date(2023, 1, 17, 9, 0, 0, 0, time.UTC), Status: "Closed", CreatedBy: "john.doe"},
	})

	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "issuer", "audience", 30*time.Minute)
	verifier := auth.NewStaticVerifier("testuser", "password123")
	authService := service.NewAuthService(verifier, tokens, logger)
	requestService := service.NewRequestService(store, nil, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), "http://localhost:4200", 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:            handlers.NewAuthHandler(authService),
		ServiceRequests: handlers.NewServiceRequestsHandler(requestService),
		AuthMiddleware:  auth.NewMiddleware(tokens),
	})

	return &testApp{app: app, store: store, tokens: tokens}
}

func (ta *testApp) request(t *testing.T, method, path, token string, body any) *nethttp.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *nethttp.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func (ta *testApp) login(t *testing.T) string {
	t.Helper()
	resp := ta.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "password123",
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody[map[string]any](t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	return token
}

func TestLogin_BadCredentials(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong",
	})
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ta.request(t, "GET", "/api/servicerequests", tt.token, nil)
			if resp.StatusCode != nethttp.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestProtectedRoutes_RejectForeignToken(t *testing.T) {
	ta := newTestApp(t)

	foreign := auth.NewTokenManager("other-secret", "issuer", "audience", 30*time.Minute)
	token, _, err := foreign.Issue("testuser")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	resp := ta.request(t, "GET", "/api/servicerequests", token, nil)
	if resp.StatusCode != nethttp.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestList_StatusFilterQuery(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	resp := ta.request(t, "GET", "/api/servicerequests?statusFilter=closed", token, nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	records := decodeBody[[]map[string]any](t, resp)
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0]["status"] != "Closed" {
		t.Errorf("status = %v, want Closed", records[0]["status"])
	}
}

func TestServiceRequestLifecycle(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	// The three seeded records are visible.
	resp := ta.request(t, "GET", "/api/servicerequests", token, nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	if records := decodeBody[[]map[string]any](t, resp); len(records) != 3 {
		t.Fatalf("seeded records = %d, want 3", len(records))
	}

	// Create with empty status defaults to Open and gets a fresh id.
	resp = ta.request(t, "POST", "/api/servicerequests", token, map[string]any{
		"title":       "Test",
		"description": "Something broke.",
		"status":      "",
		"createdBy":   "testuser",
	})
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc == "" {
		t.Error("create response missing Location header")
	}
	created := decodeBody[map[string]any](t, resp)
	if created["status"] != "Open" {
		t.Errorf("created status = %v, want Open", created["status"])
	}
	id := int64(created["id"].(float64))
	if id != 4 {
		t.Errorf("created id = %d, want 4", id)
	}
	originalCreatedDate := created["createdDate"].(string)

	// Replace with tampered write-once fields; they must survive untouched.
	resp = ta.request(t, "PUT", fmt.Sprintf("/api/servicerequests/%d", id), token, map[string]any{
		"id":          id,
		"title":       "Test updated",
		"description": "Something broke badly.",
		"createdDate": "1999-01-01T00:00:00Z",
		"status":      "In Progress",
		"createdBy":   "someone.else",
	})
	if resp.StatusCode != nethttp.StatusNoContent {
		t.Fatalf("replace status = %d, want 204", resp.StatusCode)
	}

	resp = ta.request(t, "GET", fmt.Sprintf("/api/servicerequests/%d", id), token, nil)
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	fetched := decodeBody[map[string]any](t, resp)
	if fetched["title"] != "Test updated" {
		t.Errorf("title = %v, want the replaced value", fetched["title"])
	}
	if fetched["createdDate"] != originalCreatedDate {
		t.Errorf("createdDate = %v, want original %v", fetched["createdDate"], originalCreatedDate)
	}
	if fetched["createdBy"] != "testuser" {
		t.Errorf("createdBy = %v, want original testuser", fetched["createdBy"])
	}

	// Delete, then the record is gone.
	resp = ta.request(t, "DELETE", fmt.Sprintf("/api/servicerequests/%d", id), token, nil)
	if resp.StatusCode != nethttp.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	resp = ta.request(t, "GET", fmt.Sprintf("/api/servicerequests/%d", id), token, nil)
	if resp.StatusCode != nethttp.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestReplace_IDMismatch(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	resp := ta.request(t, "PUT", "/api/servicerequests/1", token, map[string]any{
		"id":          2,
		"title":       "t",
		"description": "d",
		"status":      "Open",
		"createdBy":   "u",
	})
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetDeleteReplace_UnknownID(t *testing.T) {
	ta := newTestApp(t)
	token := ta.login(t)

	tests := []struct {
		name   string
		method string
		body   any
	}{
		{"get", "GET", nil},
		{"delete", "DELETE", nil},
		{"replace", "PUT", map[string]any{"id": 99, "title": "t", "description": "d", "status": "Open", "createdBy": "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ta.request(t, tt.method, "/api/servicerequests/99", token, tt.body)
			if resp.StatusCode != nethttp.StatusNotFound {
				t.Errorf("status = %d, want 404", resp.StatusCode)
			}
		})
	}
}
