package middlewares

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/chat-assistant/internal/domain"
	"github.com/janhq/chat-assistant/internal/utils/platformerrors"
)

type stubParser struct {
	principal domain.Principal
	err       error
}

func (s stubParser) Parse(raw string) (domain.Principal, error) {
	if raw != "good" {
		return domain.Principal{}, errors.New("bad token")
	}
	return s.principal, s.err
}

func newEngine(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(AuthMiddleware(stubParser{principal: domain.Principal{ID: "u1", AuthMethod: domain.AuthMethodJWT}}, required, zerolog.Nop()))
	engine.GET("/whoami", func(c *gin.Context) {
		userID, err := ResolveUserID(c, c.Query("userId"))
		if err != nil {
			c.JSON(platformerrors.ErrorTypeToHTTPStatus(platformerrors.ErrorTypeForbidden), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return engine
}

func serve(engine *gin.Engine, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		required bool
		target   string
		token    string
		status   int
		body     string
	}{
		{name: "anonymous with explicit user", target: "/whoami?userId=u9", status: http.StatusOK, body: `{"userId":"u9"}`},
		{name: "token fills in user", target: "/whoami", token: "good", status: http.StatusOK, body: `{"userId":"u1"}`},
		{name: "token and matching user", target: "/whoami?userId=u1", token: "good", status: http.StatusOK, body: `{"userId":"u1"}`},
		{name: "token and other user", target: "/whoami?userId=u2", token: "good", status: http.StatusForbidden},
		{name: "invalid token", target: "/whoami", token: "forged", status: http.StatusUnauthorized},
		{name: "required without token", required: true, target: "/whoami?userId=u1", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newEngine(tc.required), tc.target, tc.token)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("expected body %s, got %s", tc.body, rec.Body.String())
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	rec := serve(newEngine(false), "/whoami?userId=u1", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami?userId=u1", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec = httptest.NewRecorder()
	newEngine(false).ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	engine.POST("/api/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin for unknown origin %q", got)
	}
}

func TestLoggingMiddlewareTagsUserAndQuietsHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	engine := gin.New()
	engine.Use(RequestID(), LoggingMiddleware(logger))
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	auth := AuthMiddleware(stubParser{principal: domain.Principal{ID: "u1", AuthMethod: domain.AuthMethodJWT}}, false, zerolog.Nop())
	engine.GET("/api/conversations/:id", auth, func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(engine, "/healthz", "")
	if buf.Len() != 0 {
		t.Fatalf("expected health check to stay below info level, got %q", buf.String())
	}

	serve(engine, "/api/conversations/abc", "good")
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "warn" || entry["user_id"] != "u1" || entry["route"] != "/api/conversations/:id" {
		t.Fatalf("unexpected access log %v", entry)
	}
	if entry["request_id"] == "" || entry["request_id"] == nil {
		t.Fatalf("expected request id in access log %v", entry)
	}
}
