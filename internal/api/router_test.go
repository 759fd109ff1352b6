package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/core/service"
	"github.com/99minutos/identity-service/internal/infrastructure/crypto"
	"github.com/99minutos/identity-service/internal/infrastructure/db/memory"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.NewUserRepository()
	hasher := crypto.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := crypto.NewJWTCodec("test-secret")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	log := zerolog.Nop()

	if _, err := service.EnsureAdmin(context.Background(), repo, hasher, service.AdminSeed{
		Email:    "root@example.com",
		Password: "Adm1nPass",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e := NewRouter(Dependencies{
		Log:      log,
		Auth:     service.NewAuthService(repo, hasher, tokens, log),
		Users:    service.NewUserService(repo, hasher, log),
		Guard:    service.NewAccessGuard(tokens, repo, log),
		Health:   map[string]handler.Pinger{"store": repo},
		Registry: prometheus.NewRegistry(),
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token, body string) (int, map[string]any) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func (s *testServer) login(email, password string) (string, map[string]any) {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if code != http.StatusOK {
		s.t.Fatalf("login %s: expected 200, got %d %v", email, code, resp)
	}
	token, _ := resp["token"].(string)
	user, _ := resp["user"].(map[string]any)
	return token, user
}

func TestRouter_RegisterLoginRefresh(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Alice","email":"Alice@Example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %v", code, resp)
	}
	user := resp["user"].(map[string]any)
	if user["email"] != "alice@example.com" || user["role"] != "user" {
		t.Fatalf("unexpected user: %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password leaked: %v", user)
	}

	code, resp = s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd"}`)
	if code != http.StatusConflict || resp["error"] != "user already exists" {
		t.Fatalf("duplicate register: got %d %v", code, resp)
	}

	code, resp = s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Mallory","email":"m@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rX"}`)
	if code != http.StatusBadRequest || resp["error"] != "passwords do not match" {
		t.Fatalf("mismatch register: got %d %v", code, resp)
	}

	code, resp = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"alice@example.com","password":"wrong"}`)
	if code != http.StatusUnauthorized || resp["error"] != "wrong credentials" {
		t.Fatalf("wrong password: got %d %v", code, resp)
	}
	code, resp = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ghost@example.com","password":"wrong"}`)
	if code != http.StatusUnauthorized || resp["error"] != "wrong credentials" {
		t.Fatalf("unknown email: got %d %v", code, resp)
	}

	token, _ := s.login("ALICE@example.com", "Passw0rd")
	code, resp = s.do(http.MethodGet, "/api/v1/auth/refresh-token", token, "")
	if code != http.StatusOK || resp["token"] == "" {
		t.Fatalf("refresh: got %d %v", code, resp)
	}

	for _, tok := range []string{"", "garbage"} {
		code, resp = s.do(http.MethodGet, "/api/v1/auth/refresh-token", tok, "")
		if code != http.StatusUnauthorized || resp["error"] != "invalid token" {
			t.Fatalf("refresh with %q: got %d %v", tok, code, resp)
		}
	}
}

func TestRouter_UserManagement(t *testing.T) {
	s := newTestServer(t)

	if code, _ := s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd"}`); code != http.StatusCreated {
		t.Fatalf("register alice: %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"name":"Bob","email":"bob@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd"}`); code != http.StatusCreated {
		t.Fatalf("register bob: %d", code)
	}

	aliceToken, alice := s.login("alice@example.com", "Passw0rd")
	adminToken, _ := s.login("root@example.com", "Adm1nPass")
	aliceID := alice["id"].(string)

	// Admin-only routes reject a plain user with the caller's email.
	code, resp := s.do(http.MethodGet, "/api/v1/users", aliceToken, "")
	if code != http.StatusForbidden || resp["error"] != "alice@example.com is not authorized for this resource" {
		t.Fatalf("list as user: got %d %v", code, resp)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || rec.Code != http.StatusOK || len(list) != 3 {
		t.Fatalf("list as admin: %d %s", rec.Code, rec.Body.String())
	}

	// Ownership: alice may read herself, by id or by email, but not bob.
	if code, resp = s.do(http.MethodGet, "/api/v1/users/"+aliceID, aliceToken, ""); code != http.StatusOK || resp["email"] != "alice@example.com" {
		t.Fatalf("self by id: got %d %v", code, resp)
	}
	if code, _ = s.do(http.MethodGet, "/api/v1/users/email/Alice@Example.com", aliceToken, ""); code != http.StatusOK {
		t.Fatalf("self by email: got %d", code)
	}
	if code, resp = s.do(http.MethodGet, "/api/v1/users/email/bob@example.com", aliceToken, ""); code != http.StatusUnauthorized {
		t.Fatalf("other by email: got %d %v", code, resp)
	}

	// A user cannot promote herself; the role is silently dropped.
	code, resp = s.do(http.MethodPatch, "/api/v1/users/"+aliceID, aliceToken, `{"name":"Alicia","role":"admin"}`)
	if code != http.StatusOK || resp["name"] != "Alicia" || resp["role"] != "user" {
		t.Fatalf("self promote: got %d %v", code, resp)
	}

	// An admin can.
	code, resp = s.do(http.MethodPatch, "/api/v1/users/email/alice@example.com", adminToken, `{"role":"admin"}`)
	if code != http.StatusOK || resp["role"] != "admin" {
		t.Fatalf("admin promote: got %d %v", code, resp)
	}

	// Missing records surface as 400.
	if code, resp = s.do(http.MethodGet, "/api/v1/users/email/ghost@example.com", adminToken, ""); code != http.StatusBadRequest || resp["error"] != "user not found" {
		t.Fatalf("missing user: got %d %v", code, resp)
	}

	// Deleting an account invalidates its outstanding tokens.
	code, resp = s.do(http.MethodDelete, "/api/v1/users/"+aliceID, aliceToken, "")
	if code != http.StatusOK || resp["message"] != "User deleted" {
		t.Fatalf("self delete: got %d %v", code, resp)
	}
	if code, resp = s.do(http.MethodGet, "/api/v1/auth/refresh-token", aliceToken, ""); code != http.StatusUnauthorized {
		t.Fatalf("token after delete: got %d %v", code, resp)
	}
}

func TestRouter_CreateUserAsAdmin(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := s.login("root@example.com", "Adm1nPass")

	body := `{"name":"Carol","email":"carol@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd","role":"admin"}`
	code, resp := s.do(http.MethodPost, "/api/v1/users", adminToken, body)
	if code != http.StatusCreated || resp["role"] != "admin" {
		t.Fatalf("create: got %d %v", code, resp)
	}

	code, resp = s.do(http.MethodPost, "/api/v1/users", adminToken,
		`{"name":"Dave","email":"dave@example.com","password":"Passw0rd","passwordConfirmation":"Passw0rd","role":"root"}`)
	if code != http.StatusBadRequest || resp["error"] != "invalid role" {
		t.Fatalf("invalid role: got %d %v", code, resp)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	if code, resp := s.do(http.MethodGet, "/health", "", ""); code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("liveness: %d %v", code, resp)
	}
	if code, resp := s.do(http.MethodGet, "/health/ready", "", ""); code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("readiness: %d %v", code, resp)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
