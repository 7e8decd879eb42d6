package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/api/middleware"
	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.Session, *domain.Account, error)
	refreshFn  func(ctx context.Context, actor domain.ActorContext) (*domain.Session, *domain.Account, error)
	passwordFn func(ctx context.Context, actor domain.ActorContext, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, actor domain.ActorContext) (*domain.Session, *domain.Account, error) {
	return s.refreshFn(ctx, actor)
}

func (s *stubAuthService) Me(_ context.Context, actor domain.ActorContext) (*domain.Account, error) {
	return &domain.Account{ID: actor.AccountID, Role: actor.Role, Status: actor.Status}, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, actor domain.ActorContext, current, next string) error {
	return s.passwordFn(ctx, actor, current, next)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// withActor runs h the way the Session middleware would.
func withActor(actor domain.ActorContext, h echo.HandlerFunc) echo.HandlerFunc {
	validator := actorValidator{actor: actor}
	return func(c echo.Context) error {
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer test")
		return middleware.Session(validator)(h)(c)
	}
}

type actorValidator struct {
	actor domain.ActorContext
}

func (v actorValidator) Validate(context.Context, string) (domain.ActorContext, error) {
	return v.actor, nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Email != "alice@example.com" || in.Role != domain.RoleRecruiter {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "acc-1", Email: in.Email, Role: in.Role, Status: domain.StatusActive, PasswordHash: "digest"}, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"secret1","role":"recruiter"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var account map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if account["id"] != "acc-1" || account["role"] != "recruiter" {
		t.Fatalf("unexpected account payload: %+v", account)
	}
	if _, leaked := account["password_hash"]; leaked {
		t.Fatalf("password digest serialized")
	}
	if strings.Contains(rec.Body.String(), "digest") {
		t.Fatalf("password digest serialized: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_RejectsAdminRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/auth/register", `{"email":"root@example.com","password":"secret1","role":"admin"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Register(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_PropagatesConflict(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"secret1"}`)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false)

	req := jsonRequest(http.MethodPost, "/auth/register", "not-json")
	c := e.NewContext(req, httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Register(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	e := newTestEcho()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.Session, *domain.Account, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.Session{Token: "token123", ExpiresAt: expires},
				&domain.Account{ID: "acc-1", Role: domain.RoleUser, Status: domain.StatusActive}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	req := jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Account == nil || resp.Account.ID != "acc-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].Value != "token123" {
		t.Fatalf("session cookie not set: %+v", cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("cookie flags missing: %+v", cookies[0])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.Session, *domain.Account, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("cookie set on failed login")
	}
}

func TestAuthHandler_Refresh_UsesActor(t *testing.T) {
	e := newTestEcho()
	actor := domain.ActorContext{AccountID: "acc-1", Role: domain.RoleUser, Status: domain.StatusActive}
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, got domain.ActorContext) (*domain.Session, *domain.Account, error) {
			if got != actor {
				t.Fatalf("unexpected actor: %+v", got)
			}
			return &domain.Session{Token: "fresh"}, &domain.Account{ID: "acc-1"}, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := withActor(actor, handler.Refresh)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"fresh"`) {
		t.Fatalf("expected fresh token, got %s", rec.Body.String())
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	actor := domain.ActorContext{AccountID: "acc-1", Role: domain.RoleUser, Status: domain.StatusActive}
	stub := &stubAuthService{
		passwordFn: func(_ context.Context, _ domain.ActorContext, current, next string) error {
			if current != "old-secret" || next != "new-secret" {
				t.Fatalf("unexpected args: %s %s", current, next)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPut, "/auth/password", `{"current_password":"old-secret","new_password":"new-secret"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := withActor(actor, handler.ChangePassword)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_WithoutSession(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, false)
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.Me(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
