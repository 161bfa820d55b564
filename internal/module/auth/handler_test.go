package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/karirkit/karirkit/internal/domain"
	"github.com/karirkit/karirkit/internal/pkg"
)

// mockService implements Service for handler testing.
type mockService struct {
	loginResp   *TokenResponse
	loginErr    error
	registerRes *domain.User
	registerErr error
}

func (m *mockService) Login(_ context.Context, _, _ string) (*TokenResponse, error) {
	return m.loginResp, m.loginErr
}

func (m *mockService) Register(_ context.Context, _, _, _ string) (*domain.User, error) {
	return m.registerRes, m.registerErr
}

func setupAuthHandlerRouter(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	public := r.Group("/api/v1")
	NewModule(h).RegisterRoutes(public, nil)
	return r
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockService{
		loginResp: &TokenResponse{Token: "tok-123", ExpiresAt: 1700000000},
	}
	r := setupAuthHandlerRouter(NewHandler(svc))

	body := `{"email":"alice@example.com","password":"secret1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Token != "tok-123" {
		t.Errorf("expected token 'tok-123', got %q", resp.Token)
	}
	if resp.ExpiresAt != 1700000000 {
		t.Errorf("expected expires_at 1700000000, got %d", resp.ExpiresAt)
	}
}

func TestAuthHandler_Login_ValidationError(t *testing.T) {
	r := setupAuthHandlerRouter(NewHandler(&mockService{}))

	// Missing required fields
	body := `{"email":"","password":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	var resp pkg.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Errors["email"]) == 0 {
		t.Errorf("expected field error for email, got %v", resp.Errors)
	}
	if len(resp.Errors["password"]) == 0 {
		t.Errorf("expected field error for password, got %v", resp.Errors)
	}
}

func TestAuthHandler_Login_Unauthorized(t *testing.T) {
	svc := &mockService{loginErr: domain.ErrUnauthorized}
	r := setupAuthHandlerRouter(NewHandler(svc))

	body := `{"email":"alice@example.com","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	var resp pkg.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Errors[pkg.GeneralErrorKey]) == 0 {
		t.Errorf("expected general error, got %v", resp.Errors)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	user := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember}
	user.ID = "user-9"
	svc := &mockService{registerRes: user}
	r := setupAuthHandlerRouter(NewHandler(svc))

	body := `{"name":"Alice","email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.ID != "user-9" {
		t.Errorf("expected id 'user-9', got %q", resp.ID)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("expected email, got %q", resp.Email)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	svc := &mockService{registerErr: domain.NewAppError(domain.CodeAlreadyExists, "email already in use", nil)}
	r := setupAuthHandlerRouter(NewHandler(svc))

	body := `{"name":"Alice","email":"alice@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	r := setupAuthHandlerRouter(NewHandler(&mockService{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
