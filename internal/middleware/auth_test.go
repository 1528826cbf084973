package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/requestdata"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

// stubAuthService recognizes a single token.
type stubAuthService struct {
	validToken string
	userID     uuid.UUID
}

func (s *stubAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString != s.validToken {
		return ctx, fmt.Errorf("invalid token")
	}
	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      s.userID,
	}), nil
}

func (s *stubAuthService) RegisterUser(ctx context.Context, user *types.User) error { return nil }
func (s *stubAuthService) LoginUser(ctx context.Context, email, password string) (string, string, *types.User, error) {
	return "", "", nil, nil
}
func (s *stubAuthService) RefreshUser(ctx context.Context) (string, string, error) {
	return "", "", nil
}
func (s *stubAuthService) LogoutUser(ctx context.Context) error { return nil }
func (s *stubAuthService) GetAccessTTL() time.Duration          { return time.Hour }

func newTestRouter(t *testing.T, stub *stubAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	am := NewAuthMiddleware(log, stub)
	router := gin.New()
	router.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": rd.UserID})
	})
	return router
}

func TestRequireAuthMissingToken(t *testing.T) {
	router := newTestRouter(t, &stubAuthService{validToken: "good", userID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router := newTestRouter(t, &stubAuthService{validToken: "good", userID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthBearerHeader(t *testing.T) {
	router := newTestRouter(t, &stubAuthService{validToken: "good", userID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	router := newTestRouter(t, &stubAuthService{validToken: "good", userID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=good", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
