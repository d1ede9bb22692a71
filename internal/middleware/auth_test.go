package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vetcare/internal/auth/session"
	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/middleware"
	"vetcare/internal/service"
	"vetcare/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCookie() *session.TokenCookie {
	return session.NewTokenCookie(config.CookieConfig{Secret: strings.Repeat("c", 32)}, time.Hour)
}

func principalRouter(validator middleware.TokenValidator, cookie *session.TokenCookie) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(validator, cookie))
	r.GET("/test", func(c *gin.Context) {
		p, _ := middleware.GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": p.TenantID,
			"branch_id": p.BranchID,
			"user_id":   p.UserID,
			"role":      p.Role,
		})
	})
	return r
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{
		TenantID: "t1",
		BranchID: "b1",
		UserID:   "u1",
		Role:     domain.RoleVet,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	principalRouter(mockAuth, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "t1", resp["tenant_id"])
	assert.Equal(t, "b1", resp["branch_id"])
	assert.Equal(t, "u1", resp["user_id"])
	assert.Equal(t, "VET", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	cookie := testCookie()
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "cookie-token").Return(&service.Claims{
		TenantID: "t1",
		UserID:   "u1",
		Role:     domain.RoleAdmin,
	}, nil)

	// Issue the cookie the way the login handler does.
	issue := httptest.NewRecorder()
	require.NoError(t, cookie.Set(issue, httptest.NewRequest(http.MethodPost, "/login", http.NoBody), "cookie-token"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	for _, ck := range issue.Result().Cookies() {
		req.AddCookie(ck)
	}
	principalRouter(mockAuth, cookie).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	principalRouter(mockAuth, testCookie()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertNotCalled(t, "ValidateToken", mock.Anything)
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Basic abc123")
	principalRouter(mockAuth, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad-token")
	principalRouter(mockAuth, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func withPrincipal(p domain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyPrincipal, p)
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   domain.UserRole
		expect int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"parent admin allowed", domain.RoleParentAdmin, http.StatusOK},
		{"vet rejected", domain.RoleVet, http.StatusForbidden},
		{"pet owner rejected", domain.RolePetOwner, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withPrincipal(domain.Principal{TenantID: "t1", Role: tt.role}))
			r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleParentAdmin))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expect, w.Code)
		})
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequireRole(domain.RoleAdmin))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStaff(t *testing.T) {
	for role, expect := range map[domain.UserRole]int{
		domain.RoleReception: http.StatusOK,
		domain.RolePetOwner:  http.StatusForbidden,
	} {
		r := gin.New()
		r.Use(withPrincipal(domain.Principal{TenantID: "t1", Role: role}))
		r.Use(middleware.RequireStaff())
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, expect, w.Code, string(role))
	}
}

func TestTenantGuard(t *testing.T) {
	r := gin.New()
	r.Use(withPrincipal(domain.Principal{UserID: "u1", Role: domain.RoleVet}))
	r.Use(middleware.TenantGuard())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
