package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vetcare/internal/auth/session"
	"vetcare/internal/config"
	"vetcare/internal/domain"
	"vetcare/internal/handler"
	"vetcare/internal/service"
	"vetcare/mocks"
)

type authMocks struct {
	auth     *mocks.MockAuthService
	register *mocks.MockTenantRegistrationService
	reset    *mocks.MockPasswordResetService
}

func newAuthHandler() (*handler.AuthHandler, authMocks) {
	m := authMocks{
		auth:     new(mocks.MockAuthService),
		register: new(mocks.MockTenantRegistrationService),
		reset:    new(mocks.MockPasswordResetService),
	}
	cookie := session.NewTokenCookie(config.CookieConfig{Secret: strings.Repeat("k", 32)}, time.Hour)
	return handler.NewAuthHandler(m.auth, m.register, m.reset, cookie), m
}

func tokenCookie(w interface{ Header() http.Header }) string {
	for _, v := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(v, session.CookieName+"=") {
			return v
		}
	}
	return ""
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, m := newAuthHandler()
	m.auth.On("Login", mock.Anything, service.LoginInput{
		Email:    "vet@clinic.test",
		Password: "password123",
	}).Return(&service.AuthResult{
		Token:     "access-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &domain.User{ID: "u1", Email: "vet@clinic.test"},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "vet@clinic.test",
		"password": "password123",
	}, nil)
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
	cookie := tokenCookie(w)
	assert.NotEmpty(t, cookie)
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Lax")
	m.auth.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, m := newAuthHandler()
	m.auth.On("Login", mock.Anything, mock.AnythingOfType("service.LoginInput")).
		Return(nil, domain.ErrInvalidCredentials)

	c, w := newContext(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "vet@clinic.test",
		"password": "wrong",
	}, nil)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	assert.Empty(t, tokenCookie(w))
}

func TestAuthHandler_Login_ValidationError(t *testing.T) {
	h, m := newAuthHandler()

	c, w := newContext(http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email"}, nil)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	m.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthHandler_Signup_PortalDisabled(t *testing.T) {
	h, m := newAuthHandler()
	m.auth.On("Signup", mock.Anything, mock.AnythingOfType("service.SignupInput")).
		Return(nil, domain.ErrPortalDisabled)

	c, w := newContext(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Owner",
		"email":    "owner@home.test",
		"password": "password123",
	}, nil)
	h.Signup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PORTAL_DISABLED", decode(t, w).Error.Code)
}

func TestAuthHandler_RegisterTenant_Created(t *testing.T) {
	h, m := newAuthHandler()
	m.register.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterTenantInput")).
		Return(&service.RegisterTenantOutput{
			AuthResult: &service.AuthResult{Token: "admin-token", User: &domain.User{ID: "u1"}},
			Tenant:     &domain.Tenant{ID: "t1", Name: "Happy Paws"},
			Branch:     &domain.Branch{ID: "b1", Name: "Main Branch"},
		}, nil)

	c, w := newContext(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"clinicName": "Happy Paws",
		"name":       "Admin",
		"email":      "admin@happypaws.test",
		"password":   "password123",
	}, nil)
	h.RegisterTenant(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, tokenCookie(w))
	m.register.AssertExpectations(t)
}

func TestAuthHandler_RegisterTenant_DuplicateEmail(t *testing.T) {
	h, m := newAuthHandler()
	m.register.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateEmail)

	c, w := newContext(http.MethodPost, "/api/auth/register-tenant", map[string]string{
		"clinicName": "Happy Paws",
		"name":       "Admin",
		"email":      "admin@happypaws.test",
		"password":   "password123",
	}, nil)
	h.RegisterTenant(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_ForgotPassword_AlwaysOK(t *testing.T) {
	h, m := newAuthHandler()
	m.reset.On("ForgotPassword", mock.Anything, service.ForgotPasswordInput{Email: "nobody@clinic.test"}).
		Return(assert.AnError)

	c, w := newContext(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "nobody@clinic.test"}, nil)
	h.ForgotPassword(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestAuthHandler_ResetPassword_InvalidToken(t *testing.T) {
	h, m := newAuthHandler()
	m.reset.On("ResetPassword", mock.Anything, mock.Anything).Return(domain.ErrPasswordResetTokenInvalid)

	c, w := newContext(http.MethodPost, "/api/auth/reset-password-confirm", map[string]string{
		"token":       "used",
		"newPassword": "newpassword123",
	}, nil)
	h.ResetPassword(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_RESET_TOKEN", decode(t, w).Error.Code)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h, _ := newAuthHandler()

	c, w := newContext(http.MethodPost, "/api/auth/logout", nil, nil)
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, tokenCookie(w), "Max-Age=0")
}

func TestAuthHandler_Me(t *testing.T) {
	h, m := newAuthHandler()
	m.auth.On("Me", mock.Anything, vet).Return(&service.MeOutput{
		User:   &domain.User{ID: vet.UserID},
		Tenant: &domain.Tenant{ID: vet.TenantID},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/auth/me", nil, &vet)
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	m.auth.AssertExpectations(t)
}

func TestAuthHandler_Me_NoPrincipal(t *testing.T) {
	h, _ := newAuthHandler()

	c, w := newContext(http.MethodGet, "/api/auth/me", nil, nil)
	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
