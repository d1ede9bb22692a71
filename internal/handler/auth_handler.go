package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcare/internal/auth/session"
	"vetcare/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService          service.AuthService
	registrationService  service.TenantRegistrationService
	passwordResetService service.PasswordResetService
	cookie               *session.TokenCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService service.AuthService,
	registrationService service.TenantRegistrationService,
	passwordResetService service.PasswordResetService,
	cookie *session.TokenCookie,
) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		registrationService:  registrationService,
		passwordResetService: passwordResetService,
		cookie:               cookie,
	}
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Authenticate with email and password. The token is returned and also set as the token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Login credentials"
// @Success 200 {object} Response{data=service.AuthResult} "Signed in"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Failure 403 {object} ErrorResponseBody "User inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.setCookie(c, result.Token)
	RespondOK(c, result)
}

// Signup handles POST /api/auth/signup
// @Summary Client portal signup
// @Description Create a pet-owner account for an existing client whose portal access is enabled.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.SignupInput true "Signup details"
// @Success 201 {object} Response{data=service.AuthResult} "Account created"
// @Failure 400 {object} ErrorResponseBody "Validation error or portal disabled"
// @Failure 404 {object} ErrorResponseBody "No client with this email"
// @Failure 409 {object} ErrorResponseBody "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var input service.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.setCookie(c, result.Token)
	RespondCreated(c, result)
}

// RegisterTenant handles POST /api/auth/register-tenant
// @Summary Register a clinic
// @Description Create a tenant on the trial plan with its main branch and an admin user, then sign the admin in.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterTenantInput true "Clinic and admin details"
// @Success 201 {object} Response{data=service.RegisterTenantOutput} "Clinic registered"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 409 {object} ErrorResponseBody "Email already registered"
// @Router /auth/register-tenant [post]
func (h *AuthHandler) RegisterTenant(c *gin.Context) {
	var input service.RegisterTenantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	output, err := h.registrationService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.setCookie(c, output.Token)
	RespondCreated(c, output)
}

// ForgotPassword handles POST /api/auth/forgot-password
// @Summary Request a password reset
// @Description Always succeeds so the response does not reveal whether the account exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.ForgotPasswordInput true "Account email"
// @Success 200 {object} Response{data=MessageResponse} "Request accepted"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input service.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.passwordResetService.ForgotPassword(c.Request.Context(), input); err != nil {
		zap.L().Warn("forgot-password internal error", zap.Error(err))
	}

	RespondOK(c, MessageResponse{Message: "if an account with that email exists, a password reset link has been sent"})
}

// ResetPassword handles POST /api/auth/reset-password-confirm
// @Summary Reset a password
// @Description Set a new password using a single-use reset token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.ResetPasswordInput true "Reset token and new password"
// @Success 200 {object} Response{data=MessageResponse} "Password reset"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid or used token"
// @Router /auth/reset-password-confirm [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input service.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.passwordResetService.ResetPassword(c.Request.Context(), input); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "password has been reset successfully"})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clear the token cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.cookie != nil {
		_ = h.cookie.Clear(c.Writer, c.Request)
	}
	RespondOK(c, MessageResponse{Message: "logged out"})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Description Return the signed-in user and their tenant.
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=service.MeOutput} "Current user"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	out, err := h.authService.Me(c.Request.Context(), p)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

func (h *AuthHandler) setCookie(c *gin.Context, token string) {
	if h.cookie == nil {
		return
	}
	if err := h.cookie.Set(c.Writer, c.Request, token); err != nil {
		zap.L().Warn("setting token cookie failed", zap.Error(err))
	}
}
