package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vetcare/internal/domain"
	"vetcare/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var stockErr *domain.StockError
	switch {
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, "INSUFFICIENT_STOCK", stockErr.Error()
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", detail(err, domain.ErrValidation)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "INSUFFICIENT_ROLE", "insufficient role for this action"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", "record already exists"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrInvalidCollection):
		return http.StatusBadRequest, "INVALID_COLLECTION", "unknown or unsupported collection"
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, "INVALID_REFERENCE", "referenced record does not exist"
	case errors.Is(err, domain.ErrRecordInUse):
		return http.StatusBadRequest, "RECORD_IN_USE", "record is referenced by other records"
	case errors.Is(err, domain.ErrBranchRequired):
		return http.StatusBadRequest, "BRANCH_REQUIRED", "branchId is required"
	case errors.Is(err, domain.ErrBranchNotFound):
		return http.StatusBadRequest, "BRANCH_NOT_FOUND", "branch not found"
	case errors.Is(err, domain.ErrPortalDisabled):
		return http.StatusBadRequest, "PORTAL_DISABLED", "client portal is not enabled for this client"
	case errors.Is(err, domain.ErrInvalidPlan):
		return http.StatusBadRequest, "INVALID_PLAN", "invalid plan"
	case errors.Is(err, domain.ErrPaymentNotVerified):
		return http.StatusPaymentRequired, "PAYMENT_NOT_VERIFIED", "payment could not be verified"
	case errors.Is(err, domain.ErrPasswordResetTokenInvalid):
		return http.StatusUnauthorized, "INVALID_RESET_TOKEN", "password reset token is invalid or has already been used"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// detail strips the sentinel prefix from a wrapped validation error.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logInternal(c, err)
	}
	RespondError(c, status, code, msg)
}

// HandleErrorVerbose is HandleError but exposes the underlying message on
// internal errors.
func HandleErrorVerbose(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logInternal(c, err)
		msg = err.Error()
	}
	RespondError(c, status, code, msg)
}

func logInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	zap.L().Error("internal error",
		zap.String("request_id", c.GetString(middleware.ContextKeyRequestID)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}

// principal extracts the authenticated caller.
// Returns false if auth context is missing (error response already written).
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context")
		return domain.Principal{}, false
	}
	return p, true
}
