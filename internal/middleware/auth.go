package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vetcare/internal/auth/session"
	"vetcare/internal/domain"
	"vetcare/internal/service"
)

const (
	ContextKeyPrincipal = "principal"
	ContextKeyClaims    = "claims"
	ContextKeyRequestID = "request_id"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}

// AuthMiddleware returns Gin middleware that validates the bearer token, or
// the signed token cookie when no header is sent, and injects the caller's
// principal.
func AuthMiddleware(validator TokenValidator, cookie *session.TokenCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
				return
			}
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie != nil {
			token, _ = cookie.Get(c.Request)
		}
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		c.Set(ContextKeyPrincipal, claims.Principal())
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole returns middleware that checks the caller's role against allowed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// RequireStaff rejects client-portal accounts.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || p.IsPortal() {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "staff access required")
			return
		}
		c.Next()
	}
}

// GetPrincipal extracts the authenticated caller from the Gin context.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := val.(domain.Principal)
	return p, ok
}
