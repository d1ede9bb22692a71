// Package session carries the access token in the signed "token" cookie.
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"vetcare/internal/config"
)

// CookieName is the name of the auth cookie.
const CookieName = "token"

const tokenKey = "jwt"

// TokenCookie reads and writes the signed auth cookie.
type TokenCookie struct {
	store *sessions.CookieStore
}

// NewTokenCookie creates a cookie store keyed by the cookie secret. The
// cookie lives as long as the access token.
func NewTokenCookie(cfg config.CookieConfig, ttl time.Duration) *TokenCookie {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &TokenCookie{store: store}
}

// Set writes token into the cookie.
func (t *TokenCookie) Set(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := t.store.New(r, CookieName)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Get returns the token carried by the request cookie, if any.
func (t *TokenCookie) Get(r *http.Request) (string, bool) {
	sess, err := t.store.Get(r, CookieName)
	if err != nil || sess.IsNew {
		return "", false
	}
	token, ok := sess.Values[tokenKey].(string)
	return token, ok && token != ""
}

// Clear expires the cookie.
func (t *TokenCookie) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := t.store.New(r, CookieName)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
