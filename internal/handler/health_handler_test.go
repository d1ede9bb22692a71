package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"vetcare/internal/handler"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	c, w := newContext(http.MethodGet, "/healthz", nil, nil)
	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	h := handler.NewHealthHandler(map[string]handler.Pinger{"database": stubPinger{}})
	c, w := newContext(http.MethodGet, "/readyz", nil, nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, w.Body.String())

	h = handler.NewHealthHandler(map[string]handler.Pinger{
		"database": stubPinger{err: errors.New("dial tcp: refused")},
		"nats":     stubPinger{},
	})
	c, w = newContext(http.MethodGet, "/readyz", nil, nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"database":"unreachable","nats":"ok"}}`, w.Body.String())
}
