package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"vetcare/internal/domain"
	"vetcare/internal/handler"
	"vetcare/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	vet = domain.Principal{UserID: "u-vet", TenantID: "t1", BranchID: "b1", Role: domain.RoleVet, Name: "Dr. Vet"}
)

// newContext builds a test context with an optional JSON body and caller.
func newContext(method, target string, body interface{}, p *domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, _ := json.Marshal(b)
			reader = bytes.NewReader(data)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if p != nil {
		c.Set(middleware.ContextKeyPrincipal, *p)
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
