package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(tm *utils.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tm)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"org":  c.GetInt64(ContextOrganizationID),
			"user": c.GetInt64(ContextUserID),
			"role": ClaimsFrom(c).Role,
		})
	})
	engine.GET("/protected", handlers...)
	return engine
}

func issue(t *testing.T, tm *utils.TokenManager, role string, org int64) string {
	t.Helper()
	token, err := tm.GenerateAccessToken(utils.Claims{UserID: 9, Username: "joao", Role: role, OrganizationID: org})
	require.NoError(t, err)
	return token
}

func doGet(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	engine := newTestEngine(tm)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + issue(t, tm, "admin", 4), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(engine, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := doGet(engine, "Bearer "+issue(t, tm, "admin", 4))
	assert.JSONEq(t, `{"org":4,"user":9,"role":"admin"}`, w.Body.String())
}

func TestRoleAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	engine := newTestEngine(tm, RoleAuthMiddleware("admin"))

	assert.Equal(t, http.StatusOK, doGet(engine, "Bearer "+issue(t, tm, "admin", 1)).Code)

	w := doGet(engine, "Bearer "+issue(t, tm, "secretario", 1))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeForbidden)
}

func TestOrganizationAuthMiddleware(t *testing.T) {
	tm := utils.NewTokenManager("test-secret", time.Hour)
	engine := newTestEngine(tm, OrganizationAuthMiddleware(1))

	assert.Equal(t, http.StatusOK, doGet(engine, "Bearer "+issue(t, tm, "admin", 1)).Code)
	assert.Equal(t, http.StatusForbidden, doGet(engine, "Bearer "+issue(t, tm, "admin", 2)).Code)
}
