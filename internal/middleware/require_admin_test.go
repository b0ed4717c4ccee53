package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performGuardedRequest(t *testing.T, setup func(*gin.Context), guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET("/guarded", func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		guard(c)
	}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	return w
}

func TestRequireAdmin(t *testing.T) {
	resp := performGuardedRequest(t, nil, RequireAdmin)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performGuardedRequest(t, func(c *gin.Context) { c.Set("role", "customer") }, RequireAdmin)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performGuardedRequest(t, func(c *gin.Context) { c.Set("role", "admin") }, RequireAdmin)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestStoreAdminRequired(t *testing.T) {
	guard := StoreAdminRequired()

	resp := performGuardedRequest(t, nil, guard)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performGuardedRequest(t, func(c *gin.Context) { c.Set("isStoreAdmin", false) }, guard)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = performGuardedRequest(t, func(c *gin.Context) { c.Set("isStoreAdmin", true) }, guard)
	assert.Equal(t, http.StatusOK, resp.Code)
}
