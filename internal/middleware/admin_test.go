package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chat_app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func performAdminRequest(identity interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/admin", func(c *gin.Context) {
		if identity != nil {
			c.Set(IdentityKey, identity)
		}
	}, RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	w := performAdminRequest(&domain.Identity{ID: uuid.New(), Username: "root", Role: domain.RoleAdmin})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	w := performAdminRequest(&domain.Identity{ID: uuid.New(), Username: "alice", Role: domain.RoleUser})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminRejectsMissingIdentity(t *testing.T) {
	w := performAdminRequest(nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
