package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/impulsa-uc/impulsa-api/internal/models"
)

func performWithRole(role models.ProfileRole, authenticated bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{ProfileID: "profile-1", Role: role})
		})
	}
	r.GET("/admin/stats", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	rec := performWithRole(models.RoleAdmin, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesForbidsStudent(t *testing.T) {
	rec := performWithRole(models.RoleStudent, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsAnonymous(t *testing.T) {
	rec := performWithRole("", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
