package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// withPrincipal injects a principal directly, standing in for Auth.
func withPrincipal(p *iauth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(CtxPrincipalKey, p)
		}
		c.Next()
	}
}

func TestRequireRoleMatrix(t *testing.T) {
	cases := []struct {
		name     string
		role     roles.Role
		allowed  []roles.Role
		wantCode int
	}{
		{"exact match passes", roles.Admin, []roles.Role{roles.Admin}, http.StatusOK},
		{"any of several passes", roles.IPManager, []roles.Role{roles.IPManager, roles.Admin, roles.SuperAdmin}, http.StatusOK},
		{"higher rank does not imply membership", roles.SuperAdmin, []roles.Role{roles.Admin}, http.StatusForbidden},
		{"lower rank rejected", roles.Innovator, []roles.Role{roles.Admin}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/guarded",
				withPrincipal(&iauth.Principal{ID: "u-1", Role: tc.role}),
				RequireRole(tc.allowed...),
				okHandler)

			rec := perform(router, http.MethodGet, "/guarded", "")
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	router := gin.New()
	router.GET("/guarded", RequireRole(roles.Admin), okHandler)

	rec := perform(router, http.MethodGet, "/guarded", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Error.Code)
}

func TestRequireRoleEmptyRole(t *testing.T) {
	router := gin.New()
	router.GET("/guarded",
		withPrincipal(&iauth.Principal{ID: "u-1"}),
		RequireRole(roles.Admin),
		okHandler)

	rec := perform(router, http.MethodGet, "/guarded", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NO_ROLE", decodeError(t, rec).Error.Code)
}

func TestRequireRoleRejectionNamesBothSides(t *testing.T) {
	router := gin.New()
	router.GET("/guarded",
		withPrincipal(&iauth.Principal{ID: "u-1", Role: roles.Innovator}),
		RequireRole(roles.Admin, roles.SuperAdmin),
		okHandler)

	rec := perform(router, http.MethodGet, "/guarded", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "innovator", body.Error.Details["userRole"])
	assert.ElementsMatch(t, []any{"admin", "superAdmin"}, body.Error.Details["requiredRoles"])
}

func TestRequireOwnership(t *testing.T) {
	db := middlewareTestDB(t)
	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	stranger := seedUser(t, db, "bob@citt.edu", roles.Innovator)
	admin := seedUser(t, db, "boss@citt.edu", roles.Admin)

	project := &models.Project{Title: "Solar tracker", Status: models.ProjectStatusDraft, UserID: owner.ID}
	require.NoError(t, db.Create(project).Error)

	newRouter := func(p *iauth.Principal) *gin.Engine {
		router := gin.New()
		router.GET("/projects/:id",
			withPrincipal(p),
			RequireOwnership(db, "projects", "user_id"),
			okHandler)
		return router
	}

	asOwner := func(u *models.User) *iauth.Principal {
		return &iauth.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
	}

	t.Run("owner passes", func(t *testing.T) {
		rec := perform(newRouter(asOwner(owner)), http.MethodGet, "/projects/"+project.ID, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		rec := perform(newRouter(asOwner(stranger)), http.MethodGet, "/projects/"+project.ID, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "NOT_OWNER", decodeError(t, rec).Error.Code)
	})

	t.Run("missing record gets 404, not 403", func(t *testing.T) {
		rec := perform(newRouter(asOwner(stranger)), http.MethodGet, "/projects/no-such-id", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		rec := perform(newRouter(asOwner(admin)), http.MethodGet, "/projects/"+project.ID, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin bypass skips the existence check too", func(t *testing.T) {
		rec := perform(newRouter(asOwner(admin)), http.MethodGet, "/projects/no-such-id", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ipManager does not bypass", func(t *testing.T) {
		manager := seedUser(t, db, "manager@citt.edu", roles.IPManager)
		rec := perform(newRouter(asOwner(manager)), http.MethodGet, "/projects/"+project.ID, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no principal gets 401", func(t *testing.T) {
		rec := perform(newRouter(nil), http.MethodGet, "/projects/"+project.ID, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoleChangeAuthority(t *testing.T) {
	db := middlewareTestDB(t)
	super := seedUser(t, db, "root@citt.edu", roles.SuperAdmin)
	admin := seedUser(t, db, "boss@citt.edu", roles.Admin)
	target := seedUser(t, db, "worker@citt.edu", roles.Innovator)

	newRouter := func(p *iauth.Principal) *gin.Engine {
		router := gin.New()
		router.PUT("/users/:id/role",
			withPrincipal(p),
			RequireRoleChangeAuthority(db),
			okHandler)
		return router
	}

	superPrincipal := &iauth.Principal{ID: super.ID, Role: super.Role}

	t.Run("superAdmin may change another user's role", func(t *testing.T) {
		rec := perform(newRouter(superPrincipal), http.MethodPut, "/users/"+target.ID+"/role", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin is rejected", func(t *testing.T) {
		rec := perform(newRouter(&iauth.Principal{ID: admin.ID, Role: admin.Role}),
			http.MethodPut, "/users/"+target.ID+"/role", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Error.Code)
	})

	t.Run("self role change is rejected even for superAdmin", func(t *testing.T) {
		rec := perform(newRouter(superPrincipal), http.MethodPut, "/users/"+super.ID+"/role", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "SELF_ROLE_CHANGE", decodeError(t, rec).Error.Code)
	})

	t.Run("missing target yields 404", func(t *testing.T) {
		rec := perform(newRouter(superPrincipal), http.MethodPut, "/users/no-such-id/role", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "USER_NOT_FOUND", decodeError(t, rec).Error.Code)
	})
}
