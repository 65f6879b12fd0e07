package middleware

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// RequireRole allows the request through only when the principal's role is in
// the allowed set. The rejection names both the required roles and the
// caller's actual role so the failure is self-explanatory.
func RequireRole(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if principal.Role == "" {
			response.Error(c, apperrors.ErrNoRole)
			c.Abort()
			return
		}

		for _, role := range allowed {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperrors.ErrForbidden.WithDetails(map[string]any{
			"userRole":      string(principal.Role),
			"requiredRoles": roles.Strings(allowed),
		}))
		c.Abort()
	}
}

// RequireOwnership verifies that the record addressed by the :id route param
// is owned by the caller. Admin and superAdmin bypass the check without a
// query. The gate costs at most one extra database round-trip.
//
// A missing record yields 404 and a foreign record 403; the two are never
// conflated, so non-owners learn nothing about which ids exist.
func RequireOwnership(db *gorm.DB, table, ownerColumn string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if principal.Role.Elevated() {
			c.Next()
			return
		}

		id := c.Param("id")
		if id == "" {
			response.Error(c, apperrors.NewBadRequest("missing record id"))
			c.Abort()
			return
		}

		row := db.WithContext(c.Request.Context()).
			Table(table).
			Select(ownerColumn).
			Where("id = ?", id).
			Row()

		var owner sql.NullString
		if err := row.Scan(&owner); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				response.Error(c, apperrors.ErrNotFound)
			} else {
				response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			}
			c.Abort()
			return
		}

		if !owner.Valid || owner.String != principal.ID {
			response.Error(c, apperrors.ErrNotOwner)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoleChangeAuthority guards the highest-risk action: changing another
// user's role. Rules, in order: only superAdmin may proceed; the caller may
// never target their own account; the target must exist and not be
// soft-deleted. All three are verified before any mutation runs.
func RequireRoleChangeAuthority(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if principal.Role != roles.SuperAdmin {
			response.Error(c, apperrors.ErrForbidden.WithDetails(map[string]any{
				"userRole":      string(principal.Role),
				"requiredRoles": []string{string(roles.SuperAdmin)},
			}))
			c.Abort()
			return
		}

		targetID := c.Param("id")
		if targetID == principal.ID {
			response.Error(c, apperrors.ErrSelfRoleChange)
			c.Abort()
			return
		}

		var target models.User
		if err := db.WithContext(c.Request.Context()).First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, apperrors.ErrUserNotFound)
			} else {
				response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
