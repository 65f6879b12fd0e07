package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/metrics"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// FailureRecorder records rejected authorization attempts outside the normal
// request/response audit path. It must tolerate a nil principal and never
// surface its own failures.
type FailureRecorder interface {
	LogFailure(ctx context.Context, actor *iauth.Principal, action, resource string, details map[string]any)
}

// RequirePermission checks the (resource, action) pair declared for the route
// against the permission whitelist. The requirement is fixed at mount time;
// the store contents are consulted fresh on every request.
func RequirePermission(store *permissions.Store, recorder FailureRecorder, resource, action string) gin.HandlerFunc {
	permissionID := resource + "." + action

	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := store.Check(c.Request.Context(), principal.Role, resource, action)
		if err != nil {
			metrics.PermissionChecks.WithLabelValues(permissionID, "error").Inc()
			response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}

		if !allowed {
			metrics.PermissionChecks.WithLabelValues(permissionID, "denied").Inc()
			if recorder != nil {
				recorder.LogFailure(c.Request.Context(), principal, c.Request.Method+" "+c.Request.URL.Path, resource, map[string]any{
					"required": map[string]any{"resource": resource, "action": action},
					"ip":       c.ClientIP(),
				})
			}
			response.Error(c, apperrors.ErrPermissionDenied.WithDetails(map[string]any{
				"userRole": string(principal.Role),
				"required": map[string]any{"resource": resource, "action": action},
			}))
			c.Abort()
			return
		}

		metrics.PermissionChecks.WithLabelValues(permissionID, "allowed").Inc()
		c.Next()
	}
}
