package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// mustPrincipal returns the authenticated principal or writes a 401 and
// reports false. Routes behind the auth middleware always pass.
func mustPrincipal(c *gin.Context) (*iauth.Principal, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return nil, false
	}
	return principal, true
}

// isStaff reports whether the principal sees office-wide records rather than
// only their own.
func isStaff(p *iauth.Principal) bool {
	return p.Role == roles.IPManager || p.Role.Elevated()
}

// svcError maps service sentinel errors onto the stable API error codes.
func svcError(err error) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidTransition):
		return apperrors.NewBadRequest(err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyRegistered):
		return apperrors.ErrConflict.WithInternal(err)
	case errors.Is(err, services.ErrSelfRoleChange):
		return apperrors.ErrSelfRoleChange
	case errors.Is(err, services.ErrNotSuperAdmin):
		return apperrors.ErrForbidden
	default:
		return apperrors.ErrInternalServer.WithInternal(err)
	}
}

// listMeta builds pagination metadata for list responses.
func listMeta(page, perPage int, total int64) *response.Meta {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 50
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}
