package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// PermissionHandler manages the (role, resource, action) whitelist.
type PermissionHandler struct {
	store *permissions.Store
}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler(db *gorm.DB) (*PermissionHandler, error) {
	store, err := permissions.NewStore(db)
	if err != nil {
		return nil, err
	}
	return &PermissionHandler{store: store}, nil
}

// List returns the whole whitelist, or one role's grants with ?role=.
func (h *PermissionHandler) List(c *gin.Context) {
	if raw := c.Query("role"); raw != "" {
		role, err := roles.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest(err.Error()))
			return
		}
		perms, err := h.store.ListForRole(requestContext(c), role)
		if err != nil {
			response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
			return
		}
		response.Success(c, http.StatusOK, perms)
		return
	}

	perms, err := h.store.List(requestContext(c))
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	response.Success(c, http.StatusOK, perms)
}

type grantPayload struct {
	Role        string `json:"role" validate:"required"`
	Resource    string `json:"resource" validate:"required"`
	Action      string `json:"action" validate:"required"`
	Description string `json:"description"`
}

// Grant adds a triple to the whitelist. Duplicates return 409.
func (h *PermissionHandler) Grant(c *gin.Context) {
	var payload grantPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	role, err := roles.Parse(payload.Role)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return
	}

	perm, err := h.store.Grant(requestContext(c), role, payload.Resource, payload.Action, payload.Description)
	if err != nil {
		if errors.Is(err, permissions.ErrDuplicateGrant) {
			response.Error(c, apperrors.ErrConflict)
			return
		}
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusCreated, perm)
}

type revokePayload struct {
	Role     string `json:"role" validate:"required"`
	Resource string `json:"resource" validate:"required"`
	Action   string `json:"action" validate:"required"`
}

// Revoke removes a triple; the next Check sees the removal.
func (h *PermissionHandler) Revoke(c *gin.Context) {
	var payload revokePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	role, err := roles.Parse(payload.Role)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return
	}

	removed, err := h.store.Revoke(requestContext(c), role, payload.Resource, payload.Action)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}
	if !removed {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
