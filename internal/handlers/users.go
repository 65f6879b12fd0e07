package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// UserHandler exposes account management endpoints.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	return &UserHandler{users: users}, nil
}

// List returns accounts, optionally filtered by role.
func (h *UserHandler) List(c *gin.Context) {
	role := roles.Role(strings.TrimSpace(c.Query("role")))
	if role != "" && !role.Valid() {
		response.Error(c, apperrors.NewBadRequest("unknown role filter"))
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	users, total, err := h.users.List(requestContext(c), role, page, perPage)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, listMeta(page, perPage, total))
}

// Get returns one account.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, user)
}

type createUserPayload struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// Create registers a new account.
func (h *UserHandler) Create(c *gin.Context) {
	var payload createUserPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	role, err := roles.Parse(payload.Role)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return
	}

	user, err := h.users.Create(requestContext(c), services.CreateUserInput{
		Email:      payload.Email,
		Name:       payload.Name,
		Password:   payload.Password,
		Role:       role,
		Department: payload.Department,
		Phone:      payload.Phone,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, user)
}

type updateUserPayload struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Phone      *string `json:"phone"`
	IsActive   *bool   `json:"is_active"`
}

// Update patches profile fields.
func (h *UserHandler) Update(c *gin.Context) {
	var payload updateUserPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Update(requestContext(c), c.Param("id"), services.UpdateUserInput{
		Name:       payload.Name,
		Department: payload.Department,
		Phone:      payload.Phone,
		IsActive:   payload.IsActive,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateProfile lets the caller edit their own profile. Activation state is
// not self-serviceable.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload updateUserPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Update(requestContext(c), principal.ID, services.UpdateUserInput{
		Name:       payload.Name,
		Department: payload.Department,
		Phone:      payload.Phone,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, user)
}

// Delete soft-deletes an account.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type changeRolePayload struct {
	Role string `json:"role" validate:"required"`
}

// ChangeRole assigns a new role to the target account. The route guard has
// already vetted the caller; the service re-checks and writes the audit entry.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload changeRolePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	role, err := roles.Parse(payload.Role)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest(err.Error()))
		return
	}

	user, err := h.users.ChangeRole(requestContext(c), principal, c.Param("id"), role)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	// The service wrote a richer entry with old and new role.
	middleware.MarkAudited(c)
	response.Success(c, http.StatusOK, user)
}
