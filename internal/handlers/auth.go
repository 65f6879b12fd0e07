package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/metrics"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// AuthHandler exposes login, token refresh and the current-user endpoint.
type AuthHandler struct {
	users *services.UserService
	audit *services.AuditService
	jwt   *iauth.JWTService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwt *iauth.JWTService) (*AuthHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, audit: audit, jwt: jwt}, nil
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues an access token. Failed attempts are
// recorded in the audit trail with the attempted email; the response never
// says whether the account exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload loginPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), payload.Email, payload.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		h.audit.LogFailure(requestContext(c), nil, "auth.login", "auth", map[string]any{
			"email": payload.Email,
			"ip":    c.ClientIP(),
		})
		response.Error(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	_ = h.users.RecordLogin(requestContext(c), user.ID, c.ClientIP())
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	principal := &iauth.Principal{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
	h.audit.LogAction(requestContext(c), principal, services.ActionEvent{
		Action:    "auth.login",
		Resource:  "auth",
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	middleware.MarkAudited(c)

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated account, fresh from the database.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.users.Get(requestContext(c), principal.ID)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, user)
}

// Refresh re-issues an access token for a still-valid session. The new token
// reflects nothing but the user id; role continues to be read per request.
func (h *AuthHandler) Refresh(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	token, err := h.jwt.GenerateAccessToken(principal.ID)
	if err != nil {
		response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
		return
	}

	middleware.MarkAudited(c)
	response.Success(c, http.StatusOK, gin.H{"token": token})
}
