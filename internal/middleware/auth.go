package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// CtxPrincipalKey is the gin context key carrying the authenticated principal.
const CtxPrincipalKey = "authPrincipal"

// Auth enforces JWT authentication. The bearer token only identifies the
// subject; the current role, email and name are re-read from the user row on
// every request so role changes take effect immediately.
func Auth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, authErr := authenticate(c, jwt, db)
		if authErr != nil {
			response.Error(c, authErr)
			c.Abort()
			return
		}

		c.Set(CtxPrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuth performs the same verification as Auth but lets the request
// proceed without a principal on any failure. Routes serving both anonymous
// and authenticated traffic use this.
func OptionalAuth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, authErr := authenticate(c, jwt, db); authErr == nil {
			c.Set(CtxPrincipalKey, principal)
		}
		c.Next()
	}
}

// CurrentPrincipal extracts the authenticated principal attached by Auth.
func CurrentPrincipal(c *gin.Context) (*iauth.Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*iauth.Principal)
	return principal, ok && principal != nil
}

// authenticate performs exactly one read query beyond token validation.
func authenticate(c *gin.Context, jwt *iauth.JWTService, db *gorm.DB) (*iauth.Principal, *apperrors.AppError) {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return nil, apperrors.ErrNoToken
	}

	claims, err := jwt.ValidateAccessToken(strings.TrimSpace(authz[7:]))
	if err != nil {
		if errors.Is(err, iauth.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	// Soft-deleted users fall out of this lookup, so a token issued before
	// deletion stops working on the next request.
	var user models.User
	if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}

	return &iauth.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
