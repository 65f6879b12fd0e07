package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler, db *gorm.DB, store *permissions.Store, audit *services.AuditService) {
	// Every authenticated user may edit their own profile.
	api.PATCH("/profile", handler.UpdateProfile)

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(store, audit, "users", "view"), handler.List)
		users.GET("/:id", middleware.RequirePermission(store, audit, "users", "view"), handler.Get)
		users.POST("", middleware.RequirePermission(store, audit, "users", "manage"), handler.Create)
		users.PATCH("/:id", middleware.RequirePermission(store, audit, "users", "manage"), handler.Update)
		users.DELETE("/:id", middleware.RequirePermission(store, audit, "users", "manage"), handler.Delete)

		// Role changes are reserved for superAdmin and never apply to the
		// caller's own account.
		users.PUT("/:id/role", middleware.RequireRoleChangeAuthority(db), handler.ChangeRole)
	}
}
