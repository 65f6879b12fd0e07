package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerAuditRoutes(api *gin.RouterGroup, handler *handlers.AuditHandler, store *permissions.Store, audit *services.AuditService) {
	group := api.Group("/audit")
	{
		group.GET("", middleware.RequirePermission(store, audit, "audit", "view"), handler.List)
		group.GET("/export", middleware.RequirePermission(store, audit, "audit", "view"), handler.Export)

		// Retention cleanup deletes rows and is reserved for superAdmin.
		group.POST("/cleanup", middleware.RequireRole(roles.SuperAdmin), handler.Cleanup)
	}
}
