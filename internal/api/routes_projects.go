package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerProjectRoutes(api *gin.RouterGroup, handler *handlers.ProjectHandler, db *gorm.DB, store *permissions.Store, audit *services.AuditService) {
	ownProject := middleware.RequireOwnership(db, "projects", "user_id")
	reviewer := middleware.RequireRole(roles.IPManager, roles.Admin, roles.SuperAdmin)

	projects := api.Group("/projects")
	{
		projects.POST("", middleware.RequirePermission(store, audit, "projects", "create"), handler.Create)
		projects.GET("", middleware.RequirePermission(store, audit, "projects", "view"), handler.List)
		projects.GET("/:id", middleware.RequirePermission(store, audit, "projects", "view"), ownProject, handler.Get)
		projects.PATCH("/:id", middleware.RequirePermission(store, audit, "projects", "update"), ownProject, handler.Update)
		projects.POST("/:id/submit", ownProject, handler.Submit)
		projects.POST("/:id/review", reviewer, handler.Review)
		projects.POST("/:id/decide", reviewer, handler.Decide)
	}
}
