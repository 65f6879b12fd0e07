package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerIPRecordRoutes(api *gin.RouterGroup, handler *handlers.IPRecordHandler, db *gorm.DB, store *permissions.Store, audit *services.AuditService) {
	ownRecord := middleware.RequireOwnership(db, "ip_records", "user_id")

	records := api.Group("/ip-records")
	{
		records.POST("", middleware.RequirePermission(store, audit, "ip", "create"), handler.Create)
		records.GET("", middleware.RequirePermission(store, audit, "ip", "view"), handler.List)
		records.GET("/:id", middleware.RequirePermission(store, audit, "ip", "view"), ownRecord, handler.Get)
		records.POST("/:id/progress", middleware.RequirePermission(store, audit, "ip", "update"), handler.Progress)
	}
}
