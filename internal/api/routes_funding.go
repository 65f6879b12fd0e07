package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerFundingRoutes(api *gin.RouterGroup, handler *handlers.FundingHandler, db *gorm.DB, store *permissions.Store, audit *services.AuditService) {
	ownApplication := middleware.RequireOwnership(db, "funding_applications", "user_id")

	funding := api.Group("/funding")
	{
		funding.POST("", middleware.RequirePermission(store, audit, "funding", "create"), handler.Apply)
		funding.GET("", middleware.RequirePermission(store, audit, "funding", "view"), handler.List)
		funding.GET("/:id", middleware.RequirePermission(store, audit, "funding", "view"), ownApplication, handler.Get)
		funding.POST("/:id/decide", middleware.RequirePermission(store, audit, "funding", "approve"), handler.Decide)
	}
}
