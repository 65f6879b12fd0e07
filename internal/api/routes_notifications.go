package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, db *gorm.DB) {
	group := api.Group("/notifications")
	{
		// List and read-all operate on the caller's own rows only.
		group.GET("", handler.List)
		group.POST("/read-all", handler.MarkAllRead)
		group.POST("/:id/read", middleware.RequireOwnership(db, "notifications", "user_id"), handler.MarkRead)
	}
}
