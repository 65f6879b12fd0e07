package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func registerEventRoutes(api *gin.RouterGroup, handler *handlers.EventHandler, store *permissions.Store, audit *services.AuditService) {
	// The listing itself is mounted publicly in the router with OptionalAuth.
	events := api.Group("/events")
	{
		events.GET("/:id", middleware.RequirePermission(store, audit, "events", "view"), handler.Get)
		events.GET("/:id/entries", middleware.RequirePermission(store, audit, "events", "manage"), handler.Entries)

		events.POST("", middleware.RequirePermission(store, audit, "events", "manage"), handler.Create)
		events.PATCH("/:id", middleware.RequirePermission(store, audit, "events", "manage"), handler.Update)
		events.DELETE("/:id", middleware.RequirePermission(store, audit, "events", "manage"), handler.Delete)

		events.POST("/:id/register", middleware.RequirePermission(store, audit, "events", "register"), handler.Register)
	}
}
