package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
)

func registerDashboardRoutes(api *gin.RouterGroup, handler *handlers.DashboardHandler) {
	// Scoping is role-aware inside the service: innovators see their own
	// counts, staff see global ones.
	api.GET("/dashboard", handler.Summary)
}
