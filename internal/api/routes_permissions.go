package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Junior-189/CITT-Project-sub001/internal/handlers"
	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func registerPermissionRoutes(api *gin.RouterGroup, handler *handlers.PermissionHandler) {
	group := api.Group("/permissions")
	group.Use(middleware.RequireRole(roles.SuperAdmin))
	{
		group.GET("", handler.List)
		group.POST("", handler.Grant)
		group.DELETE("", handler.Revoke)
	}
}
