package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// DashboardHandler serves the per-role landing page aggregates.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(db *gorm.DB) (*DashboardHandler, error) {
	dashboard, err := services.NewDashboardService(db)
	if err != nil {
		return nil, err
	}
	return &DashboardHandler{dashboard: dashboard}, nil
}

// Summary returns the caller's dashboard counts.
func (h *DashboardHandler) Summary(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	summary, err := h.dashboard.Summarize(requestContext(c), principal)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, summary)
}
