package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/middleware"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// AuditHandler exposes the audit trail to elevated roles.
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(db *gorm.DB) (*AuditHandler, error) {
	audit, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	return &AuditHandler{audit: audit}, nil
}

func auditFiltersFromQuery(c *gin.Context) (services.AuditFilters, *apperrors.AppError) {
	filters := services.AuditFilters{
		UserID:   c.Query("user_id"),
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Status:   c.Query("status"),
	}

	if raw := c.Query("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, apperrors.NewBadRequest("since must be RFC3339")
		}
		filters.Since = &ts
	}
	if raw := c.Query("until"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, apperrors.NewBadRequest("until must be RFC3339")
		}
		filters.Until = &ts
	}

	return filters, nil
}

// List returns paginated audit logs, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	filters, appErr := auditFiltersFromQuery(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)

	logs, total, err := h.audit.List(requestContext(c), services.AuditListOptions{
		Page:     page,
		PageSize: perPage,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, logs, listMeta(page, perPage, total))
}

// Export returns all matching audit logs without pagination.
func (h *AuditHandler) Export(c *gin.Context) {
	filters, appErr := auditFiltersFromQuery(c)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}

	logs, err := h.audit.Export(requestContext(c), filters)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, logs)
}

type cleanupPayload struct {
	RetentionDays int `json:"retention_days" validate:"required,min=1"`
}

// Cleanup deletes audit rows older than the retention window. This is the
// only delete path into the trail and is mounted superAdmin-only.
func (h *AuditHandler) Cleanup(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload cleanupPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	removed, err := h.audit.CleanupOlderThan(requestContext(c), payload.RetentionDays)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	h.audit.LogAction(requestContext(c), principal, services.ActionEvent{
		Action:   "audit.cleanup",
		Resource: "audit",
		Details: map[string]any{
			"retentionDays": payload.RetentionDays,
			"removed":       removed,
		},
		IPAddress: c.ClientIP(),
	})
	middleware.MarkAudited(c)

	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}
