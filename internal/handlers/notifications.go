package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// NotificationHandler exposes the caller's notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(db *gorm.DB) (*NotificationHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{notifications: notifications}, nil
}

// List returns the caller's notifications, unread first.
func (h *NotificationHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 50)
	unreadOnly := c.Query("unread") == "true"

	items, total, err := h.notifications.ListForUser(requestContext(c), principal.ID, unreadOnly, page, perPage)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, listMeta(page, perPage, total))
}

// MarkRead marks one notification read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}

	if err := h.notifications.MarkRead(requestContext(c), c.Param("id")); err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllRead marks every unread notification of the caller read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(requestContext(c), principal.ID)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}
