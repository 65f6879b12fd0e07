package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// IPRecordHandler exposes intellectual-property disclosure endpoints.
type IPRecordHandler struct {
	records *services.IPRecordService
}

// NewIPRecordHandler constructs an IPRecordHandler.
func NewIPRecordHandler(db *gorm.DB) (*IPRecordHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	records, err := services.NewIPRecordService(db, notifications)
	if err != nil {
		return nil, err
	}
	return &IPRecordHandler{records: records}, nil
}

type createIPRecordPayload struct {
	Title       string `json:"title" validate:"required,min=3"`
	Type        string `json:"type" validate:"required,oneof=patent copyright trademark"`
	Description string `json:"description"`
	ProjectID   string `json:"project_id"`
}

// Create files a new disclosure owned by the caller.
func (h *IPRecordHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload createIPRecordPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	record, err := h.records.Create(requestContext(c), principal, services.CreateIPRecordInput{
		Title:       payload.Title,
		Type:        payload.Type,
		Description: payload.Description,
		ProjectID:   payload.ProjectID,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// List returns disclosures scoped by role.
func (h *IPRecordHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	opts := services.ListOptions{
		Status:   c.Query("status"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "per_page", 50),
	}
	if !isStaff(principal) {
		opts.OwnerID = principal.ID
	}

	records, total, err := h.records.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, records, listMeta(opts.Page, opts.PageSize, total))
}

// Get returns one disclosure.
func (h *IPRecordHandler) Get(c *gin.Context) {
	record, err := h.records.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, record)
}

type progressIPRecordPayload struct {
	Status    string `json:"status" validate:"required,oneof=filed granted rejected"`
	RefNumber string `json:"ref_number"`
}

// Progress advances a disclosure through the filing lifecycle.
func (h *IPRecordHandler) Progress(c *gin.Context) {
	var payload progressIPRecordPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	record, err := h.records.Progress(requestContext(c), c.Param("id"), payload.Status, payload.RefNumber)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, record)
}
