package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/services"
	apperrors "github.com/Junior-189/CITT-Project-sub001/pkg/errors"
	"github.com/Junior-189/CITT-Project-sub001/pkg/response"
)

// FundingHandler exposes funding application endpoints. Monetary amounts are
// accepted as strings and parsed into fixed-point decimals.
type FundingHandler struct {
	funding *services.FundingService
}

// NewFundingHandler constructs a FundingHandler.
func NewFundingHandler(db *gorm.DB) (*FundingHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	funding, err := services.NewFundingService(db, notifications)
	if err != nil {
		return nil, err
	}
	return &FundingHandler{funding: funding}, nil
}

type applyPayload struct {
	ProjectID       string `json:"project_id" validate:"required"`
	Purpose         string `json:"purpose" validate:"required"`
	RequestedAmount string `json:"requested_amount" validate:"required"`
}

// Apply files a new funding application.
func (h *FundingHandler) Apply(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload applyPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	amount, err := decimal.NewFromString(payload.RequestedAmount)
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("requested_amount must be a decimal number"))
		return
	}

	application, err := h.funding.Apply(requestContext(c), principal, services.ApplyInput{
		ProjectID:       payload.ProjectID,
		Purpose:         payload.Purpose,
		RequestedAmount: amount,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusCreated, application)
}

// List returns funding applications scoped by role.
func (h *FundingHandler) List(c *gin.Context) {
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

	applications, total, err := h.funding.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, applications, listMeta(opts.Page, opts.PageSize, total))
}

// Get returns one application.
func (h *FundingHandler) Get(c *gin.Context) {
	application, err := h.funding.Get(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, svcError(err))
		return
	}
	response.Success(c, http.StatusOK, application)
}

type decideFundingPayload struct {
	Approve        bool   `json:"approve"`
	ApprovedAmount string `json:"approved_amount"`
	Comment        string `json:"comment"`
}

// Decide approves or rejects an application.
func (h *FundingHandler) Decide(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var payload decideFundingPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	approved := decimal.Zero
	if payload.ApprovedAmount != "" {
		var err error
		approved, err = decimal.NewFromString(payload.ApprovedAmount)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("approved_amount must be a decimal number"))
			return
		}
	}

	application, err := h.funding.Decide(requestContext(c), c.Param("id"), principal, services.DecideInput{
		Approve:        payload.Approve,
		ApprovedAmount: approved,
		Comment:        payload.Comment,
	})
	if err != nil {
		response.Error(c, svcError(err))
		return
	}

	response.Success(c, http.StatusOK, application)
}
