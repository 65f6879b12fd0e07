package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
)

// FundingService manages funding applications tied to projects. Amounts are
// decimals end to end; floats never touch money.
type FundingService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewFundingService constructs a FundingService.
func NewFundingService(db *gorm.DB, notifications *NotificationService) (*FundingService, error) {
	if db == nil {
		return nil, errors.New("funding service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("funding service: notification service is required")
	}
	return &FundingService{db: db, notifications: notifications}, nil
}

// ApplyInput is the funding application payload.
type ApplyInput struct {
	ProjectID       string
	Purpose         string
	RequestedAmount decimal.Decimal
}

// Apply files a funding application against one of the caller's projects.
func (s *FundingService) Apply(ctx context.Context, applicant *iauth.Principal, input ApplyInput) (*models.FundingApplication, error) {
	ctx = ensureContext(ctx)

	if applicant == nil {
		return nil, ErrInvalidInput
	}
	if input.RequestedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: requested amount must be positive", ErrInvalidInput)
	}

	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("funding service: load project: %w", err)
	}
	if project.UserID != applicant.ID {
		return nil, fmt.Errorf("%w: project belongs to another user", ErrInvalidInput)
	}

	application := models.FundingApplication{
		ProjectID:       project.ID,
		UserID:          applicant.ID,
		Purpose:         strings.TrimSpace(input.Purpose),
		RequestedAmount: input.RequestedAmount,
		Status:          models.FundingStatusSubmitted,
	}

	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return nil, fmt.Errorf("funding service: create: %w", err)
	}

	_ = s.notifications.NotifyRoles(ctx, reviewerRoles, models.NotificationSubmission,
		"New funding application",
		fmt.Sprintf("%s requested %s for %q", applicant.Name, input.RequestedAmount.StringFixed(2), project.Title),
		"funding", application.ID)

	return &application, nil
}

// Get fetches an application with project and applicant preloaded.
func (s *FundingService) Get(ctx context.Context, id string) (*models.FundingApplication, error) {
	ctx = ensureContext(ctx)

	var application models.FundingApplication
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("User").
		First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("funding service: get: %w", err)
	}
	return &application, nil
}

// List returns applications matching the options, newest first.
func (s *FundingService) List(ctx context.Context, opts ListOptions) ([]models.FundingApplication, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.FundingApplication{})
	if opts.OwnerID != "" {
		query = query.Where("user_id = ?", opts.OwnerID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("funding service: count: %w", err)
	}

	var applications []models.FundingApplication
	if err := query.
		Preload("Project").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("funding service: list: %w", err)
	}

	return applications, total, nil
}

// DecideInput carries the review outcome. ApprovedAmount defaults to the
// requested amount when approving with a zero value.
type DecideInput struct {
	Approve        bool
	ApprovedAmount decimal.Decimal
	Comment        string
}

// Decide approves or rejects a funding application and notifies the applicant.
func (s *FundingService) Decide(ctx context.Context, id string, reviewer *iauth.Principal, input DecideInput) (*models.FundingApplication, error) {
	ctx = ensureContext(ctx)

	application, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.Status != models.FundingStatusSubmitted && application.Status != models.FundingStatusUnderReview {
		return nil, fmt.Errorf("%w: application is not reviewable", ErrInvalidTransition)
	}

	status := models.FundingStatusRejected
	approved := decimal.Zero
	if input.Approve {
		status = models.FundingStatusApproved
		approved = input.ApprovedAmount
		if approved.LessThanOrEqual(decimal.Zero) {
			approved = application.RequestedAmount
		}
		if approved.GreaterThan(application.RequestedAmount) {
			return nil, fmt.Errorf("%w: approved amount exceeds requested amount", ErrInvalidInput)
		}
	}

	updates := map[string]any{
		"status":          status,
		"approved_amount": approved,
		"review_comment":  strings.TrimSpace(input.Comment),
		"reviewed_by":     reviewer.ID,
	}
	if err := s.db.WithContext(ctx).Model(application).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("funding service: decide: %w", err)
	}

	title := "Funding application rejected"
	if input.Approve {
		title = fmt.Sprintf("Funding approved: %s", approved.StringFixed(2))
	}
	_ = s.notifications.NotifyUser(ctx, application.UserID, models.NotificationDecision, title, application.Purpose, "funding", application.ID)

	return s.Get(ctx, id)
}
