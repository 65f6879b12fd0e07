package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
)

// validIPTransitions defines the filing lifecycle. Disclosures move forward
// only; a granted or rejected filing is terminal.
var validIPTransitions = map[string][]string{
	models.IPStatusDisclosed: {models.IPStatusFiled, models.IPStatusRejected},
	models.IPStatusFiled:     {models.IPStatusGranted, models.IPStatusRejected},
}

// IPRecordService manages invention disclosures through the filing lifecycle.
type IPRecordService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewIPRecordService constructs an IPRecordService.
func NewIPRecordService(db *gorm.DB, notifications *NotificationService) (*IPRecordService, error) {
	if db == nil {
		return nil, errors.New("ip record service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("ip record service: notification service is required")
	}
	return &IPRecordService{db: db, notifications: notifications}, nil
}

// CreateIPRecordInput is the disclosure payload.
type CreateIPRecordInput struct {
	Title       string
	Type        string
	Description string
	ProjectID   string
}

// Create files a new disclosure owned by the caller and alerts reviewers.
func (s *IPRecordService) Create(ctx context.Context, owner *iauth.Principal, input CreateIPRecordInput) (*models.IPRecord, error) {
	ctx = ensureContext(ctx)

	if owner == nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	switch input.Type {
	case models.IPTypePatent, models.IPTypeCopyright, models.IPTypeTrademark:
	default:
		return nil, fmt.Errorf("%w: unknown IP type %q", ErrInvalidInput, input.Type)
	}

	record := models.IPRecord{
		Title:       strings.TrimSpace(input.Title),
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Status:      models.IPStatusDisclosed,
		UserID:      owner.ID,
	}
	if pid := strings.TrimSpace(input.ProjectID); pid != "" {
		record.ProjectID = &pid
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("ip record service: create: %w", err)
	}

	_ = s.notifications.NotifyRoles(ctx, reviewerRoles, models.NotificationSubmission,
		"New IP disclosure",
		fmt.Sprintf("%s disclosed %q (%s)", owner.Name, record.Title, record.Type),
		"ip", record.ID)

	return &record, nil
}

// Get fetches one record with its owner preloaded.
func (s *IPRecordService) Get(ctx context.Context, id string) (*models.IPRecord, error) {
	ctx = ensureContext(ctx)

	var record models.IPRecord
	if err := s.db.WithContext(ctx).Preload("User").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ip record service: get: %w", err)
	}
	return &record, nil
}

// List returns records matching the options, newest first.
func (s *IPRecordService) List(ctx context.Context, opts ListOptions) ([]models.IPRecord, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.IPRecord{})
	if opts.OwnerID != "" {
		query = query.Where("user_id = ?", opts.OwnerID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("ip record service: count: %w", err)
	}

	var records []models.IPRecord
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("ip record service: list: %w", err)
	}

	return records, total, nil
}

// Progress moves a record to the next filing state, stamping the reference
// number once it is filed. The owner is notified of every transition.
func (s *IPRecordService) Progress(ctx context.Context, id string, newStatus, refNumber string) (*models.IPRecord, error) {
	ctx = ensureContext(ctx)

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validIPTransitions[record.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, record.Status, newStatus)
	}

	updates := map[string]any{"status": newStatus}
	if ref := strings.TrimSpace(refNumber); ref != "" {
		updates["ref_number"] = ref
	}
	if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("ip record service: progress: %w", err)
	}

	_ = s.notifications.NotifyUser(ctx, record.UserID, models.NotificationDecision,
		fmt.Sprintf("IP record %s", newStatus), record.Title, "ip", record.ID)

	return s.Get(ctx, id)
}
