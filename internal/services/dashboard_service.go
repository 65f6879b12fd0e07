package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// DashboardService aggregates counts for the landing page. Innovators see
// their own numbers; staff roles see office-wide totals.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(db *gorm.DB) (*DashboardService, error) {
	if db == nil {
		return nil, errors.New("dashboard service: db is required")
	}
	return &DashboardService{db: db}, nil
}

// Summary is the per-role dashboard payload.
type Summary struct {
	Projects       map[string]int64 `json:"projects"`
	Funding        map[string]int64 `json:"funding"`
	IPRecords      map[string]int64 `json:"ip_records"`
	UpcomingEvents int64            `json:"upcoming_events"`
	Unread         int64            `json:"unread_notifications"`
	Users          map[string]int64 `json:"users,omitempty"`
}

// Summarize builds the caller's dashboard. Non-elevated, non-ipManager
// callers are scoped to rows they own.
func (s *DashboardService) Summarize(ctx context.Context, viewer *iauth.Principal) (*Summary, error) {
	ctx = ensureContext(ctx)

	if viewer == nil {
		return nil, ErrInvalidInput
	}

	scoped := viewer.Role == roles.Innovator

	summary := &Summary{}
	var err error

	ownerID := ""
	if scoped {
		ownerID = viewer.ID
	}

	if summary.Projects, err = s.countByStatus(ctx, &models.Project{}, ownerID); err != nil {
		return nil, err
	}
	if summary.Funding, err = s.countByStatus(ctx, &models.FundingApplication{}, ownerID); err != nil {
		return nil, err
	}
	if summary.IPRecords, err = s.countByStatus(ctx, &models.IPRecord{}, ownerID); err != nil {
		return nil, err
	}

	if err = s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("starts_at >= ?", time.Now()).
		Count(&summary.UpcomingEvents).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: events: %w", err)
	}

	if err = s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", viewer.ID, false).
		Count(&summary.Unread).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: notifications: %w", err)
	}

	if viewer.Role.Elevated() {
		if summary.Users, err = s.countUsersByRole(ctx); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

type statusCount struct {
	Status string
	Total  int64
}

func (s *DashboardService) countByStatus(ctx context.Context, model any, ownerID string) (map[string]int64, error) {
	query := s.db.WithContext(ctx).
		Model(model).
		Select("status, COUNT(*) AS total").
		Group("status")
	if ownerID != "" {
		query = query.Where("user_id = ?", ownerID)
	}

	var rows []statusCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count %T: %w", model, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (s *DashboardService) countUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Total int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: count users: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}
