package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/pkg/logger"
	"github.com/Junior-189/CITT-Project-sub001/pkg/metrics"
)

// AuditEntry captures a single audit event to persist. Actor identity is
// copied by value into the row; a nil Actor records null actor fields.
type AuditEntry struct {
	Actor      *iauth.Principal
	Action     string
	Resource   string
	ResourceID string
	Details    map[string]any
	IPAddress  string
	UserAgent  string
	Status     string
}

// ActionEvent describes a successful action logged through the explicit path.
type ActionEvent struct {
	Action     string
	Resource   string
	ResourceID string
	Details    map[string]any
	IPAddress  string
	UserAgent  string
}

// AuditFilters encapsulates optional filters when querying audit logs.
type AuditFilters struct {
	UserID   string
	Action   string
	Resource string
	Status   string
	Since    *time.Time
	Until    *time.Time
}

// AuditListOptions controls pagination and filtering for audit queries.
type AuditListOptions struct {
	Page     int
	PageSize int
	Filters  AuditFilters
}

// AuditService persists and retrieves append-only audit log entries. Entries
// are never updated; the only delete path is the age-based retention cleanup.
type AuditService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAuditService constructs an AuditService using the provided database handle.
func NewAuditService(db *gorm.DB) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	return &AuditService{db: db, log: logger.WithModule("audit")}, nil
}

// Log stores an audit entry, marshalling details into JSON form.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(entry.Action) == "" {
		return errors.New("audit service: action is required")
	}
	status := strings.TrimSpace(entry.Status)
	if status != models.AuditStatusSuccess && status != models.AuditStatusFailure {
		return fmt.Errorf("audit service: invalid status %q", entry.Status)
	}

	var payload datatypes.JSON
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("audit service: marshal details: %w", err)
		}
		payload = datatypes.JSON(encoded)
	}

	row := models.AuditLog{
		Action:     strings.TrimSpace(entry.Action),
		Resource:   strings.TrimSpace(entry.Resource),
		ResourceID: strings.TrimSpace(entry.ResourceID),
		Details:    payload,
		IPAddress:  strings.TrimSpace(entry.IPAddress),
		UserAgent:  strings.TrimSpace(entry.UserAgent),
		Status:     status,
	}

	if entry.Actor != nil {
		id := entry.Actor.ID
		row.UserID = &id
		row.Email = entry.Actor.Email
		row.Role = string(entry.Actor.Role)
	}

	return s.db.WithContext(ctx).Create(&row).Error
}

// LogAction records a successful action through the explicit path. Write
// failures are swallowed: the audit trail is best-effort relative to the
// primary action, and problems surface only in operational logs.
func (s *AuditService) LogAction(ctx context.Context, actor *iauth.Principal, ev ActionEvent) {
	err := s.Log(ctx, AuditEntry{
		Actor:      actor,
		Action:     ev.Action,
		Resource:   ev.Resource,
		ResourceID: ev.ResourceID,
		Details:    ev.Details,
		IPAddress:  ev.IPAddress,
		UserAgent:  ev.UserAgent,
		Status:     models.AuditStatusSuccess,
	})
	if err != nil {
		metrics.AuditWrites.WithLabelValues("error").Inc()
		s.log.Error("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		return
	}
	metrics.AuditWrites.WithLabelValues("ok").Inc()
}

// LogFailure records a rejected or failed attempt. A nil actor (e.g. an
// unauthenticated caller) records null actor fields rather than erroring.
func (s *AuditService) LogFailure(ctx context.Context, actor *iauth.Principal, action, resource string, details map[string]any) {
	err := s.Log(ctx, AuditEntry{
		Actor:    actor,
		Action:   action,
		Resource: resource,
		Details:  details,
		Status:   models.AuditStatusFailure,
	})
	if err != nil {
		metrics.AuditWrites.WithLabelValues("error").Inc()
		s.log.Error("audit write failed", zap.String("action", action), zap.Error(err))
		return
	}
	metrics.AuditWrites.WithLabelValues("ok").Inc()
}

// List returns paginated audit logs ordered by creation time descending.
func (s *AuditService) List(ctx context.Context, opts AuditListOptions) ([]models.AuditLog, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var (
		results []models.AuditLog
		total   int64
	)

	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	query = applyAuditFilters(query, opts.Filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: count logs: %w", err)
	}

	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: list logs: %w", err)
	}

	return results, total, nil
}

// Export returns audit logs matching the filters without pagination.
func (s *AuditService) Export(ctx context.Context, filters AuditFilters) ([]models.AuditLog, error) {
	ctx = ensureContext(ctx)

	var logs []models.AuditLog
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	query = applyAuditFilters(query, filters)

	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("audit service: export logs: %w", err)
	}

	return logs, nil
}

// CleanupOlderThan removes audit logs older than the supplied retention window
// (in days). This is the sole delete path and is gated to superAdmin callers
// at the route layer.
func (s *AuditService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	ctx = ensureContext(ctx)

	if retentionDays <= 0 {
		return 0, errors.New("audit service: retentionDays must be positive")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: cleanup logs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func applyAuditFilters(query *gorm.DB, filters AuditFilters) *gorm.DB {
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.Resource != "" {
		query = query.Where("resource = ?", filters.Resource)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}
	if filters.Until != nil {
		query = query.Where("created_at <= ?", *filters.Until)
	}
	return query
}
