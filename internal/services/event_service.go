package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// EventService manages events and innovator registrations.
type EventService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewEventService constructs an EventService.
func NewEventService(db *gorm.DB, notifications *NotificationService) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("event service: notification service is required")
	}
	return &EventService{db: db, notifications: notifications}, nil
}

// CreateEventInput is the payload for a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
}

// Create records a new event and broadcasts it to innovators.
func (s *EventService) Create(ctx context.Context, creator *iauth.Principal, input CreateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	if creator == nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.StartsAt.IsZero() {
		return nil, fmt.Errorf("%w: starts_at is required", ErrInvalidInput)
	}
	if !input.EndsAt.IsZero() && input.EndsAt.Before(input.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at precedes starts_at", ErrInvalidInput)
	}

	event := models.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CreatedBy:   creator.ID,
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("event service: create: %w", err)
	}

	_ = s.notifications.NotifyRoles(ctx, []roles.Role{roles.Innovator}, models.NotificationSystem,
		"New event announced", event.Title, "event", event.ID)

	return &event, nil
}

// Get fetches one event with its registrations preloaded.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	ctx = ensureContext(ctx)

	var event models.Event
	if err := s.db.WithContext(ctx).Preload("Entries").First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("event service: get: %w", err)
	}
	return &event, nil
}

// EventListOptions scope event queries.
type EventListOptions struct {
	Upcoming bool
	Page     int
	PageSize int
}

// List returns events ordered by start time, soonest first.
func (s *EventService) List(ctx context.Context, opts EventListOptions) ([]models.Event, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Event{})
	if opts.Upcoming {
		query = query.Where("starts_at >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("event service: count: %w", err)
	}

	var events []models.Event
	if err := query.
		Order("starts_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("event service: list: %w", err)
	}

	return events, total, nil
}

// UpdateEventInput carries optional event edits.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// Update edits an existing event.
func (s *EventService) Update(ctx context.Context, id string, input UpdateEventInput) (*models.Event, error) {
	ctx = ensureContext(ctx)

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.StartsAt != nil {
		updates["starts_at"] = *input.StartsAt
	}
	if input.EndsAt != nil {
		updates["ends_at"] = *input.EndsAt
	}
	if len(updates) == 0 {
		return event, nil
	}

	if err := s.db.WithContext(ctx).Model(event).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("event service: update: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an event and its registrations.
func (s *EventService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventEntry{}).Error; err != nil {
			return fmt.Errorf("event service: delete entries: %w", err)
		}
		if err := tx.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("event service: delete: %w", err)
		}
		return nil
	})
}

// Register signs the caller up for an event. A user registers at most once
// per event; repeats return ErrAlreadyRegistered.
func (s *EventService) Register(ctx context.Context, user *iauth.Principal, eventID, projectID, notes string) (*models.EventEntry, error) {
	ctx = ensureContext(ctx)

	if user == nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	entry := models.EventEntry{
		EventID: eventID,
		UserID:  user.ID,
		Notes:   strings.TrimSpace(notes),
	}
	if pid := strings.TrimSpace(projectID); pid != "" {
		entry.ProjectID = &pid
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("event service: register: %w", err)
	}
	return &entry, nil
}

// Entries lists the registrations for an event.
func (s *EventService) Entries(ctx context.Context, eventID string) ([]models.EventEntry, error) {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}

	var entries []models.EventEntry
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("event service: entries: %w", err)
	}
	return entries, nil
}
