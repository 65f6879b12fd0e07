package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// reviewerRoles receive fan-out notifications when an innovator submits.
var reviewerRoles = []roles.Role{roles.IPManager, roles.Admin, roles.SuperAdmin}

// ProjectService manages innovation projects through their review lifecycle.
type ProjectService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewProjectService constructs a ProjectService.
func NewProjectService(db *gorm.DB, notifications *NotificationService) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("project service: notification service is required")
	}
	return &ProjectService{db: db, notifications: notifications}, nil
}

// CreateProjectInput holds the submission payload.
type CreateProjectInput struct {
	Title    string
	Abstract string
	Category string
	Draft    bool
}

// UpdateProjectInput patches a draft; nil means unchanged.
type UpdateProjectInput struct {
	Title    *string
	Abstract *string
	Category *string
}

// Create stores a new project owned by the caller. Unless saved as a draft it
// is submitted immediately and reviewers are notified.
func (s *ProjectService) Create(ctx context.Context, owner *iauth.Principal, input CreateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	if owner == nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := models.ProjectStatusSubmitted
	if input.Draft {
		status = models.ProjectStatusDraft
	}

	project := models.Project{
		Title:    strings.TrimSpace(input.Title),
		Abstract: strings.TrimSpace(input.Abstract),
		Category: strings.TrimSpace(input.Category),
		Status:   status,
		UserID:   owner.ID,
	}

	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, fmt.Errorf("project service: create: %w", err)
	}

	if status == models.ProjectStatusSubmitted {
		s.notifySubmission(ctx, &project, owner)
	}

	return &project, nil
}

// Get fetches a single project with its owner preloaded.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	var project models.Project
	if err := s.db.WithContext(ctx).Preload("User").First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("project service: get: %w", err)
	}
	return &project, nil
}

// ListOptions scope project queries. OwnerID narrows to one innovator's
// projects; staff pass an empty OwnerID to see everything.
type ListOptions struct {
	OwnerID  string
	Status   string
	Category string
	Page     int
	PageSize int
}

// List returns projects matching the options, newest first.
func (s *ProjectService) List(ctx context.Context, opts ListOptions) ([]models.Project, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize := normalizePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Project{})
	if opts.OwnerID != "" {
		query = query.Where("user_id = ?", opts.OwnerID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: count: %w", err)
	}

	var projects []models.Project
	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("project service: list: %w", err)
	}

	return projects, total, nil
}

// Update patches a project. Only drafts may be edited.
func (s *ProjectService) Update(ctx context.Context, id string, input UpdateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusDraft {
		return nil, fmt.Errorf("%w: only drafts may be edited", ErrInvalidTransition)
	}

	updates := map[string]any{}
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Abstract != nil {
		updates["abstract"] = strings.TrimSpace(*input.Abstract)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("project service: update: %w", err)
		}
	}

	return s.Get(ctx, id)
}

// Submit moves a draft into the review queue and notifies reviewers.
func (s *ProjectService) Submit(ctx context.Context, id string, owner *iauth.Principal) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusDraft {
		return nil, fmt.Errorf("%w: project is not a draft", ErrInvalidTransition)
	}

	if err := s.db.WithContext(ctx).Model(project).Update("status", models.ProjectStatusSubmitted).Error; err != nil {
		return nil, fmt.Errorf("project service: submit: %w", err)
	}
	project.Status = models.ProjectStatusSubmitted

	s.notifySubmission(ctx, project, owner)
	return project, nil
}

// Review marks a submitted project as under review by the given reviewer.
func (s *ProjectService) Review(ctx context.Context, id string, reviewer *iauth.Principal) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusSubmitted {
		return nil, fmt.Errorf("%w: project is not awaiting review", ErrInvalidTransition)
	}

	updates := map[string]any{
		"status":      models.ProjectStatusUnderReview,
		"reviewed_by": reviewer.ID,
	}
	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("project service: review: %w", err)
	}

	return s.Get(ctx, id)
}

// Decide approves or rejects a project and notifies its owner.
func (s *ProjectService) Decide(ctx context.Context, id string, reviewer *iauth.Principal, approve bool, comment string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusSubmitted && project.Status != models.ProjectStatusUnderReview {
		return nil, fmt.Errorf("%w: project is not reviewable", ErrInvalidTransition)
	}

	status := models.ProjectStatusRejected
	if approve {
		status = models.ProjectStatusApproved
	}

	updates := map[string]any{
		"status":         status,
		"review_comment": strings.TrimSpace(comment),
		"reviewed_by":    reviewer.ID,
	}
	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("project service: decide: %w", err)
	}
	project.Status = status

	title := "Project rejected"
	if approve {
		title = "Project approved"
	}
	if err := s.notifications.NotifyUser(ctx, project.UserID, models.NotificationDecision, title, project.Title, "projects", project.ID); err != nil {
		// Notifications are best-effort; the decision already persisted.
		return s.Get(ctx, id)
	}

	return s.Get(ctx, id)
}

func (s *ProjectService) notifySubmission(ctx context.Context, project *models.Project, owner *iauth.Principal) {
	ownerName := project.UserID
	if owner != nil {
		ownerName = owner.Name
	}
	_ = s.notifications.NotifyRoles(ctx, reviewerRoles, models.NotificationSubmission,
		"New project submitted",
		fmt.Sprintf("%s submitted %q", ownerName, project.Title),
		"projects", project.ID)
}
