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
	"github.com/Junior-189/CITT-Project-sub001/pkg/crypto"
)

// UserService manages accounts and the single highest-risk mutation in the
// system: changing another user's role.
type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, audit *AuditService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if audit == nil {
		return nil, errors.New("user service: audit service is required")
	}
	return &UserService{db: db, audit: audit}, nil
}

// CreateUserInput holds the parameters for registering an account.
type CreateUserInput struct {
	Email      string
	Name       string
	Password   string
	Role       roles.Role
	Department string
	Phone      string
}

// UpdateUserInput holds optional profile fields; nil means unchanged.
type UpdateUserInput struct {
	Name       *string
	Department *string
	Phone      *string
	IsActive   *bool
}

// Authenticate verifies email+password and returns the user on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user service: lookup by email: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.Password, password) {
		return nil, ErrNotFound
	}

	return &user, nil
}

// RecordLogin updates last-login bookkeeping; failures are non-fatal.
func (s *UserService) RecordLogin(ctx context.Context, userID, ip string) error {
	now := time.Now()
	return s.db.WithContext(ensureContext(ctx)).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"last_login_at": now, "last_login_ip": ip}).Error
}

// Get fetches a user by id, excluding soft-deleted rows.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user service: get: %w", err)
	}
	return &user, nil
}

// List returns users filtered by role (optional) with pagination.
func (s *UserService) List(ctx context.Context, role roles.Role, page, pageSize int) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)
	page, pageSize = normalizePage(page, pageSize)

	query := s.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: count: %w", err)
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: list: %w", err)
	}

	return users, total, nil
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		Email:      email,
		Name:       strings.TrimSpace(input.Name),
		Password:   hash,
		Role:       input.Role,
		Department: strings.TrimSpace(input.Department),
		Phone:      strings.TrimSpace(input.Phone),
		IsActive:   true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("user service: create: %w", err)
	}

	return &user, nil
}

// Update patches profile fields on an existing account.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Department != nil {
		updates["department"] = strings.TrimSpace(*input.Department)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: update: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete soft-deletes an account; the row remains for audit history.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("user service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeRole updates the target user's role. The route guard already vetted
// the caller, but the rules are re-checked here so the invariant holds even
// for callers that bypass the HTTP layer: only superAdmin may change roles,
// never their own, and the target must exist before any write.
func (s *UserService) ChangeRole(ctx context.Context, actor *iauth.Principal, targetID string, newRole roles.Role) (*models.User, error) {
	ctx = ensureContext(ctx)

	if actor == nil || actor.Role != roles.SuperAdmin {
		return nil, ErrNotSuperAdmin
	}
	if actor.ID == targetID {
		return nil, ErrSelfRoleChange
	}
	if !newRole.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, newRole)
	}

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	oldRole := target.Role
	if err := s.db.WithContext(ctx).Model(target).Update("role", newRole).Error; err != nil {
		return nil, fmt.Errorf("user service: change role: %w", err)
	}
	target.Role = newRole

	s.audit.LogAction(ctx, actor, ActionEvent{
		Action:     "user.role_change",
		Resource:   "users",
		ResourceID: target.ID,
		Details: map[string]any{
			"oldRole": string(oldRole),
			"newRole": string(newRole),
			"email":   target.Email,
		},
	})

	return target, nil
}
