package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

// ErrDuplicateGrant is returned when a (role, resource, action) triple already exists.
var ErrDuplicateGrant = errors.New("permissions: triple already granted")

// Store evaluates and manages the (role, resource, action) whitelist. Every
// check is a fresh indexed lookup so grants and revocations take effect on
// the next request.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a permission store backed by the provided database.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("permission store: db is required")
	}
	return &Store{db: db}, nil
}

// Check reports whether role may perform action on resource. SuperAdmin is
// implicitly authorized for every pair and never touches the database.
// Unknown triples default to deny; there is no wildcard matching.
func (s *Store) Check(ctx context.Context, role roles.Role, resource, action string) (bool, error) {
	ctx = ensureContext(ctx)

	if !role.Valid() {
		return false, nil
	}
	if role == roles.SuperAdmin {
		return true, nil
	}

	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if resource == "" || action == "" {
		return false, errors.New("permission store: resource and action are required")
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.RolePermission{}).
		Where("role = ? AND resource = ? AND action = ?", role, resource, action).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("permission store: lookup: %w", err)
	}

	return count > 0, nil
}

// Grant inserts a new triple. A duplicate surfaces as ErrDuplicateGrant
// rather than silently creating a second row.
func (s *Store) Grant(ctx context.Context, role roles.Role, resource, action, description string) (*models.RolePermission, error) {
	ctx = ensureContext(ctx)

	if !role.Valid() {
		return nil, fmt.Errorf("permission store: invalid role %q", role)
	}
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if resource == "" || action == "" {
		return nil, errors.New("permission store: resource and action are required")
	}

	perm := models.RolePermission{
		Role:        role,
		Resource:    resource,
		Action:      action,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.WithContext(ctx).Create(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateGrant
		}
		return nil, fmt.Errorf("permission store: grant: %w", err)
	}

	return &perm, nil
}

// Revoke removes a triple, reporting whether a row was deleted.
func (s *Store) Revoke(ctx context.Context, role roles.Role, resource, action string) (bool, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("role = ? AND resource = ? AND action = ?", role, strings.TrimSpace(resource), strings.TrimSpace(action)).
		Delete(&models.RolePermission{})
	if result.Error != nil {
		return false, fmt.Errorf("permission store: revoke: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListForRole returns every triple granted to the role, ordered for stable output.
func (s *Store) ListForRole(ctx context.Context, role roles.Role) ([]models.RolePermission, error) {
	ctx = ensureContext(ctx)

	var perms []models.RolePermission
	err := s.db.WithContext(ctx).
		Where("role = ?", role).
		Order("resource, action").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("permission store: list for role: %w", err)
	}

	return perms, nil
}

// List returns the entire whitelist.
func (s *Store) List(ctx context.Context) ([]models.RolePermission, error) {
	ctx = ensureContext(ctx)

	var perms []models.RolePermission
	err := s.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&perms).Error
	if err != nil {
		return nil, fmt.Errorf("permission store: list: %w", err)
	}

	return perms, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
