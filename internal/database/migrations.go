package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/pkg/crypto"
)

// AutoMigrate applies the schema for all persistent models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RolePermission{},
		&models.AuditLog{},
		&models.Project{},
		&models.FundingApplication{},
		&models.IPRecord{},
		&models.Event{},
		&models.EventEntry{},
		&models.Notification{},
	)
}

type seedPermission struct {
	role        roles.Role
	resource    string
	action      string
	description string
}

// defaultPermissions is the office's permission matrix. SuperAdmin needs no
// rows: it is implicitly authorized for every (resource, action) pair.
var defaultPermissions = []seedPermission{
	{roles.Innovator, "projects", "create", "Submit new innovation projects"},
	{roles.Innovator, "projects", "view", "View own projects"},
	{roles.Innovator, "projects", "update", "Edit own draft projects"},
	{roles.Innovator, "funding", "create", "Apply for project funding"},
	{roles.Innovator, "funding", "view", "View own funding applications"},
	{roles.Innovator, "ip", "create", "File invention disclosures"},
	{roles.Innovator, "ip", "view", "View own IP records"},
	{roles.Innovator, "events", "view", "Browse office events"},
	{roles.Innovator, "events", "register", "Register entries for events"},

	{roles.IPManager, "projects", "view", "View all projects"},
	{roles.IPManager, "projects", "review", "Review submitted projects"},
	{roles.IPManager, "projects", "approve", "Approve or reject projects"},
	{roles.IPManager, "ip", "view", "View all IP records"},
	{roles.IPManager, "ip", "create", "Create IP records"},
	{roles.IPManager, "ip", "update", "Progress IP filings"},
	{roles.IPManager, "ip", "approve", "Decide IP filing outcomes"},
	{roles.IPManager, "events", "view", "Browse office events"},

	{roles.Admin, "projects", "view", "View all projects"},
	{roles.Admin, "projects", "review", "Review submitted projects"},
	{roles.Admin, "projects", "approve", "Approve or reject projects"},
	{roles.Admin, "funding", "view", "View all funding applications"},
	{roles.Admin, "funding", "review", "Review funding applications"},
	{roles.Admin, "funding", "approve", "Approve or reject funding"},
	{roles.Admin, "ip", "view", "View all IP records"},
	{roles.Admin, "ip", "update", "Progress IP filings"},
	{roles.Admin, "events", "view", "Browse office events"},
	{roles.Admin, "events", "manage", "Create and edit events"},
	{roles.Admin, "users", "view", "View user accounts"},
	{roles.Admin, "users", "manage", "Create and edit user accounts"},
	{roles.Admin, "audit", "view", "Read the audit trail"},
}

// SeedBootstrapAdmin creates the first superAdmin account so a fresh
// deployment can log in at all. It only acts when the users table holds no
// rows (soft-deleted included) and reports whether an account was created.
func SeedBootstrapAdmin(db *gorm.DB, email, name, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, errors.New("database: bootstrap admin needs email and password")
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}

	var count int64
	if err := db.Model(&models.User{}).Unscoped().Count(&count).Error; err != nil {
		return false, fmt.Errorf("database: count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("database: hash bootstrap password: %w", err)
	}

	admin := models.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Role:     roles.SuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("database: create bootstrap admin: %w", err)
	}
	return true, nil
}

// SeedData populates the default permission matrix. Existing triples are left
// untouched so operator edits survive restarts.
func SeedData(db *gorm.DB) error {
	for _, p := range defaultPermissions {
		perm := models.RolePermission{
			Role:        p.role,
			Resource:    p.resource,
			Action:      p.action,
			Description: p.description,
		}
		err := db.
			Where(models.RolePermission{Role: p.role, Resource: p.resource, Action: p.action}).
			Attrs(perm).
			FirstOrCreate(&models.RolePermission{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
