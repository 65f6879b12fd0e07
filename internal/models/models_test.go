package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=1"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&User{}, &RolePermission{}, &AuditLog{}, &Project{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestUserBeforeCreateAssignsUUID(t *testing.T) {
	db := openTestDB(t)

	user := User{Email: "a@citt.edu", Name: "A", Password: "x", Role: roles.Innovator}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated UUID")
	}
}

func TestUserSoftDeleteHidesRow(t *testing.T) {
	db := openTestDB(t)

	user := User{Email: "gone@citt.edu", Name: "Gone", Password: "x", Role: roles.Innovator}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Delete(&user).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var found User
	err := db.First(&found, "id = ?", user.ID).Error
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record-not-found after soft delete, got %v", err)
	}

	var unscoped User
	if err := db.Unscoped().First(&unscoped, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("expected unscoped lookup to find soft-deleted row: %v", err)
	}
	if !unscoped.DeletedAt.Valid {
		t.Fatal("expected deleted_at to be set")
	}
}

func TestRolePermissionTripleIsUnique(t *testing.T) {
	db := openTestDB(t)

	perm := RolePermission{Role: roles.Innovator, Resource: "projects", Action: "create"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission: %v", err)
	}

	dup := RolePermission{Role: roles.Innovator, Resource: "projects", Action: "create"}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatal("expected duplicate triple to conflict")
	}
}

func TestAuditLogDefaults(t *testing.T) {
	db := openTestDB(t)

	entry := AuditLog{Action: "POST /api/projects", Status: AuditStatusSuccess}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("create audit entry: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected generated UUID")
	}
	if entry.UserID != nil {
		t.Fatal("expected nil actor for anonymous entry")
	}
}
