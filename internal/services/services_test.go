package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/database/testutil"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func seedUser(t *testing.T, db *gorm.DB, email string, role roles.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Name:     "Test " + email,
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func asPrincipal(u *models.User) *iauth.Principal {
	return &iauth.Principal{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func seedProject(t *testing.T, db *gorm.DB, owner *models.User, status string) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:  "Solar tracker",
		Status: status,
		UserID: owner.ID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func newServices(t *testing.T, db *gorm.DB) (*NotificationService, *AuditService) {
	t.Helper()

	notifications, err := NewNotificationService(db)
	require.NoError(t, err)
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	return notifications, audit
}
