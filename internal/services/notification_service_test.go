package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func TestNotificationServiceNotifyRolesFansOutToActiveUsers(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)

	manager := seedUser(t, db, "manager@citt.edu", roles.IPManager)
	admin := seedUser(t, db, "boss@citt.edu", roles.Admin)
	seedUser(t, db, "maria@citt.edu", roles.Innovator)

	dormant := seedUser(t, db, "gone@citt.edu", roles.Admin)
	require.NoError(t, db.Model(dormant).Update("is_active", false).Error)

	err := notifications.NotifyRoles(context.Background(),
		[]roles.Role{roles.IPManager, roles.Admin},
		models.NotificationSubmission, "New project submitted", "Solar tracker", "projects", "p-1")
	require.NoError(t, err)

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 2, "only active users in the target roles are notified")

	recipients := map[string]bool{}
	for _, row := range rows {
		recipients[row.UserID] = true
		assert.Equal(t, models.NotificationSubmission, row.Kind)
		assert.Equal(t, "projects", row.Resource)
	}
	assert.True(t, recipients[manager.ID])
	assert.True(t, recipients[admin.ID])
}

func TestNotificationServiceListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)

	user := seedUser(t, db, "maria@citt.edu", roles.Innovator)

	for i := 0; i < 3; i++ {
		require.NoError(t, notifications.NotifyUser(context.Background(),
			user.ID, models.NotificationSystem, "Heads up", "msg", "", ""))
	}

	list, total, err := notifications.ListForUser(context.Background(), user.ID, false, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 3)

	require.NoError(t, notifications.MarkRead(context.Background(), list[0].ID))

	unread, total, err := notifications.ListForUser(context.Background(), user.ID, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, unread, 2)

	updated, err := notifications.MarkAllRead(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	_, total, err = notifications.ListForUser(context.Background(), user.ID, true, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNotificationServiceMarkReadMissing(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)

	assert.ErrorIs(t, notifications.MarkRead(context.Background(), "no-such-id"), ErrNotFound)
}
