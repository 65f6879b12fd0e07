package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func TestIPRecordServiceCreate(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	records, err := NewIPRecordService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	manager := seedUser(t, db, "manager@citt.edu", roles.IPManager)

	_, err = records.Create(context.Background(), asPrincipal(owner), CreateIPRecordInput{Type: models.IPTypePatent})
	assert.ErrorIs(t, err, ErrInvalidInput, "title is required")

	_, err = records.Create(context.Background(), asPrincipal(owner), CreateIPRecordInput{Title: "Widget", Type: "design"})
	assert.ErrorIs(t, err, ErrInvalidInput, "unknown IP type")

	record, err := records.Create(context.Background(), asPrincipal(owner), CreateIPRecordInput{
		Title: "Dual-axis tracking mechanism",
		Type:  models.IPTypePatent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.IPStatusDisclosed, record.Status)
	assert.Equal(t, owner.ID, record.UserID)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", manager.ID, models.NotificationSubmission).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "IP managers are notified of new disclosures")
}

func TestIPRecordServiceProgressLifecycle(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	records, err := NewIPRecordService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	record, err := records.Create(context.Background(), asPrincipal(owner), CreateIPRecordInput{
		Title: "Dual-axis tracking mechanism",
		Type:  models.IPTypePatent,
	})
	require.NoError(t, err)

	// A disclosed record cannot jump straight to granted.
	_, err = records.Progress(context.Background(), record.ID, models.IPStatusGranted, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	filed, err := records.Progress(context.Background(), record.ID, models.IPStatusFiled, "PCT/2026/0042")
	require.NoError(t, err)
	assert.Equal(t, models.IPStatusFiled, filed.Status)
	assert.Equal(t, "PCT/2026/0042", filed.RefNumber)

	granted, err := records.Progress(context.Background(), record.ID, models.IPStatusGranted, "")
	require.NoError(t, err)
	assert.Equal(t, models.IPStatusGranted, granted.Status)
	assert.Equal(t, "PCT/2026/0042", granted.RefNumber, "reference survives later transitions")

	// Granted is terminal.
	_, err = records.Progress(context.Background(), record.ID, models.IPStatusRejected, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The owner was told about each transition.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", owner.ID, models.NotificationDecision).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)

	_, err = records.Progress(context.Background(), "no-such-id", models.IPStatusFiled, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIPRecordServiceListScoping(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	records, err := NewIPRecordService(db, notifications)
	require.NoError(t, err)

	alice := seedUser(t, db, "alice@citt.edu", roles.Innovator)
	bob := seedUser(t, db, "bob@citt.edu", roles.Innovator)

	for _, owner := range []*models.User{alice, alice, bob} {
		_, err := records.Create(context.Background(), asPrincipal(owner), CreateIPRecordInput{
			Title: "Disclosure by " + owner.Email,
			Type:  models.IPTypeCopyright,
		})
		require.NoError(t, err)
	}

	mine, total, err := records.List(context.Background(), ListOptions{OwnerID: alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, r := range mine {
		assert.Equal(t, alice.ID, r.UserID)
	}

	disclosed, total, err := records.List(context.Background(), ListOptions{Status: models.IPStatusDisclosed})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, disclosed, 3)
}
