package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func TestProjectServiceCreateSubmitsByDefault(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	reviewer := seedUser(t, db, "manager@citt.edu", roles.IPManager)

	created, err := projects.Create(context.Background(), asPrincipal(owner), CreateProjectInput{
		Title:    "Solar tracker",
		Abstract: "Dual-axis tracking rig",
		Category: "energy",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusSubmitted, created.Status)
	assert.Equal(t, owner.ID, created.UserID)

	// Reviewers are notified of the submission.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND kind = ?", reviewer.ID, models.NotificationSubmission).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProjectServiceDraftsStaySilent(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	seedUser(t, db, "manager@citt.edu", roles.IPManager)

	created, err := projects.Create(context.Background(), asPrincipal(owner), CreateProjectInput{
		Title: "Quiet draft",
		Draft: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusDraft, created.Status)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count, "drafts do not notify reviewers")
}

func TestProjectServiceUpdateOnlyTouchesDrafts(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	draft := seedProject(t, db, owner, models.ProjectStatusDraft)
	submitted := seedProject(t, db, owner, models.ProjectStatusSubmitted)

	title := "Renamed draft"
	updated, err := projects.Update(context.Background(), draft.ID, UpdateProjectInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed draft", updated.Title)

	_, err = projects.Update(context.Background(), submitted.ID, UpdateProjectInput{Title: &title})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProjectServiceSubmitLifecycle(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	owner := seedUser(t, db, "maria@citt.edu", roles.Innovator)
	reviewer := seedUser(t, db, "boss@citt.edu", roles.Admin)
	draft := seedProject(t, db, owner, models.ProjectStatusDraft)

	submitted, err := projects.Submit(context.Background(), draft.ID, asPrincipal(owner))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusSubmitted, submitted.Status)

	// Submitting twice is an invalid transition.
	_, err = projects.Submit(context.Background(), draft.ID, asPrincipal(owner))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reviewed, err := projects.Review(context.Background(), draft.ID, asPrincipal(reviewer))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusUnderReview, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer.ID, *reviewed.ReviewedBy)

	decided, err := projects.Decide(context.Background(), draft.ID, asPrincipal(reviewer), true, "solid plan")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusApproved, decided.Status)
	assert.Equal(t, "solid plan", decided.ReviewComment)

	// Owner got a decision notification.
	var note models.Notification
	require.NoError(t, db.Where("user_id = ? AND kind = ?", owner.ID, models.NotificationDecision).First(&note).Error)
	assert.Equal(t, "Project approved", note.Title)

	// A decided project cannot be decided again.
	_, err = projects.Decide(context.Background(), draft.ID, asPrincipal(reviewer), false, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProjectServiceListScoping(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	alice := seedUser(t, db, "alice@citt.edu", roles.Innovator)
	bob := seedUser(t, db, "bob@citt.edu", roles.Innovator)

	seedProject(t, db, alice, models.ProjectStatusDraft)
	seedProject(t, db, alice, models.ProjectStatusSubmitted)
	seedProject(t, db, bob, models.ProjectStatusSubmitted)

	mine, total, err := projects.List(context.Background(), ListOptions{OwnerID: alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, p := range mine {
		assert.Equal(t, alice.ID, p.UserID)
	}

	all, total, err := projects.List(context.Background(), ListOptions{Status: models.ProjectStatusSubmitted})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestProjectServiceGetMissing(t *testing.T) {
	db := newTestDB(t)
	notifications, _ := newServices(t, db)
	projects, err := NewProjectService(db, notifications)
	require.NoError(t, err)

	_, err = projects.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
