package middleware

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/permissions"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

type recordedFailure struct {
	actor    *iauth.Principal
	action   string
	resource string
	details  map[string]any
}

type fakeRecorder struct {
	mu       sync.Mutex
	failures []recordedFailure
}

func (f *fakeRecorder) LogFailure(_ context.Context, actor *iauth.Principal, action, resource string, details map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, recordedFailure{actor: actor, action: action, resource: resource, details: details})
}

func TestRequirePermission(t *testing.T) {
	db := middlewareTestDB(t)
	store, err := permissions.NewStore(db)
	require.NoError(t, err)

	_, err = store.Grant(context.Background(), roles.IPManager, "ip_records", "update", "")
	require.NoError(t, err)

	newRouter := func(p *iauth.Principal, recorder FailureRecorder) *gin.Engine {
		router := gin.New()
		router.PATCH("/ip_records/:id",
			withPrincipal(p),
			RequirePermission(store, recorder, "ip_records", "update"),
			okHandler)
		return router
	}

	t.Run("granted role passes", func(t *testing.T) {
		rec := perform(newRouter(&iauth.Principal{ID: "u-1", Role: roles.IPManager}, nil),
			http.MethodPatch, "/ip_records/r-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("superAdmin passes without a grant", func(t *testing.T) {
		rec := perform(newRouter(&iauth.Principal{ID: "u-2", Role: roles.SuperAdmin}, nil),
			http.MethodPatch, "/ip_records/r-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing grant is denied with the requirement named", func(t *testing.T) {
		recorder := &fakeRecorder{}
		rec := perform(newRouter(&iauth.Principal{ID: "u-3", Role: roles.Innovator}, recorder),
			http.MethodPatch, "/ip_records/r-1", "")
		require.Equal(t, http.StatusForbidden, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "PERMISSION_DENIED", body.Error.Code)
		assert.Equal(t, "innovator", body.Error.Details["userRole"])
		required := body.Error.Details["required"].(map[string]any)
		assert.Equal(t, "ip_records", required["resource"])
		assert.Equal(t, "update", required["action"])

		// The denial is recorded as an audit failure.
		require.Len(t, recorder.failures, 1)
		failure := recorder.failures[0]
		assert.Equal(t, "u-3", failure.actor.ID)
		assert.Equal(t, "ip_records", failure.resource)
	})

	t.Run("no principal gets 401", func(t *testing.T) {
		rec := perform(newRouter(nil, nil), http.MethodPatch, "/ip_records/r-1", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revocations apply to in-flight tokens", func(t *testing.T) {
		recorder := &fakeRecorder{}
		router := newRouter(&iauth.Principal{ID: "u-1", Role: roles.IPManager}, recorder)

		rec := perform(router, http.MethodPatch, "/ip_records/r-1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		removed, err := store.Revoke(context.Background(), roles.IPManager, "ip_records", "update")
		require.NoError(t, err)
		require.True(t, removed)

		rec = perform(router, http.MethodPatch, "/ip_records/r-1", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
