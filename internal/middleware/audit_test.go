package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
	"github.com/Junior-189/CITT-Project-sub001/internal/services"
)

func auditRouter(t *testing.T, db *gorm.DB, principal *iauth.Principal) (*gin.Engine, *services.AuditService) {
	t.Helper()

	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	router := gin.New()
	router.Use(withPrincipal(principal), AuditTrail(audit))
	return router, audit
}

func postJSON(router *gin.Engine, path string, payload map[string]any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func auditRows(t *testing.T, db *gorm.DB) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	return rows
}

func TestAuditTrailLogsSuccessfulWrites(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Email: "maria@citt.edu", Role: roles.Innovator}
	router, _ := auditRouter(t, db, principal)

	router.POST("/api/projects", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"id": "p-1"})
	})

	rec := postJSON(router, "/api/projects", map[string]any{"title": "Solar tracker"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "POST /api/projects", row.Action)
	assert.Equal(t, "projects", row.Resource)
	assert.Equal(t, models.AuditStatusSuccess, row.Status)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)

	var details map[string]any
	require.NoError(t, json.Unmarshal(row.Details, &details))
	body := details["body"].(map[string]any)
	assert.Equal(t, "Solar tracker", body["title"])
	assert.EqualValues(t, http.StatusCreated, details["status"])
}

func TestAuditTrailSkipsReadsFailuresAndAnonymous(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Role: roles.Innovator}

	t.Run("GET requests are not logged", func(t *testing.T) {
		router, _ := auditRouter(t, db, principal)
		router.GET("/api/projects", okHandler)

		rec := perform(router, http.MethodGet, "/api/projects", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, auditRows(t, db))
	})

	t.Run("failed requests are not logged", func(t *testing.T) {
		router, _ := auditRouter(t, db, principal)
		router.POST("/api/projects", func(c *gin.Context) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "bad"})
		})

		rec := postJSON(router, "/api/projects", map[string]any{"title": ""})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, auditRows(t, db))
	})

	t.Run("anonymous requests are not logged", func(t *testing.T) {
		router, _ := auditRouter(t, db, nil)
		router.POST("/api/projects", okHandler)

		rec := postJSON(router, "/api/projects", map[string]any{"title": "x"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, auditRows(t, db))
	})
}

func TestAuditTrailRedactsSensitiveBodyFields(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Role: roles.SuperAdmin}
	router, _ := auditRouter(t, db, principal)

	// The handler still sees the raw body after the middleware captured it.
	router.POST("/api/users", func(c *gin.Context) {
		var payload map[string]any
		require.NoError(t, c.ShouldBindJSON(&payload))
		assert.Equal(t, "hunter2", payload["password"])
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	rec := postJSON(router, "/api/users", map[string]any{
		"email":    "new@citt.edu",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rows := auditRows(t, db)
	require.Len(t, rows, 1)

	var details map[string]any
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	body := details["body"].(map[string]any)
	assert.Equal(t, "new@citt.edu", body["email"])
	assert.Equal(t, services.RedactedValue, body["password"])
}

func TestAuditTrailPassesOversizedBodiesThrough(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Role: roles.Innovator}
	router, _ := auditRouter(t, db, principal)

	// The handler must receive the complete stream even when the body
	// exceeds the capture cap.
	abstract := strings.Repeat("a", 70<<10)
	router.POST("/api/projects", func(c *gin.Context) {
		var payload struct {
			Title    string `json:"title"`
			Abstract string `json:"abstract"`
		}
		require.NoError(t, c.ShouldBindJSON(&payload))
		assert.Equal(t, "Long proposal", payload.Title)
		assert.Len(t, payload.Abstract, len(abstract))
		c.JSON(http.StatusCreated, gin.H{"id": "p-1"})
	})

	rec := postJSON(router, "/api/projects", map[string]any{
		"title":    "Long proposal",
		"abstract": abstract,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The entry is still written, just without the body snapshot.
	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	var details map[string]any
	require.NoError(t, json.Unmarshal(rows[0].Details, &details))
	assert.Nil(t, details["body"])
}

func TestAuditTrailHonoursMarkAudited(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Role: roles.SuperAdmin}
	router, audit := auditRouter(t, db, principal)

	// Handler writes its own richer entry and suppresses the generic one.
	router.PUT("/api/users/:id/role", func(c *gin.Context) {
		audit.LogAction(c.Request.Context(), principal, services.ActionEvent{
			Action:     "user.role_change",
			Resource:   "users",
			ResourceID: c.Param("id"),
		})
		MarkAudited(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPut, "/api/users/u-9/role", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := auditRows(t, db)
	require.Len(t, rows, 1, "one entry per request, not two")
	assert.Equal(t, "user.role_change", rows[0].Action)
}

func TestAuditTrailCapturesRouteParams(t *testing.T) {
	db := middlewareTestDB(t)
	principal := &iauth.Principal{ID: "u-1", Role: roles.Admin}
	router, _ := auditRouter(t, db, principal)

	router.DELETE("/api/events/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/events/e-42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := auditRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, "events", rows[0].Resource)
	assert.Equal(t, "e-42", rows[0].ResourceID)
}
