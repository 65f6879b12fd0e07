package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/Junior-189/CITT-Project-sub001/internal/auth"
	"github.com/Junior-189/CITT-Project-sub001/internal/database/testutil"
	"github.com/Junior-189/CITT-Project-sub001/internal/models"
	"github.com/Junior-189/CITT-Project-sub001/internal/roles"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "middleware-test-secret"

func newTestJWT(t *testing.T) *iauth.JWTService {
	t.Helper()
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: testJWTSecret, Issuer: "citt-test"})
	require.NoError(t, err)
	return jwt
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

func bearerFor(t *testing.T, jwt *iauth.JWTService, userID string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// perform runs a request through a router and returns the recorder.
func perform(router *gin.Engine, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func middlewareTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}
