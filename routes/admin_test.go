package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notebin-app/notebin/config"
	"notebin-app/notebin/database"
	"notebin-app/notebin/middleware"
	"notebin-app/notebin/models"
	"notebin-app/notebin/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const validAdminToken = "valid-admin-token"

type MockAuthService struct{}

func (m *MockAuthService) Login(providedToken string) (string, time.Time, error) {
	if providedToken != validAdminToken {
		return "", time.Time{}, services.ErrUnauthorized
	}
	return "session-jwt", time.Now().UTC().Add(time.Hour), nil
}

func (m *MockAuthService) ValidateCredential(credential string) (string, error) {
	if credential != validAdminToken && credential != "session-jwt" {
		return "", services.ErrUnauthorized
	}
	return "admin", nil
}

type MockModerationService struct {
	deleted  []string
	restored []string
}

func (m *MockModerationService) DeleteNote(db *database.Database, noteID, actor string) error {
	if noteID != knownNoteID {
		return services.ErrNoteNotFound
	}
	m.deleted = append(m.deleted, actor)
	return nil
}

func (m *MockModerationService) RestoreNote(db *database.Database, noteID, actor string) error {
	if noteID != knownNoteID {
		return services.ErrNoteNotFound
	}
	m.restored = append(m.restored, actor)
	return nil
}

func (m *MockModerationService) GetNoteForAdmin(db *database.Database, noteID string) (services.AdminNoteView, error) {
	if noteID != knownNoteID {
		return services.AdminNoteView{}, services.ErrNoteNotFound
	}
	return services.AdminNoteView{
		Note:    models.Note{ID: knownNoteID, ShortID: knownShortID, IsDeleted: true},
		Content: "hidden content",
		Reports: []models.Report{},
	}, nil
}

func (m *MockModerationService) ListModerationLog(db *database.Database, noteID string, limit int) ([]models.ModerationLogEntry, error) {
	return []models.ModerationLogEntry{}, nil
}

type MockStreamService struct{}

func (m *MockStreamService) Start(cfg config.Config)         {}
func (m *MockStreamService) Stop()                           {}
func (m *MockStreamService) HandleConnection(c *gin.Context) {}
func (m *MockStreamService) BroadcastMessage(message []byte) {}

func setupAdminRouter(allowedIPs string) (*gin.Engine, *MockModerationService) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authService := &MockAuthService{}
	moderation := &MockModerationService{}
	authMiddleware := middleware.AdminAuthMiddleware(authService, allowedIPs)

	RegisterAdminRoutes(router.Group("/api/admin"), nil, authService, &MockReportService{}, moderation, &MockStreamService{}, authMiddleware)
	return router, moderation
}

func doAdmin(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.RemoteAddr = "203.0.113.5:54321"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes_RequireCredential(t *testing.T) {
	router, _ := setupAdminRouter("")

	for _, path := range []string{
		"/api/admin/reports",
		"/api/admin/notes/" + knownNoteID,
		"/api/admin/moderation-log",
	} {
		w := doAdmin(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)

		w = doAdmin(router, http.MethodGet, path, "wrong-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestAdminRoutes_IPAllowList(t *testing.T) {
	router, _ := setupAdminRouter("10.1.2.3")

	// Valid credential, but the caller address is not on the list.
	w := doAdmin(router, http.MethodGet, "/api/admin/reports", validAdminToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	router, _ = setupAdminRouter("10.1.2.3,203.0.113.5")
	w = doAdmin(router, http.MethodGet, "/api/admin/reports", validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLogin(t *testing.T) {
	router, _ := setupAdminRouter("")

	w := doJSON(router, http.MethodPost, "/api/admin/login", AdminLoginRequest{Token: validAdminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-jwt", resp["token"])
	assert.NotEmpty(t, resp["expiresAt"])

	w = doJSON(router, http.MethodPost, "/api/admin/login", AdminLoginRequest{Token: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListReports(t *testing.T) {
	router, _ := setupAdminRouter("")

	w := doAdmin(router, http.MethodGet, "/api/admin/reports?status=open&limit=10", validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]models.Report
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["items"], 1)
}

func TestAdminGetNote(t *testing.T) {
	router, _ := setupAdminRouter("")

	w := doAdmin(router, http.MethodGet, "/api/admin/notes/"+knownNoteID, validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp services.AdminNoteView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Note.IsDeleted)
	assert.Equal(t, "hidden content", resp.Content)

	w = doAdmin(router, http.MethodGet, "/api/admin/notes/missing1", validAdminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDeleteAndRestore(t *testing.T) {
	router, moderation := setupAdminRouter("")

	w := doAdmin(router, http.MethodPost, "/api/admin/notes/"+knownNoteID+"/delete", validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"admin"}, moderation.deleted)

	w = doAdmin(router, http.MethodPost, "/api/admin/notes/"+knownNoteID+"/restore", validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"admin"}, moderation.restored)

	w = doAdmin(router, http.MethodPost, "/api/admin/notes/missing1/delete", validAdminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCloseReport(t *testing.T) {
	router, _ := setupAdminRouter("")

	w := doAdmin(router, http.MethodPost, "/api/admin/reports/some-id/close", validAdminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doAdmin(router, http.MethodPost, "/api/admin/reports/missing/close", validAdminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
