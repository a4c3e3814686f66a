package routes

import (
	"net/http"
	"testing"

	"notebin-app/notebin/database"
	"notebin-app/notebin/models"
	"notebin-app/notebin/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type MockReportService struct {
	reported map[string]bool
}

func (m *MockReportService) SubmitReport(db *database.Database, noteID, reason, details, ip, userAgent string) (models.Report, error) {
	if noteID != knownNoteID {
		return models.Report{}, services.ErrNoteNotFound
	}
	if m.reported == nil {
		m.reported = make(map[string]bool)
	}
	key := noteID + "|" + ip
	if m.reported[key] {
		return models.Report{}, services.ErrAlreadyReported
	}
	m.reported[key] = true
	return models.Report{ID: uuid.New(), NoteID: noteID, Reason: reason, Status: models.ReportOpen}, nil
}

func (m *MockReportService) ListReports(db *database.Database, status, shortID string, limit int) ([]models.Report, error) {
	return []models.Report{{ID: uuid.New(), NoteID: knownNoteID, ShortID: knownShortID, Reason: "spam", Status: models.ReportOpen}}, nil
}

func (m *MockReportService) CloseReport(db *database.Database, reportID string) error {
	if reportID == "missing" {
		return services.ErrReportNotFound
	}
	return nil
}

func setupReportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterReportRoutes(router.Group("/api"), nil, &MockReportService{}, noopLimiter)
	return router
}

func TestSubmitReportRoute_Success(t *testing.T) {
	router := setupReportRouter()

	w := doJSON(router, http.MethodPost, "/api/notes/"+knownNoteID+"/report", ReportNoteRequest{Reason: "spam"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitReportRoute_Duplicate(t *testing.T) {
	router := setupReportRouter()

	w := doJSON(router, http.MethodPost, "/api/notes/"+knownNoteID+"/report", ReportNoteRequest{Reason: "spam"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/notes/"+knownNoteID+"/report", ReportNoteRequest{Reason: "spam"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmitReportRoute_NotFound(t *testing.T) {
	router := setupReportRouter()

	w := doJSON(router, http.MethodPost, "/api/notes/missing1/report", ReportNoteRequest{Reason: "spam"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
