package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"notebin-app/notebin/broker"
	"notebin-app/notebin/database"
	"notebin-app/notebin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// ReportDedupWindow is how long a reporter is blocked from re-reporting
	// the same note.
	ReportDedupWindow = 24 * time.Hour

	maxReasonChars  = 64
	maxDetailsChars = 500

	defaultReportPageSize = 50
	maxReportPageSize     = 200
)

type ReportServiceInterface interface {
	SubmitReport(db *database.Database, noteID, reason, details, ip, userAgent string) (models.Report, error)
	ListReports(db *database.Database, status, shortID string, limit int) ([]models.Report, error)
	CloseReport(db *database.Database, reportID string) error
}

type ReportService struct {
	salt     string
	producer *broker.Producer
}

var ReportServiceInstance ReportServiceInterface

func NewReportService(salt string, producer *broker.Producer) *ReportService {
	return &ReportService{salt: salt, producer: producer}
}

// reporterHash derives a one-way identity proxy from the requester's IP and
// user agent. The raw values are never persisted.
func (s *ReportService) reporterHash(ip, userAgent string) string {
	mac := hmac.New(sha256.New, []byte(s.salt))
	mac.Write([]byte(ip))
	mac.Write([]byte("|"))
	mac.Write([]byte(userAgent))
	return hex.EncodeToString(mac.Sum(nil))
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func normalizeReason(reason string) string {
	reason = strings.TrimSpace(strings.ToLower(reason))
	if reason == "" {
		return "other"
	}
	return truncateRunes(reason, maxReasonChars)
}

func (s *ReportService) SubmitReport(db *database.Database, noteID, reason, details, ip, userAgent string) (models.Report, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND is_deleted = ?", noteID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Report{}, ErrNoteNotFound
		}
		return models.Report{}, err
	}

	hash := s.reporterHash(ip, userAgent)

	var guard models.ReportGuard
	err := db.DB.First(&guard, "note_id = ? AND reporter_hash = ?", note.ID, hash).Error
	switch {
	case err == nil:
		if time.Since(guard.LastReportedAt) < ReportDedupWindow {
			return models.Report{}, ErrAlreadyReported
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first report from this reporter
	default:
		return models.Report{}, err
	}

	now := time.Now().UTC()
	report := models.Report{
		ID:           uuid.New(),
		NoteID:       note.ID,
		ShortID:      note.ShortID,
		Reason:       normalizeReason(reason),
		Details:      truncateRunes(strings.TrimSpace(details), maxDetailsChars),
		ReporterHash: hash,
		Status:       models.ReportOpen,
		CreatedAt:    now,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Report{}, tx.Error
	}

	newGuard := models.ReportGuard{
		NoteID:         note.ID,
		ReporterHash:   hash,
		LastReportedAt: now,
	}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&newGuard).Error; err != nil {
		tx.Rollback()
		return models.Report{}, err
	}

	if err := tx.Create(&report).Error; err != nil {
		tx.Rollback()
		return models.Report{}, err
	}

	if err := tx.Model(&models.Note{}).Where("id = ?", note.ID).UpdateColumns(map[string]interface{}{
		"report_count":     gorm.Expr("report_count + ?", 1),
		"last_reported_at": now,
	}).Error; err != nil {
		tx.Rollback()
		return models.Report{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Report{}, err
	}

	event := broker.NewEvent(broker.ReportCreatedSubject)
	event.NoteID = note.ID
	event.ShortID = note.ShortID
	event.ReportID = report.ID.String()
	event.Reason = report.Reason
	s.producer.Publish(broker.ReportCreatedSubject, event)

	return report, nil
}

func (s *ReportService) ListReports(db *database.Database, status, shortID string, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}

	query := db.DB.Model(&models.Report{}).Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if shortID != "" {
		query = query.Where("short_id = ?", shortID)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportService) CloseReport(db *database.Database, reportID string) error {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return ErrReportNotFound
	}

	result := db.DB.Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", models.ReportClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}

	event := broker.NewEvent(broker.ReportClosedSubject)
	event.ReportID = id.String()
	s.producer.Publish(broker.ReportClosedSubject, event)

	return nil
}
