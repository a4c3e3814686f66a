package services

import (
	"errors"
	"time"

	"notebin-app/notebin/broker"
	"notebin-app/notebin/database"
	"notebin-app/notebin/models"
	"notebin-app/notebin/utils/cipher"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// adminReportHistoryLimit caps the report history attached to an admin note
// view.
const adminReportHistoryLimit = 50

// AdminNoteView is the moderation projection: the full note record with
// decrypted content and its report history, deleted or not.
type AdminNoteView struct {
	Note    models.Note     `json:"note"`
	Content string          `json:"content"`
	Reports []models.Report `json:"reports"`
}

type ModerationServiceInterface interface {
	DeleteNote(db *database.Database, noteID, actor string) error
	RestoreNote(db *database.Database, noteID, actor string) error
	GetNoteForAdmin(db *database.Database, noteID string) (AdminNoteView, error)
	ListModerationLog(db *database.Database, noteID string, limit int) ([]models.ModerationLogEntry, error)
}

type ModerationService struct {
	cipher   *cipher.Cipher
	producer *broker.Producer
}

var ModerationServiceInstance ModerationServiceInterface

func NewModerationService(contentCipher *cipher.Cipher, producer *broker.Producer) *ModerationService {
	return &ModerationService{cipher: contentCipher, producer: producer}
}

// DeleteNote hides a note from all public paths, closes its open reports and
// appends an audit entry. The note row itself is kept for moderation review.
func (s *ModerationService) DeleteNote(db *database.Database, noteID, actor string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ?", noteID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if err := tx.Model(&note).UpdateColumn("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.Report{}).
		Where("note_id = ? AND status = ?", note.ID, models.ReportOpen).
		Update("status", models.ReportClosed).Error; err != nil {
		tx.Rollback()
		return err
	}

	entry := models.ModerationLogEntry{
		ID:        uuid.New(),
		NoteID:    note.ID,
		Action:    models.ModerationDelete,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	event := broker.NewEvent(broker.NoteDeletedSubject)
	event.NoteID = note.ID
	event.ShortID = note.ShortID
	event.Actor = actor
	s.producer.Publish(broker.NoteDeletedSubject, event)

	return nil
}

func (s *ModerationService) RestoreNote(db *database.Database, noteID, actor string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var note models.Note
	if err := tx.First(&note, "id = ?", noteID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if err := tx.Model(&note).UpdateColumn("is_deleted", false).Error; err != nil {
		tx.Rollback()
		return err
	}

	entry := models.ModerationLogEntry{
		ID:        uuid.New(),
		NoteID:    note.ID,
		Action:    models.ModerationRestore,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	event := broker.NewEvent(broker.NoteRestoredSubject)
	event.NoteID = note.ID
	event.ShortID = note.ShortID
	event.Actor = actor
	s.producer.Publish(broker.NoteRestoredSubject, event)

	return nil
}

// GetNoteForAdmin bypasses the deleted-note visibility filter and never
// touches the view counter.
func (s *ModerationService) GetNoteForAdmin(db *database.Database, noteID string) (AdminNoteView, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdminNoteView{}, ErrNoteNotFound
		}
		return AdminNoteView{}, err
	}

	content, err := decryptContent(s.cipher, note)
	if err != nil {
		return AdminNoteView{}, err
	}

	var reports []models.Report
	if err := db.DB.Where("note_id = ?", note.ID).
		Order("created_at DESC").
		Limit(adminReportHistoryLimit).
		Find(&reports).Error; err != nil {
		return AdminNoteView{}, err
	}

	return AdminNoteView{Note: note, Content: content, Reports: reports}, nil
}

func (s *ModerationService) ListModerationLog(db *database.Database, noteID string, limit int) ([]models.ModerationLogEntry, error) {
	if limit <= 0 {
		limit = defaultReportPageSize
	}
	if limit > maxReportPageSize {
		limit = maxReportPageSize
	}

	query := db.DB.Model(&models.ModerationLogEntry{}).Order("created_at DESC").Limit(limit)
	if noteID != "" {
		query = query.Where("note_id = ?", noteID)
	}

	var entries []models.ModerationLogEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
