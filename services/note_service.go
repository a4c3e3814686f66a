package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"notebin-app/notebin/broker"
	"notebin-app/notebin/database"
	"notebin-app/notebin/models"
	"notebin-app/notebin/utils/cipher"
	"notebin-app/notebin/utils/ident"
	"notebin-app/notebin/utils/markdown"

	"gorm.io/gorm"
)

// maxIDAttempts bounds the generate/check/retry loop for identifier
// collisions. With 62^6 short ids the loop practically never retries.
const maxIDAttempts = 10

// ContentTooLargeError reports both the limit and the offending size so the
// API can echo them back to the caller.
type ContentTooLargeError struct {
	SizeBytes  int
	LimitBytes int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content size %.1fKB exceeds the maximum of %dKB",
		float64(e.SizeBytes)/1024, e.LimitBytes/1024)
}

func (e *ContentTooLargeError) Unwrap() error { return ErrContentTooLarge }

type NoteServiceInterface interface {
	CreateNote(db *database.Database, content string) (models.Note, error)
	GetNoteByID(db *database.Database, id string) (models.NoteView, error)
	GetNoteByShortID(db *database.Database, shortID string) (models.NoteView, error)
	GetRawContent(db *database.Database, id string) (string, error)
	GetRenderedHTML(db *database.Database, id string) (string, error)
	UpdateNote(db *database.Database, id string, content string, editCode string) (models.Note, error)
}

type NoteService struct {
	cipher          *cipher.Cipher
	maxContentBytes int
	producer        *broker.Producer
}

var NoteServiceInstance NoteServiceInterface

func NewNoteService(contentCipher *cipher.Cipher, maxContentBytes int, producer *broker.Producer) *NoteService {
	return &NoteService{
		cipher:          contentCipher,
		maxContentBytes: maxContentBytes,
		producer:        producer,
	}
}

// validateContent enforces the non-empty and size rules shared by create and
// update.
func (s *NoteService) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	if size := len(content); size > s.maxContentBytes {
		return &ContentTooLargeError{SizeBytes: size, LimitBytes: s.maxContentBytes}
	}
	return nil
}

// storedContent returns the content as it should be persisted, encrypting
// when a cipher is configured.
func (s *NoteService) storedContent(content string) (string, bool, error) {
	if s.cipher == nil {
		return content, false, nil
	}
	blob, err := s.cipher.Encrypt(content)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return blob, true, nil
}

// decryptContent recovers the plaintext of a stored note.
func decryptContent(c *cipher.Cipher, note models.Note) (string, error) {
	if !note.Encrypted {
		return note.Content, nil
	}
	if c == nil {
		return "", fmt.Errorf("%w: note %s is encrypted but no content key is configured", ErrInternal, note.ID)
	}
	plaintext, err := c.Decrypt(note.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return plaintext, nil
}

func isDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE") ||
		strings.Contains(err.Error(), "duplicate key")
}

func (s *NoteService) CreateNote(db *database.Database, content string) (models.Note, error) {
	if err := s.validateContent(content); err != nil {
		return models.Note{}, err
	}

	editCode, err := ident.EditCode()
	if err != nil {
		return models.Note{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	stored, encrypted, err := s.storedContent(content)
	if err != nil {
		return models.Note{}, err
	}

	// Identifiers must be unique across live and deleted notes alike, so the
	// existence check never filters on is_deleted. The unique indexes close
	// the remaining check-then-act window: a concurrent insert of the same
	// identifier fails with a duplicate-key error and re-enters the loop.
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := ident.Alphanumeric(ident.NoteIDLength)
		if err != nil {
			return models.Note{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		shortID, err := ident.Alphanumeric(ident.ShortIDLength)
		if err != nil {
			return models.Note{}, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		var count int64
		if err := db.DB.Model(&models.Note{}).
			Where("id = ? OR short_id = ?", id, shortID).
			Count(&count).Error; err != nil {
			return models.Note{}, err
		}
		if count > 0 {
			continue
		}

		note := models.Note{
			ID:        id,
			ShortID:   shortID,
			Content:   stored,
			Encrypted: encrypted,
			EditCode:  editCode,
			Size:      len(content),
		}

		if err := db.DB.Create(&note).Error; err != nil {
			if isDuplicateKeyError(err) {
				continue
			}
			return models.Note{}, err
		}

		event := broker.NewEvent(broker.NoteCreatedSubject)
		event.NoteID = note.ID
		event.ShortID = note.ShortID
		s.producer.Publish(broker.NoteCreatedSubject, event)

		return note, nil
	}

	return models.Note{}, fmt.Errorf("%w: could not generate a unique identifier", ErrInternal)
}

func (s *NoteService) getNote(db *database.Database, column, key string) (models.NoteView, error) {
	// Increment first, guarded by is_deleted, so concurrent readers never
	// lose a count and deleted notes look identical to missing ones.
	result := db.DB.Model(&models.Note{}).
		Where(column+" = ? AND is_deleted = ?", key, false).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return models.NoteView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.NoteView{}, ErrNoteNotFound
	}

	var note models.Note
	if err := db.DB.First(&note, column+" = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NoteView{}, ErrNoteNotFound
		}
		return models.NoteView{}, err
	}

	content, err := decryptContent(s.cipher, note)
	if err != nil {
		return models.NoteView{}, err
	}

	return note.PublicView(content), nil
}

func (s *NoteService) GetNoteByID(db *database.Database, id string) (models.NoteView, error) {
	return s.getNote(db, "id", id)
}

func (s *NoteService) GetNoteByShortID(db *database.Database, shortID string) (models.NoteView, error) {
	return s.getNote(db, "short_id", shortID)
}

// GetRawContent returns the decrypted plaintext without touching the view
// counter.
func (s *NoteService) GetRawContent(db *database.Database, id string) (string, error) {
	var note models.Note
	if err := db.DB.First(&note, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoteNotFound
		}
		return "", err
	}
	return decryptContent(s.cipher, note)
}

func (s *NoteService) GetRenderedHTML(db *database.Database, id string) (string, error) {
	content, err := s.GetRawContent(db, id)
	if err != nil {
		return "", err
	}
	html, err := markdown.Render(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return html, nil
}

func (s *NoteService) UpdateNote(db *database.Database, id string, content string, editCode string) (models.Note, error) {
	if err := s.validateContent(content); err != nil {
		return models.Note{}, err
	}
	if editCode == "" {
		return models.Note{}, fmt.Errorf("%w: edit code is required", ErrValidation)
	}

	var note models.Note
	if err := db.DB.First(&note, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}

	if subtle.ConstantTimeCompare([]byte(note.EditCode), []byte(editCode)) != 1 {
		return models.Note{}, ErrInvalidEditCode
	}

	stored, encrypted, err := s.storedContent(content)
	if err != nil {
		return models.Note{}, err
	}

	now := time.Now().UTC()
	if err := db.DB.Model(&note).Updates(map[string]interface{}{
		"content":    stored,
		"encrypted":  encrypted,
		"size":       len(content),
		"updated_at": now,
	}).Error; err != nil {
		return models.Note{}, err
	}

	note.Content = stored
	note.Encrypted = encrypted
	note.Size = len(content)
	note.UpdatedAt = now

	event := broker.NewEvent(broker.NoteUpdatedSubject)
	event.NoteID = note.ID
	event.ShortID = note.ShortID
	s.producer.Publish(broker.NoteUpdatedSubject, event)

	return note, nil
}
