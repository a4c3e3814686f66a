package models

import (
	"time"

	"github.com/google/uuid"
)

type ModerationAction string

const (
	ModerationDelete  ModerationAction = "delete"
	ModerationRestore ModerationAction = "restore"
)

// ModerationLogEntry is an append-only audit record. Entries are never
// updated or deleted.
type ModerationLogEntry struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	NoteID    string           `gorm:"size:7;not null;index" json:"noteId"`
	Action    ModerationAction `gorm:"size:16;not null" json:"action"`
	Actor     string           `gorm:"size:64;not null" json:"actor"`
	CreatedAt time.Time        `gorm:"not null" json:"createdAt"`
}
