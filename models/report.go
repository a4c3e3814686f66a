package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportOpen   ReportStatus = "open"
	ReportClosed ReportStatus = "closed"
)

// Report is an abuse report filed against a note. ReporterHash is a one-way
// identity proxy; the raw IP and user agent are never persisted.
type Report struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	NoteID       string       `gorm:"size:7;not null;index" json:"noteId"`
	ShortID      string       `gorm:"size:6;not null;index" json:"shortId"`
	Reason       string       `gorm:"size:64;not null" json:"reason"`
	Details      string       `gorm:"size:500" json:"details"`
	ReporterHash string       `gorm:"size:64;not null" json:"-"`
	Status       ReportStatus `gorm:"size:16;not null;default:open;index" json:"status"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"createdAt"`
}

func (r *Report) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r *Report) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ReportGuard deduplicates repeat reports: one row per (note, reporter),
// overwritten with the latest report time on every accepted report.
type ReportGuard struct {
	NoteID         string    `gorm:"primaryKey;size:7" json:"noteId"`
	ReporterHash   string    `gorm:"primaryKey;size:64" json:"-"`
	LastReportedAt time.Time `gorm:"not null" json:"lastReportedAt"`
}
