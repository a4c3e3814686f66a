package models

import (
	"encoding/json"
	"time"
)

// Note is a shared text snippet. The ID and ShortID are both random
// alphanumeric lookup keys; EditCode is the only secret that authorizes
// mutation. Content may be stored encrypted, indicated by Encrypted.
type Note struct {
	ID             string     `gorm:"primaryKey;size:7" json:"id"`
	ShortID        string     `gorm:"uniqueIndex;size:6;not null" json:"shortId"`
	Content        string     `gorm:"not null" json:"-"`
	Encrypted      bool       `gorm:"default:false" json:"-"`
	EditCode       string     `gorm:"size:64;not null" json:"-"`
	Size           int        `gorm:"not null" json:"size"`
	Views          int64      `gorm:"not null;default:0" json:"views"`
	ReportCount    int        `gorm:"not null;default:0" json:"reportCount"`
	IsDeleted      bool       `gorm:"default:false;index" json:"isDeleted"`
	LastReportedAt *time.Time `json:"lastReportedAt,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updatedAt"`
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// NoteView is the public projection returned by read endpoints. EditCode and
// moderation fields never leave the server through this type.
type NoteView struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Content   string    `json:"content"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicView builds the API projection with decrypted content supplied by
// the caller.
func (n *Note) PublicView(content string) NoteView {
	return NoteView{
		ID:        n.ID,
		ShortID:   n.ShortID,
		Content:   content,
		Views:     n.Views,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
