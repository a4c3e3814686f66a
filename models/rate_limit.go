package models

import "time"

// RateLimitCounter is one fixed-window bucket, keyed by
// "class:caller:windowIndex". Keeping counters in the primary store lets
// multiple server instances share limits.
type RateLimitCounter struct {
	Key         string    `gorm:"primaryKey;size:128" json:"key"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	WindowStart time.Time `gorm:"not null" json:"windowStart"`
}
