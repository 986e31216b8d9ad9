package models

import (
	"time"

	"gorm.io/gorm"
)

// Session represents a time tracking session
type Session struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TaskID          string     `gorm:"not null;index" json:"task_id"`
	TaskTitle       string     `json:"task_title"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	DurationSeconds int        `json:"duration_seconds"` // set when the session stops
	Note            string     `json:"note"`
}

// Minutes is the whole number of minutes the session lasted
func (s Session) Minutes() int {
	return s.DurationSeconds / 60
}

// KVEntry backs the key/value storage table
type KVEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name regardless of gorm's pluralizer
func (KVEntry) TableName() string {
	return "kv_entries"
}
