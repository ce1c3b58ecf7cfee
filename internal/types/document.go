package types

import (
	"time"

	"github.com/google/uuid"
)

// Document status lifecycle: pending -> processing -> ready | failed.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	StorageKey    string    `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL       string    `gorm:"column:file_url" json:"file_url"`
	MimeType      string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes     int64     `gorm:"column:size_bytes" json:"size_bytes"`
	Status        string    `gorm:"column:status;not null;default:'pending'" json:"status"`
	ExtractedText string    `gorm:"column:extracted_text" json:"extracted_text,omitempty"`
	Error         string    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string { return "document" }
