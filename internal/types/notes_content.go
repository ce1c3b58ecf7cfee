package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotesContent struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GenerationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"generation_id"`
	Generation   *Generation `gorm:"constraint:OnDelete:CASCADE;foreignKey:GenerationID;references:ID" json:"generation,omitempty"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	// Markdown body.
	Content   string         `gorm:"column:content;not null" json:"content"`
	KeyPoints datatypes.JSON `gorm:"column:key_points;type:jsonb;not null" json:"key_points"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (NotesContent) TableName() string { return "notes_content" }
