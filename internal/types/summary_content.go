package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SummaryContent struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GenerationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"generation_id"`
	Generation   *Generation `gorm:"constraint:OnDelete:CASCADE;foreignKey:GenerationID;references:ID" json:"generation,omitempty"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Content      string      `gorm:"column:content;not null" json:"content"`
	// Array of {title, content} objects.
	Sections  datatypes.JSON `gorm:"column:sections;type:jsonb;not null" json:"sections"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SummaryContent) TableName() string { return "summary_content" }
