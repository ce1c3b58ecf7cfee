package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizItem struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GenerationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"generation_id"`
	Generation   *Generation `gorm:"constraint:OnDelete:CASCADE;foreignKey:GenerationID;references:ID" json:"generation,omitempty"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Question     string      `gorm:"column:question;not null" json:"question"`
	// Answer options as a jsonb string array, 2-4 entries.
	Options      datatypes.JSON `gorm:"column:options;type:jsonb;not null" json:"options"`
	CorrectIndex int            `gorm:"column:correct_index;not null" json:"correct_index"`
	Explanation  string         `gorm:"column:explanation" json:"explanation,omitempty"`
	Order        int            `gorm:"column:item_order;not null" json:"order"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuizItem) TableName() string { return "quiz_item" }
