package types

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardItem struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GenerationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"generation_id"`
	Generation   *Generation `gorm:"constraint:OnDelete:CASCADE;foreignKey:GenerationID;references:ID" json:"generation,omitempty"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Question     string      `gorm:"column:question;not null" json:"question"`
	Answer       string      `gorm:"column:answer;not null" json:"answer"`
	Order        int         `gorm:"column:item_order;not null" json:"order"`
	// SM-2 scheduling state, seeded at creation; the review scheduler owns
	// these after that.
	EaseFactor  float64   `gorm:"column:ease_factor;not null;default:2.5" json:"ease_factor"`
	Interval    int       `gorm:"column:interval_days;not null;default:0" json:"interval"`
	Repetitions int       `gorm:"column:repetitions;not null;default:0" json:"repetitions"`
	NextReview  time.Time `gorm:"column:next_review;not null" json:"next_review"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (FlashcardItem) TableName() string { return "flashcard_item" }
