package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GenerationType enumerates the study artifacts a generation can produce.
type GenerationType string

const (
	GenerationTypeFlashcards GenerationType = "flashcards"
	GenerationTypeQuiz       GenerationType = "quiz"
	GenerationTypeNotes      GenerationType = "notes"
	GenerationTypeSummary    GenerationType = "summary"
	GenerationTypeStudyGuide GenerationType = "study_guide"
	GenerationTypeConceptMap GenerationType = "concept_map"
)

// GenerationStatus state machine: generating -> ready | failed.
// failed is terminal but retryable.
type GenerationStatus string

const (
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusReady      GenerationStatus = "ready"
	GenerationStatusFailed     GenerationStatus = "failed"
)

type Generation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	// Ordered list of source document ids, stored as a jsonb uuid array.
	SourceDocumentIDs datatypes.JSON   `gorm:"column:source_document_ids;type:jsonb;not null" json:"source_document_ids"`
	Name              string           `gorm:"column:name;not null" json:"name"`
	Type              GenerationType   `gorm:"column:type;not null;index:idx_generation_user_type,priority:2" json:"type"`
	Status            GenerationStatus `gorm:"column:status;not null;default:'generating'" json:"status"`
	Error             string           `gorm:"column:error" json:"error,omitempty"`
	CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (Generation) TableName() string { return "generation" }
