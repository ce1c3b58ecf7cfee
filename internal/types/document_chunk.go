package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocumentChunk is one embedded slice of a document's text. Chunk indices
// are contiguous from 0 within a document; reprocessing replaces the full
// set.
type DocumentChunk struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Document     *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content      string    `gorm:"column:content;not null" json:"content"`
	ChunkIndex   int       `gorm:"column:chunk_index;not null" json:"chunk_index"`
	Embedding    datatypes.JSON `gorm:"column:embedding;type:jsonb" json:"embedding"`
	SectionTitle string         `gorm:"column:section_title" json:"section_title,omitempty"`
	PageNumber   *int           `gorm:"column:page_number" json:"page_number,omitempty"`
	CharStart    int            `gorm:"column:char_start" json:"char_start"`
	CharEnd      int            `gorm:"column:char_end" json:"char_end"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DocumentChunk) TableName() string { return "document_chunk" }
