package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type NotesContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.NotesContent) ([]*types.NotesContent, error)
	GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.NotesContent, error)
	DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error
}

type notesContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotesContentRepo(db *gorm.DB, baseLog *logger.Logger) NotesContentRepo {
	return &notesContentRepo{db: db, log: baseLog.With("repo", "NotesContentRepo")}
}

func (r *notesContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.NotesContent) ([]*types.NotesContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.NotesContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notesContentRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.NotesContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NotesContent
	if err := transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notesContentRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Delete(&types.NotesContent{}).Error
}
