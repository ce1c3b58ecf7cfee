package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type FlashcardItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.FlashcardItem) ([]*types.FlashcardItem, error)
	GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.FlashcardItem, error)
	DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error
}

type flashcardItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardItemRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardItemRepo {
	return &flashcardItemRepo{db: db, log: baseLog.With("repo", "FlashcardItemRepo")}
}

func (r *flashcardItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.FlashcardItem) ([]*types.FlashcardItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.FlashcardItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *flashcardItemRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.FlashcardItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.FlashcardItem
	if err := transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Order("item_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardItemRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Delete(&types.FlashcardItem{}).Error
}
