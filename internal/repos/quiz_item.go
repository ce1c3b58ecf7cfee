package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type QuizItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.QuizItem) ([]*types.QuizItem, error)
	GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.QuizItem, error)
	DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error
}

type quizItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizItemRepo(db *gorm.DB, baseLog *logger.Logger) QuizItemRepo {
	return &quizItemRepo{db: db, log: baseLog.With("repo", "QuizItemRepo")}
}

func (r *quizItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.QuizItem) ([]*types.QuizItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.QuizItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *quizItemRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.QuizItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizItem
	if err := transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Order("item_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizItemRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Delete(&types.QuizItem{}).Error
}
