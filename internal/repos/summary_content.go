package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type SummaryContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.SummaryContent) ([]*types.SummaryContent, error)
	GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.SummaryContent, error)
	DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error
}

type summaryContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryContentRepo(db *gorm.DB, baseLog *logger.Logger) SummaryContentRepo {
	return &summaryContentRepo{db: db, log: baseLog.With("repo", "SummaryContentRepo")}
}

func (r *summaryContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SummaryContent) ([]*types.SummaryContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.SummaryContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *summaryContentRepo) GetByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) ([]*types.SummaryContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SummaryContent
	if err := transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *summaryContentRepo) DeleteByGenerationID(ctx context.Context, tx *gorm.DB, generationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Delete(&types.SummaryContent{}).Error
}
