package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/types"
)

type GenerationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, gens []*types.Generation) ([]*types.Generation, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Generation, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Generation, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type generationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRepo {
	return &generationRepo{db: db, log: baseLog.With("repo", "GenerationRepo")}
}

func (r *generationRepo) Create(ctx context.Context, tx *gorm.DB, gens []*types.Generation) ([]*types.Generation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(gens) == 0 {
		return []*types.Generation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&gens).Error; err != nil {
		return nil, err
	}
	return gens, nil
}

func (r *generationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Generation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Generation
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *generationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Generation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Generation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *generationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Generation{}).
		Where("id = ?", id).
		Updates(fields).Error
}
