package postgres

import (
	"context"
	"fmt"

	"myCourseCompass/domain"

	"gorm.io/gorm"
)

const defaultHistoryLimit = 20

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (r *ResultRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	var results []domain.Result
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}

	return results, nil
}
