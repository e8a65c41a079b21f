package postgres

import (
	"context"
	"errors"
	"fmt"

	"myCourseCompass/domain"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) Create(ctx context.Context, record *domain.GradeRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create grade record: %w", err)
	}

	return nil
}

func (r *GradeRepository) FindByID(ctx context.Context, id uint64) (domain.GradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.GradeRecord{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.GradeRecord
	if err := r.DB.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GradeRecord{}, domain.ErrGradeNotFound
		}
		return domain.GradeRecord{}, fmt.Errorf("failed to find grade record: %w", err)
	}

	return record, nil
}

func (r *GradeRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.GradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.GradeRecord
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find grade records: %w", err)
	}

	return records, nil
}

func (r *GradeRepository) FindLatestByUserID(ctx context.Context, userID uint) (domain.GradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.GradeRecord{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.GradeRecord
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.GradeRecord{}, domain.ErrGradeNotFound
		}
		return domain.GradeRecord{}, fmt.Errorf("failed to find latest grade record: %w", err)
	}

	return record, nil
}

func (r *GradeRepository) Update(ctx context.Context, record *domain.GradeRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(record).
		Select("grades_data", "mean_grade", "total_points", "subject_count", "updated_at").
		Updates(record)
	if result.Error != nil {
		return fmt.Errorf("failed to update grade record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrGradeNotFound
	}

	return nil
}

func (r *GradeRepository) Delete(ctx context.Context, id uint64) error {
	result := r.DB.WithContext(ctx).Delete(&domain.GradeRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete grade record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrGradeNotFound
	}

	return nil
}
