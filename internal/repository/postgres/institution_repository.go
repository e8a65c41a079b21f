package postgres

import (
	"context"
	"errors"
	"fmt"

	"myCourseCompass/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstitutionRepository struct {
	DB *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) *InstitutionRepository {
	return &InstitutionRepository{
		DB: db,
	}
}

func (r *InstitutionRepository) FindAll(ctx context.Context, filter domain.InstitutionFilter) ([]domain.Institution, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.Institution{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.County != "" {
		q = q.Where("county ILIKE ?", filter.County)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count institutions: %w", err)
	}

	var institutions []domain.Institution
	if err := q.Order("name").Limit(filter.Limit).Offset(filter.Offset).Find(&institutions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find institutions: %w", err)
	}

	return institutions, total, nil
}

func (r *InstitutionRepository) FindByID(ctx context.Context, id uint64) (domain.Institution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Institution{}, fmt.Errorf("context error: %w", err)
	}

	var institution domain.Institution

	err := r.DB.WithContext(ctx).First(&institution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Institution{}, domain.ErrInstitutionNotFound
		}
		return domain.Institution{}, fmt.Errorf("failed to find institution: %w", err)
	}

	return institution, nil
}

func (r *InstitutionRepository) FindByType(ctx context.Context, institutionType string) ([]domain.Institution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var institutions []domain.Institution
	if err := r.DB.WithContext(ctx).Where("type = ?", institutionType).Order("name").Find(&institutions).Error; err != nil {
		return nil, fmt.Errorf("failed to find institutions: %w", err)
	}

	return institutions, nil
}

type programTypeCount struct {
	ProgramType string
	Count       int64
}

func (r *InstitutionRepository) CountCoursesByProgramType(ctx context.Context, id uint64) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []programTypeCount
	err := r.DB.WithContext(ctx).Model(&domain.Course{}).
		Select("program_type, COUNT(*) AS count").
		Where("institution_id = ?", id).
		Group("program_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count institution courses: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ProgramType] = row.Count
	}

	return counts, nil
}

// UpsertInstitutions inserts institutions, updating on a matching id.
func (r *InstitutionRepository) UpsertInstitutions(ctx context.Context, institutions []domain.Institution) error {
	if len(institutions) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "code", "type", "category", "county", "location"}),
		}).
		CreateInBatches(institutions, 200).Error
	if err != nil {
		return fmt.Errorf("failed to upsert institutions: %w", err)
	}

	return nil
}
