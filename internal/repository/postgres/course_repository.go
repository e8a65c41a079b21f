package postgres

import (
	"context"
	"errors"
	"fmt"

	"myCourseCompass/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{
		DB: db,
	}
}

func (r *CourseRepository) base(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&domain.Course{})
}

func applyCourseFilter(q *gorm.DB, filter domain.CourseFilter) *gorm.DB {
	if filter.ProgramType != "" {
		q = q.Where("courses.program_type = ?", filter.ProgramType)
	}
	if filter.InstitutionID > 0 {
		q = q.Where("courses.institution_id = ?", filter.InstitutionID)
	}
	if filter.Institution != "" {
		q = q.Joins("JOIN institutions ON institutions.id = courses.institution_id").
			Where("institutions.name ILIKE ?", "%"+filter.Institution+"%")
	}
	if filter.Search != "" {
		q = q.Where("(courses.name ILIKE ? OR courses.code ILIKE ?)", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.MinCutoff != nil {
		q = q.Where("courses.cutoff_points >= ?", *filter.MinCutoff)
	}
	if filter.MaxCutoff != nil {
		q = q.Where("courses.cutoff_points <= ?", *filter.MaxCutoff)
	}
	return q
}

func (r *CourseRepository) FindAll(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	if err := applyCourseFilter(r.base(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []domain.Course
	err := applyCourseFilter(r.base(ctx), filter).
		Preload("Institution").
		Order("courses.name").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find courses: %w", err)
	}

	return courses, total, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint64) (domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return domain.Course{}, fmt.Errorf("context error: %w", err)
	}

	var course domain.Course

	err := r.DB.WithContext(ctx).Preload("Institution").Preload("Requirements").First(&course, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Course{}, domain.ErrCourseNotFound
		}
		return domain.Course{}, fmt.Errorf("failed to find course: %w", err)
	}

	return course, nil
}

func (r *CourseRepository) FindByProgramType(ctx context.Context, programType string) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var courses []domain.Course
	err := r.DB.WithContext(ctx).
		Preload("Institution").
		Where("program_type = ?", programType).
		Order("name").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find courses: %w", err)
	}

	return courses, nil
}

func (r *CourseRepository) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	like := "%" + query + "%"

	var courses []domain.Course
	err := r.DB.WithContext(ctx).
		Preload("Institution").
		Joins("LEFT JOIN institutions ON institutions.id = courses.institution_id").
		Where("courses.name ILIKE ? OR courses.code ILIKE ? OR institutions.name ILIKE ?", like, like, like).
		Order("courses.name").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}

	return courses, nil
}

// ---- Calculation catalog ----

func (r *CourseRepository) withRequirements(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Institution").
		Preload("Requirements", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_requirements.id")
		}).
		Order("courses.name").
		Order("courses.id")
}

func (r *CourseRepository) FindWithRequirementsByProgramType(ctx context.Context, programType string) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var courses []domain.Course
	if err := r.withRequirements(ctx).Where("courses.program_type = ?", programType).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to find courses with requirements: %w", err)
	}

	return courses, nil
}

func (r *CourseRepository) FindWithRequirementsByIDs(ctx context.Context, ids []uint64) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var courses []domain.Course
	if err := r.withRequirements(ctx).Where("courses.id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to find courses with requirements: %w", err)
	}

	return courses, nil
}

func (r *CourseRepository) FindAllWithRequirements(ctx context.Context) ([]domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var courses []domain.Course
	if err := r.withRequirements(ctx).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to find courses with requirements: %w", err)
	}

	return courses, nil
}

// ---- Seeding ----

// UpsertCourses inserts courses, updating on a matching id.
func (r *CourseRepository) UpsertCourses(ctx context.Context, courses []domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"institution_id", "name", "code", "program_type", "duration_years", "description", "cutoff_points", "demand_level"}),
		}).
		CreateInBatches(courses, 200).Error
	if err != nil {
		return fmt.Errorf("failed to upsert courses: %w", err)
	}

	return nil
}

// ReplaceRequirements swaps the requirement rows of every course that appears in reqs.
func (r *CourseRepository) ReplaceRequirements(ctx context.Context, reqs []domain.CourseRequirement) error {
	if len(reqs) == 0 {
		return nil
	}

	courseIDs := make([]uint64, 0)
	seen := make(map[uint64]bool)
	for _, req := range reqs {
		if !seen[req.CourseID] {
			seen[req.CourseID] = true
			courseIDs = append(courseIDs, req.CourseID)
		}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id IN ?", courseIDs).Delete(&domain.CourseRequirement{}).Error; err != nil {
			return fmt.Errorf("failed to clear requirements: %w", err)
		}
		if err := tx.CreateInBatches(reqs, 500).Error; err != nil {
			return fmt.Errorf("failed to insert requirements: %w", err)
		}
		return nil
	})
}
