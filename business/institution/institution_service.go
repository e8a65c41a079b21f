package institution

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"myCourseCompass/business/course"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
)

// InstitutionRepository contract interface
type InstitutionRepository interface {
	FindAll(ctx context.Context, filter domain.InstitutionFilter) ([]domain.Institution, int64, error)
	FindByID(ctx context.Context, id uint64) (domain.Institution, error)
	FindByType(ctx context.Context, institutionType string) ([]domain.Institution, error)
	CountCoursesByProgramType(ctx context.Context, id uint64) (map[string]int64, error)
}

// CourseRepository contract interface
type CourseRepository interface {
	FindAll(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, error)
}

type institutionService struct {
	institutionRepo InstitutionRepository
	courseRepo      CourseRepository
}

func NewInstitutionService(institutionRepo InstitutionRepository, courseRepo CourseRepository) *institutionService {
	return &institutionService{
		institutionRepo: institutionRepo,
		courseRepo:      courseRepo,
	}
}

func (s *institutionService) GetInstitutionTypes() []string {
	return slices.Clone(domain.InstitutionTypes)
}

func (s *institutionService) GetInstitutions(ctx context.Context, filter domain.InstitutionFilter) ([]domain.Institution, domain.Pagination, error) {
	if filter.Type != "" && !slices.Contains(domain.InstitutionTypes, filter.Type) {
		return nil, domain.Pagination{}, fmt.Errorf("%w: unknown institution type %q", domain.ErrInvalidQuery, filter.Type)
	}

	filter.Limit, filter.Offset = course.NormalizePage(filter.Limit, filter.Offset)

	institutions, total, err := s.institutionRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find institutions", err)
		return nil, domain.Pagination{}, err
	}

	return institutions, domain.Pagination{Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *institutionService) GetInstitutionByID(ctx context.Context, id uint64) (domain.Institution, error) {
	institution, err := s.institutionRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find institution", err)
		return domain.Institution{}, err
	}

	return institution, nil
}

func (s *institutionService) GetInstitutionsByType(ctx context.Context, institutionType string) ([]domain.Institution, error) {
	institutionType = strings.ToLower(institutionType)
	if !slices.Contains(domain.InstitutionTypes, institutionType) {
		return nil, fmt.Errorf("%w: unknown institution type %q", domain.ErrInvalidQuery, institutionType)
	}

	institutions, err := s.institutionRepo.FindByType(ctx, institutionType)
	if err != nil {
		logger.Error("Failed to find institutions by type", err)
		return nil, err
	}

	return institutions, nil
}

func (s *institutionService) GetInstitutionCourses(ctx context.Context, id uint64, programType string) ([]domain.Course, error) {
	if _, err := s.institutionRepo.FindByID(ctx, id); err != nil {
		logger.Error("Institution not found", err)
		return nil, err
	}

	if programType != "" && !slices.Contains(domain.ProgramTypes, programType) {
		return nil, fmt.Errorf("%w: unknown program type %q", domain.ErrInvalidQuery, programType)
	}

	courses, _, err := s.courseRepo.FindAll(ctx, domain.CourseFilter{
		InstitutionID: id,
		ProgramType:   programType,
		Limit:         course.MaxPageSize,
	})
	if err != nil {
		logger.Error("Failed to find institution courses", err)
		return nil, err
	}

	return courses, nil
}

func (s *institutionService) GetInstitutionStats(ctx context.Context, id uint64) (domain.InstitutionStats, error) {
	if _, err := s.institutionRepo.FindByID(ctx, id); err != nil {
		logger.Error("Institution not found", err)
		return domain.InstitutionStats{}, err
	}

	counts, err := s.institutionRepo.CountCoursesByProgramType(ctx, id)
	if err != nil {
		logger.Error("Failed to count institution courses", err)
		return domain.InstitutionStats{}, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return domain.InstitutionStats{
		InstitutionID: id,
		CourseCount:   total,
		ByProgramType: counts,
	}, nil
}
