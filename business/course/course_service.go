package course

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	minSearchLength = 2
)

// CourseRepository contract interface
type CourseRepository interface {
	FindAll(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, error)
	FindByID(ctx context.Context, id uint64) (domain.Course, error)
	FindByProgramType(ctx context.Context, programType string) ([]domain.Course, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Course, error)
}

type courseService struct {
	courseRepo CourseRepository
}

func NewCourseService(courseRepo CourseRepository) *courseService {
	return &courseService{
		courseRepo: courseRepo,
	}
}

// NormalizePage clamps limit and offset to sane values.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	offset = max(offset, 0)
	return limit, offset
}

func (s *courseService) GetCourses(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, domain.Pagination, error) {
	if filter.ProgramType != "" && !slices.Contains(domain.ProgramTypes, filter.ProgramType) {
		return nil, domain.Pagination{}, fmt.Errorf("%w: unknown program type %q", domain.ErrInvalidQuery, filter.ProgramType)
	}

	if filter.MinCutoff != nil && filter.MaxCutoff != nil && *filter.MinCutoff > *filter.MaxCutoff {
		return nil, domain.Pagination{}, fmt.Errorf("%w: min_cutoff is greater than max_cutoff", domain.ErrInvalidQuery)
	}

	filter.Limit, filter.Offset = NormalizePage(filter.Limit, filter.Offset)

	courses, total, err := s.courseRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find courses", err)
		return nil, domain.Pagination{}, err
	}

	return courses, domain.Pagination{Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *courseService) GetCourseByID(ctx context.Context, id uint64) (domain.Course, error) {
	if id == 0 {
		return domain.Course{}, fmt.Errorf("%w: invalid course id", domain.ErrInvalidQuery)
	}

	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find course", err)
		return domain.Course{}, err
	}

	return course, nil
}

func (s *courseService) GetCoursesByProgramType(ctx context.Context, programType string) ([]domain.Course, error) {
	programType = strings.ToLower(programType)
	if !slices.Contains(domain.ProgramTypes, programType) {
		return nil, fmt.Errorf("%w: unknown program type %q", domain.ErrInvalidQuery, programType)
	}

	courses, err := s.courseRepo.FindByProgramType(ctx, programType)
	if err != nil {
		logger.Error("Failed to find courses by program type", err)
		return nil, err
	}

	return courses, nil
}

func (s *courseService) SearchCourses(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters", domain.ErrInvalidQuery, minSearchLength)
	}

	limit, _ = NormalizePage(limit, 0)

	courses, err := s.courseRepo.Search(ctx, query, limit)
	if err != nil {
		logger.Error("Failed to search courses", err)
		return nil, err
	}

	return courses, nil
}
