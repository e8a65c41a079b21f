package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/clusters"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/metrics"

	"gorm.io/datatypes"
)

// MaxRecommendationLimit caps the limit a caller may ask for.
const MaxRecommendationLimit = 50

const (
	opEligibility     = "eligibility"
	opClusterPoints   = "cluster_points"
	opCompare         = "compare"
	opRecommendations = "recommendations"
)

// CourseCatalog contract interface. Courses come back with their requirements
// loaded, ordered by course name.
type CourseCatalog interface {
	FindWithRequirementsByProgramType(ctx context.Context, programType string) ([]domain.Course, error)
	FindWithRequirementsByIDs(ctx context.Context, ids []uint64) ([]domain.Course, error)
	FindAllWithRequirements(ctx context.Context) ([]domain.Course, error)
}

// ResultRepository contract interface
type ResultRepository interface {
	Create(ctx context.Context, result *domain.Result) error
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Result, error)
}

// ClusterRegistry contract interface
type ClusterRegistry interface {
	Get(name string) (clusters.Cluster, error)
}

type calculationService struct {
	catalog             CourseCatalog
	resultRepo          ResultRepository
	clusterRegistry     ClusterRegistry
	minSubjects         int
	recommendationLimit int
}

func NewCalculationService(
	catalog CourseCatalog,
	resultRepo ResultRepository,
	clusterRegistry ClusterRegistry,
	minSubjects int,
	recommendationLimit int,
) *calculationService {
	if minSubjects <= 0 {
		minSubjects = placement.DefaultBestCount
	}
	if recommendationLimit <= 0 {
		recommendationLimit = placement.DefaultTopK
	}

	return &calculationService{
		catalog:             catalog,
		resultRepo:          resultRepo,
		clusterRegistry:     clusterRegistry,
		minSubjects:         minSubjects,
		recommendationLimit: recommendationLimit,
	}
}

// prepare enforces the minimum subject count for operations that report a
// mean grade, then summarizes.
func (s *calculationService) prepare(op string, grades placement.GradeSet) (placement.Summary, []string, error) {
	if count := grades.SubjectCount(); count < s.minSubjects {
		metrics.InsufficientSubjectsTotal.Inc()
		return placement.Summary{}, nil, fmt.Errorf("%w: got %d, need at least %d", placement.ErrInsufficientSubjects, count, s.minSubjects)
	}

	unknown := reportUnknown(op, grades)

	summary, err := placement.Summarize(grades)
	if err != nil {
		return placement.Summary{}, nil, err
	}

	return summary, unknown, nil
}

// reportUnknown logs and counts grade symbols that score zero.
func reportUnknown(op string, grades placement.GradeSet) []string {
	unknown := grades.UnknownGrades()
	for _, subject := range unknown {
		symbol, _ := grades.Grade(subject)
		logger.Warn("Unknown grade symbol scored as zero", "operation", op, "subject", subject, "grade", symbol)
	}
	if len(unknown) > 0 {
		metrics.UnknownGradesTotal.Add(float64(len(unknown)))
	}
	return unknown
}

func observe(op string, start time.Time) {
	metrics.CalculationsTotal.WithLabelValues(op).Inc()
	metrics.CalculationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func toPlacementCourse(c domain.Course) placement.Course {
	return placement.Course{
		ID:           c.ID,
		CutoffPoints: c.CutoffPoints,
		DemandLevel:  c.DemandLevel,
	}
}

func toRequirements(reqs []domain.CourseRequirement) []placement.Requirement {
	out := make([]placement.Requirement, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, placement.Requirement{
			SubjectCode:  r.SubjectCode,
			MinimumGrade: r.MinimumGrade,
		})
	}
	return out
}

func validProgramType(programType string) bool {
	return slices.Contains(domain.ProgramTypes, programType)
}

func (s *calculationService) CheckEligibility(ctx context.Context, userID uint, grades placement.GradeSet, programType string) (domain.EligibilityReport, error) {
	defer observe(opEligibility, time.Now())

	if !validProgramType(programType) {
		return domain.EligibilityReport{}, fmt.Errorf("%w: unknown program type %q", placement.ErrInvalidInput, programType)
	}

	summary, unknown, err := s.prepare(opEligibility, grades)
	if err != nil {
		return domain.EligibilityReport{}, err
	}

	courses, err := s.catalog.FindWithRequirementsByProgramType(ctx, programType)
	if err != nil {
		logger.Error("Failed to load courses for eligibility", err)
		return domain.EligibilityReport{}, err
	}

	eligible := make([]domain.EligibleCourse, 0)
	for _, course := range courses {
		res := placement.Evaluate(grades, toPlacementCourse(course), toRequirements(course.Requirements))
		if !res.Eligible {
			continue
		}
		eligible = append(eligible, domain.EligibleCourse{
			Course:        course,
			ClusterPoints: res.ClusterPoints,
			Gap:           res.Gap,
		})
	}

	report := domain.EligibilityReport{
		Summary: domain.EligibilitySummary{
			MeanGrade:     summary.MeanGrade,
			TotalPoints:   summary.TotalPoints,
			BestPoints:    summary.BestPoints,
			SubjectCount:  summary.SubjectCount,
			ProgramType:   programType,
			EligibleCount: len(eligible),
			UnknownGrades: unknown,
		},
		Courses: eligible,
	}

	if userID > 0 {
		resultID, err := s.saveResult(ctx, userID, report)
		if err != nil {
			// the report is still valid without a history entry
			logger.Warn("Failed to save eligibility result", err)
		}
		report.ResultID = resultID
	}

	return report, nil
}

func (s *calculationService) saveResult(ctx context.Context, userID uint, report domain.EligibilityReport) (uint64, error) {
	coursesJSON, err := json.Marshal(report.Courses)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal eligible courses: %w", err)
	}

	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal summary: %w", err)
	}

	result := domain.Result{
		UserID:      userID,
		ProgramType: report.Summary.ProgramType,
		ResultsData: datatypes.JSON(coursesJSON),
		Summary:     datatypes.JSON(summaryJSON),
	}

	if err := s.resultRepo.Create(ctx, &result); err != nil {
		return 0, err
	}

	return result.ID, nil
}

// ClusterPoints computes cluster points over an explicit subject list, or over
// a named cluster when cluster is set.
func (s *calculationService) ClusterPoints(ctx context.Context, grades placement.GradeSet, subjects []string, cluster string) (domain.ClusterReport, error) {
	defer observe(opClusterPoints, time.Now())

	if err := ctx.Err(); err != nil {
		return domain.ClusterReport{}, fmt.Errorf("context error: %w", err)
	}

	if cluster != "" {
		def, err := s.clusterRegistry.Get(cluster)
		if err != nil {
			if errors.Is(err, clusters.ErrClusterNotFound) {
				return domain.ClusterReport{}, fmt.Errorf("%w: %v", placement.ErrInvalidInput, err)
			}
			return domain.ClusterReport{}, err
		}
		cluster = def.Name
		subjects = def.Subjects
	}

	if len(subjects) == 0 {
		return domain.ClusterReport{}, fmt.Errorf("%w: cluster subjects are required", placement.ErrInvalidInput)
	}

	summary, unknown, err := s.prepare(opClusterPoints, grades)
	if err != nil {
		return domain.ClusterReport{}, err
	}

	return domain.ClusterReport{
		Cluster:       cluster,
		Subjects:      subjects,
		ClusterPoints: placement.ClusterPoints(grades, subjects),
		TotalPoints:   summary.TotalPoints,
		MeanGrade:     summary.MeanGrade,
		Breakdown:     placement.Breakdown(grades, subjects),
		UnknownGrades: unknown,
	}, nil
}

// Compare evaluates the given courses side by side, in the order asked for.
// Ids that do not resolve to a course are skipped.
func (s *calculationService) Compare(ctx context.Context, grades placement.GradeSet, courseIDs []uint64) ([]domain.CourseComparison, error) {
	defer observe(opCompare, time.Now())

	if len(courseIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one course id is required", placement.ErrInvalidInput)
	}

	reportUnknown(opCompare, grades)

	courses, err := s.catalog.FindWithRequirementsByIDs(ctx, courseIDs)
	if err != nil {
		logger.Error("Failed to load courses for comparison", err)
		return nil, err
	}

	byID := make(map[uint64]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	comparisons := make([]domain.CourseComparison, 0, len(courseIDs))
	seen := make(map[uint64]bool, len(courseIDs))
	for _, id := range courseIDs {
		course, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true

		res := placement.Evaluate(grades, toPlacementCourse(course), toRequirements(course.Requirements))
		comparisons = append(comparisons, domain.CourseComparison{
			Course:            course,
			MeetsRequirements: res.Eligible,
			ClusterPoints:     res.ClusterPoints,
			Gap:               res.Gap,
		})
	}

	if len(comparisons) == 0 {
		return nil, domain.ErrCourseNotFound
	}

	return comparisons, nil
}

// Recommend ranks every course the grades qualify for. An empty programType
// searches the whole catalog.
func (s *calculationService) Recommend(ctx context.Context, grades placement.GradeSet, programType string, limit int) ([]domain.Recommendation, error) {
	defer observe(opRecommendations, time.Now())

	if programType != "" && !validProgramType(programType) {
		return nil, fmt.Errorf("%w: unknown program type %q", placement.ErrInvalidInput, programType)
	}

	if limit <= 0 {
		limit = s.recommendationLimit
	}
	limit = min(limit, MaxRecommendationLimit)

	reportUnknown(opRecommendations, grades)

	var (
		courses []domain.Course
		err     error
	)
	if programType == "" {
		courses, err = s.catalog.FindAllWithRequirements(ctx)
	} else {
		courses, err = s.catalog.FindWithRequirementsByProgramType(ctx, programType)
	}
	if err != nil {
		logger.Error("Failed to load courses for recommendations", err)
		return nil, err
	}

	byID := make(map[uint64]domain.Course, len(courses))
	candidates := make([]placement.Candidate, 0, len(courses))
	for _, course := range courses {
		reqs := toRequirements(course.Requirements)
		if !placement.MeetsRequirements(grades, reqs) {
			continue
		}
		byID[course.ID] = course
		candidates = append(candidates, placement.Candidate{
			Course:        toPlacementCourse(course),
			ClusterPoints: placement.ClusterPoints(grades, placement.ClusterSubjects(reqs)),
		})
	}

	ranked := placement.Rank(candidates, limit)

	recommendations := make([]domain.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recommendations = append(recommendations, domain.Recommendation{
			Course:        byID[r.Course.ID],
			ClusterPoints: r.ClusterPoints,
			Score:         r.Score,
		})
	}

	return recommendations, nil
}

func (s *calculationService) History(ctx context.Context, userID uint, limit int) ([]domain.Result, error) {
	results, err := s.resultRepo.FindByUserID(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to get calculation history", err)
		return nil, err
	}

	return results, nil
}
