package grade

import (
	"context"
	"fmt"
	"strings"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"
	"myCourseCompass/pkg/logger"

	"gorm.io/datatypes"
)

// GradeRepository contract interface
type GradeRepository interface {
	Create(ctx context.Context, record *domain.GradeRecord) error
	FindByID(ctx context.Context, id uint64) (domain.GradeRecord, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.GradeRecord, error)
	FindLatestByUserID(ctx context.Context, userID uint) (domain.GradeRecord, error)
	Update(ctx context.Context, record *domain.GradeRecord) error
	Delete(ctx context.Context, id uint64) error
}

type gradeService struct {
	gradeRepo GradeRepository
}

func NewGradeService(gradeRepo GradeRepository) *gradeService {
	return &gradeService{
		gradeRepo: gradeRepo,
	}
}

// ValidateGrades reports the subjects whose symbol is not a KCSE grade.
func (s *gradeService) ValidateGrades(grades placement.GradeSet) domain.GradeValidation {
	invalid := grades.UnknownGrades()
	if invalid == nil {
		invalid = []string{}
	}

	return domain.GradeValidation{
		IsValid:         len(invalid) == 0,
		InvalidSubjects: invalid,
	}
}

// fill computes the derived columns of a record from its grades.
func (s *gradeService) fill(record *domain.GradeRecord, grades placement.GradeSet) error {
	if grades.SubjectCount() == 0 {
		return fmt.Errorf("%w: no graded subjects", placement.ErrInvalidInput)
	}

	if v := s.ValidateGrades(grades); !v.IsValid {
		return fmt.Errorf("%w: invalid grades for %s", placement.ErrInvalidInput, strings.Join(v.InvalidSubjects, ", "))
	}

	summary, err := placement.Summarize(grades)
	if err != nil {
		return err
	}

	record.Grades = datatypes.NewJSONType(grades)
	record.MeanGrade = summary.MeanGrade
	record.TotalPoints = summary.TotalPoints
	record.SubjectCount = summary.SubjectCount

	return nil
}

func (s *gradeService) SaveGrades(ctx context.Context, userID uint, grades placement.GradeSet) (domain.GradeRecord, error) {
	record := domain.GradeRecord{UserID: userID}
	if err := s.fill(&record, grades); err != nil {
		logger.Error("Invalid grades", err)
		return domain.GradeRecord{}, err
	}

	if err := s.gradeRepo.Create(ctx, &record); err != nil {
		logger.Error("Failed to save grades", err)
		return domain.GradeRecord{}, err
	}

	return record, nil
}

func (s *gradeService) GetUserGrades(ctx context.Context, userID uint) ([]domain.GradeRecord, error) {
	records, err := s.gradeRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get user grades", err)
		return nil, err
	}

	return records, nil
}

func (s *gradeService) GetLatestGrades(ctx context.Context, userID uint) (domain.GradeRecord, error) {
	record, err := s.gradeRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to get latest grades", err)
		return domain.GradeRecord{}, err
	}

	return record, nil
}

// owned loads a record and hides records of other users behind not found.
func (s *gradeService) owned(ctx context.Context, userID uint, id uint64) (domain.GradeRecord, error) {
	record, err := s.gradeRepo.FindByID(ctx, id)
	if err != nil {
		return domain.GradeRecord{}, err
	}

	if record.UserID != userID {
		return domain.GradeRecord{}, domain.ErrGradeNotFound
	}

	return record, nil
}

func (s *gradeService) UpdateGrades(ctx context.Context, userID uint, id uint64, grades placement.GradeSet) (domain.GradeRecord, error) {
	record, err := s.owned(ctx, userID, id)
	if err != nil {
		logger.Error("Grade record not found for update", err)
		return domain.GradeRecord{}, err
	}

	if err := s.fill(&record, grades); err != nil {
		logger.Error("Invalid grades", err)
		return domain.GradeRecord{}, err
	}

	if err := s.gradeRepo.Update(ctx, &record); err != nil {
		logger.Error("Failed to update grades", err)
		return domain.GradeRecord{}, err
	}

	return record, nil
}

func (s *gradeService) DeleteGrades(ctx context.Context, userID uint, id uint64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		logger.Error("Grade record not found for deletion", err)
		return err
	}

	if err := s.gradeRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete grades", err)
		return err
	}

	return nil
}
