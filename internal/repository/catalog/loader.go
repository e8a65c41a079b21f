package catalog

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"myCourseCompass/business/placement"
	"myCourseCompass/domain"

	"github.com/gocarina/gocsv"
)

type courseRow struct {
	ID            uint64 `csv:"id"`
	InstitutionID uint64 `csv:"institution_id"`
	Name          string `csv:"name"`
	Code          string `csv:"code"`
	ProgramType   string `csv:"program_type"`
	DurationYears string `csv:"duration_years"`
	Description   string `csv:"description"`
	CutoffPoints  string `csv:"cutoff_points"`
	DemandLevel   string `csv:"demand_level"`
}

type requirementRow struct {
	CourseID     uint64 `csv:"course_id"`
	SubjectCode  string `csv:"subject_code"`
	MinimumGrade string `csv:"minimum_grade"`
}

func openCSV(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func LoadInstitutionsFile(path string) ([]domain.Institution, error) {
	var out []domain.Institution
	err := openCSV(path, func(r io.Reader) (err error) {
		out, err = ReadInstitutions(r)
		return err
	})
	return out, err
}

func LoadCoursesFile(path string) ([]domain.Course, error) {
	var out []domain.Course
	err := openCSV(path, func(r io.Reader) (err error) {
		out, err = ReadCourses(r)
		return err
	})
	return out, err
}

func LoadRequirementsFile(path string) ([]domain.CourseRequirement, error) {
	var out []domain.CourseRequirement
	err := openCSV(path, func(r io.Reader) (err error) {
		out, err = ReadRequirements(r)
		return err
	})
	return out, err
}

// ReadInstitutions parses institutions.csv (id,name,code,type,category,county,location).
func ReadInstitutions(r io.Reader) ([]domain.Institution, error) {
	var rows []domain.Institution
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	for i := range rows {
		line := i + 2
		rows[i].Type = strings.ToLower(strings.TrimSpace(rows[i].Type))
		if rows[i].ID == 0 || strings.TrimSpace(rows[i].Name) == "" {
			return nil, fmt.Errorf("line %d: id and name are required", line)
		}
		if !slices.Contains(domain.InstitutionTypes, rows[i].Type) {
			return nil, fmt.Errorf("line %d: unknown institution type %q", line, rows[i].Type)
		}
	}

	return rows, nil
}

// ReadCourses parses courses.csv. Blank cutoff_points and demand_level stay unset.
func ReadCourses(r io.Reader) ([]domain.Course, error) {
	var rows []courseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	courses := make([]domain.Course, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		programType := strings.ToLower(strings.TrimSpace(row.ProgramType))

		if row.ID == 0 || strings.TrimSpace(row.Name) == "" {
			return nil, fmt.Errorf("line %d: id and name are required", line)
		}
		if !slices.Contains(domain.ProgramTypes, programType) {
			return nil, fmt.Errorf("line %d: unknown program type %q", line, row.ProgramType)
		}

		course := domain.Course{
			ID:            row.ID,
			InstitutionID: row.InstitutionID,
			Name:          strings.TrimSpace(row.Name),
			Code:          strings.TrimSpace(row.Code),
			ProgramType:   programType,
			Description:   row.Description,
		}

		if s := strings.TrimSpace(row.DurationYears); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid duration_years: %w", line, err)
			}
			course.DurationYears = v
		}

		if s := strings.TrimSpace(row.CutoffPoints); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid cutoff_points: %w", line, err)
			}
			course.CutoffPoints = &v
		}

		if s := strings.TrimSpace(row.DemandLevel); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 0 || v > 100 {
				return nil, fmt.Errorf("line %d: demand_level must be 0-100, got %q", line, s)
			}
			course.DemandLevel = &v
		}

		courses = append(courses, course)
	}

	return courses, nil
}

// ReadRequirements parses requirements.csv (course_id,subject_code,minimum_grade).
func ReadRequirements(r io.Reader) ([]domain.CourseRequirement, error) {
	var rows []requirementRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	reqs := make([]domain.CourseRequirement, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		subject := strings.ToUpper(strings.TrimSpace(row.SubjectCode))
		grade := strings.ToUpper(strings.TrimSpace(row.MinimumGrade))

		if row.CourseID == 0 || subject == "" {
			return nil, fmt.Errorf("line %d: course_id and subject_code are required", line)
		}
		if !placement.IsValidGrade(grade) {
			return nil, fmt.Errorf("line %d: invalid minimum grade %q", line, row.MinimumGrade)
		}

		reqs = append(reqs, domain.CourseRequirement{
			CourseID:     row.CourseID,
			SubjectCode:  subject,
			MinimumGrade: grade,
		})
	}

	return reqs, nil
}
