//go:build !integration

package institution

import (
	"context"
	"errors"
	"testing"

	"myCourseCompass/domain"
)

type fakeInstitutionRepo struct {
	institutions []domain.Institution
	counts       map[string]int64
}

func (f *fakeInstitutionRepo) FindAll(ctx context.Context, filter domain.InstitutionFilter) ([]domain.Institution, int64, error) {
	return f.institutions, int64(len(f.institutions)), nil
}

func (f *fakeInstitutionRepo) FindByID(ctx context.Context, id uint64) (domain.Institution, error) {
	for _, i := range f.institutions {
		if i.ID == id {
			return i, nil
		}
	}
	return domain.Institution{}, domain.ErrInstitutionNotFound
}

func (f *fakeInstitutionRepo) FindByType(ctx context.Context, institutionType string) ([]domain.Institution, error) {
	var out []domain.Institution
	for _, i := range f.institutions {
		if i.Type == institutionType {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeInstitutionRepo) CountCoursesByProgramType(ctx context.Context, id uint64) (map[string]int64, error) {
	return f.counts, nil
}

type fakeCourseRepo struct {
	lastFilter domain.CourseFilter
}

func (f *fakeCourseRepo) FindAll(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, int64, error) {
	f.lastFilter = filter
	return []domain.Course{{ID: 5, InstitutionID: filter.InstitutionID}}, 1, nil
}

func newTestService() (*institutionService, *fakeCourseRepo) {
	courses := &fakeCourseRepo{}
	return NewInstitutionService(&fakeInstitutionRepo{
		institutions: []domain.Institution{
			{ID: 1, Name: "University of Nairobi", Type: domain.InstitutionUniversity},
			{ID: 2, Name: "KMTC Nairobi", Type: domain.InstitutionKMTC},
		},
		counts: map[string]int64{domain.ProgramDegree: 3, domain.ProgramDiploma: 2},
	}, courses), courses
}

func TestGetInstitutionsByType(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.GetInstitutionsByType(context.Background(), "KMTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("institutions = %+v", got)
	}

	if _, err := svc.GetInstitutionsByType(context.Background(), "college"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("err = %v, want invalid query", err)
	}
}

func TestGetInstitutionCourses(t *testing.T) {
	svc, courses := newTestService()

	got, err := svc.GetInstitutionCourses(context.Background(), 1, domain.ProgramDegree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || courses.lastFilter.InstitutionID != 1 || courses.lastFilter.ProgramType != domain.ProgramDegree {
		t.Errorf("filter = %+v", courses.lastFilter)
	}

	if _, err := svc.GetInstitutionCourses(context.Background(), 99, ""); !errors.Is(err, domain.ErrInstitutionNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestGetInstitutionStats(t *testing.T) {
	svc, _ := newTestService()

	stats, err := svc.GetInstitutionStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CourseCount != 5 || stats.ByProgramType[domain.ProgramDegree] != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGetInstitutionTypesIsACopy(t *testing.T) {
	svc, _ := newTestService()

	types := svc.GetInstitutionTypes()
	types[0] = "changed"

	if domain.InstitutionTypes[0] != domain.InstitutionUniversity {
		t.Error("GetInstitutionTypes leaked the package slice")
	}
}

func TestGetInstitutionsRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.GetInstitutions(context.Background(), domain.InstitutionFilter{Type: "academy"})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("err = %v, want invalid query", err)
	}
}
