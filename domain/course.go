package domain

import "time"

// CREATE TABLE public.courses (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     institution_id  BIGINT REFERENCES institutions(id),
//     name            TEXT NOT NULL,
//     code            TEXT,
//     program_type    TEXT NOT NULL,
//     duration_years  NUMERIC,
//     description     TEXT,
//     cutoff_points   NUMERIC,
//     demand_level    INT DEFAULT 50,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );
//
// CREATE TABLE public.course_requirements (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     course_id      BIGINT REFERENCES courses(id) ON DELETE CASCADE,
//     subject_code   TEXT NOT NULL,
//     minimum_grade  TEXT NOT NULL
// );

const (
	ProgramDegree      = "degree"
	ProgramDiploma     = "diploma"
	ProgramCertificate = "certificate"
	ProgramKMTC        = "kmtc"
)

var ProgramTypes = []string{ProgramDegree, ProgramDiploma, ProgramCertificate, ProgramKMTC}

type Course struct {
	ID            uint64              `gorm:"primaryKey;autoIncrement" json:"id"`
	InstitutionID uint64              `gorm:"column:institution_id;index" json:"institution_id"`
	Institution   *Institution        `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	Name          string              `gorm:"column:name;type:text;not null" json:"name"`
	Code          string              `gorm:"column:code;type:text;index" json:"code"`
	ProgramType   string              `gorm:"column:program_type;type:text;not null;index" json:"program_type"`
	DurationYears float64             `gorm:"column:duration_years;type:numeric" json:"duration_years"`
	Description   string              `gorm:"column:description;type:text" json:"description,omitempty"`
	CutoffPoints  *float64            `gorm:"column:cutoff_points;type:numeric" json:"cutoff_points"`
	DemandLevel   *int                `gorm:"column:demand_level;default:50" json:"demand_level"`
	Requirements  []CourseRequirement `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"requirements,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at" json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseRequirement struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	CourseID     uint64 `gorm:"column:course_id;not null;index" json:"-"`
	SubjectCode  string `gorm:"column:subject_code;type:text;not null" json:"subject_code"`
	MinimumGrade string `gorm:"column:minimum_grade;type:text;not null" json:"minimum_grade"`
}

func (CourseRequirement) TableName() string {
	return "course_requirements"
}

type CourseFilter struct {
	ProgramType   string
	InstitutionID uint64
	Institution   string
	Search        string
	MinCutoff     *float64
	MaxCutoff     *float64
	Limit         int
	Offset        int
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
