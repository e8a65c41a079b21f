package domain

import "time"

// CREATE TABLE public.institutions (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name        TEXT NOT NULL,
//     code        TEXT UNIQUE,
//     type        TEXT NOT NULL,
//     category    TEXT,
//     county      TEXT,
//     location    TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

const (
	InstitutionUniversity          = "university"
	InstitutionKMTC                = "kmtc"
	InstitutionTTC                 = "ttc"
	InstitutionTVET                = "tvet"
	InstitutionNationalPolytechnic = "national_polytechnic"
)

var InstitutionTypes = []string{
	InstitutionUniversity,
	InstitutionKMTC,
	InstitutionTTC,
	InstitutionTVET,
	InstitutionNationalPolytechnic,
}

type Institution struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id" csv:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name" csv:"name"`
	Code      string    `gorm:"column:code;type:text;uniqueIndex" json:"code" csv:"code"`
	Type      string    `gorm:"column:type;type:text;not null;index" json:"type" csv:"type"`
	Category  string    `gorm:"column:category;type:text" json:"category,omitempty" csv:"category"`
	County    string    `gorm:"column:county;type:text" json:"county,omitempty" csv:"county"`
	Location  string    `gorm:"column:location;type:text" json:"location,omitempty" csv:"location"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at" csv:"-"`
}

func (Institution) TableName() string {
	return "institutions"
}

type InstitutionFilter struct {
	Type     string
	Category string
	County   string
	Search   string
	Limit    int
	Offset   int
}

type InstitutionStats struct {
	InstitutionID uint64           `json:"institution_id"`
	CourseCount   int64            `json:"course_count"`
	ByProgramType map[string]int64 `json:"by_program_type"`
}
