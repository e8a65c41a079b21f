package domain

import (
	"time"

	"myCourseCompass/business/placement"

	"gorm.io/datatypes"
)

// CREATE TABLE public.grades (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id        BIGINT REFERENCES users(id),
//     grades_data    JSONB NOT NULL,
//     mean_grade     TEXT,
//     total_points   INT,
//     subject_count  INT,
//     created_at     TIMESTAMPTZ DEFAULT NOW(),
//     updated_at     TIMESTAMPTZ DEFAULT NOW()
// );

type GradeRecord struct {
	ID           uint64                                 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint                                   `gorm:"column:user_id;not null;index" json:"user_id"`
	Grades       datatypes.JSONType[placement.GradeSet] `gorm:"column:grades_data" json:"grades"`
	MeanGrade    string                                 `gorm:"column:mean_grade;type:text" json:"mean_grade"`
	TotalPoints  int                                    `gorm:"column:total_points" json:"total_points"`
	SubjectCount int                                    `gorm:"column:subject_count" json:"subject_count"`
	CreatedAt    time.Time                              `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time                              `gorm:"column:updated_at" json:"updated_at"`
}

func (GradeRecord) TableName() string {
	return "grades"
}

type GradeValidation struct {
	IsValid         bool     `json:"is_valid"`
	InvalidSubjects []string `json:"invalid_subjects"`
}
