package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.results (
//     id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id       BIGINT REFERENCES users(id),
//     program_type  TEXT NOT NULL,
//     results_data  JSONB,
//     summary       JSONB,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Result struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	ProgramType string         `gorm:"column:program_type;type:text;not null" json:"program_type"`
	ResultsData datatypes.JSON `gorm:"column:results_data" json:"results"`
	Summary     datatypes.JSON `gorm:"column:summary" json:"summary"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Result) TableName() string {
	return "results"
}
