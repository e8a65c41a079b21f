package domain

import "myCourseCompass/business/placement"

type EligibilitySummary struct {
	MeanGrade     string `json:"mean_grade"`
	TotalPoints   int    `json:"total_points"`
	BestPoints    int    `json:"best_points"`
	SubjectCount  int    `json:"subject_count"`
	ProgramType   string `json:"program_type"`
	EligibleCount int    `json:"eligible_count"`
	// subjects whose grade symbol was not recognised and scored 0
	UnknownGrades []string `json:"unknown_grades,omitempty"`
}

type EligibleCourse struct {
	Course
	ClusterPoints *float64 `json:"cluster_points"`
	Gap           float64  `json:"gap"`
}

type EligibilityReport struct {
	ResultID uint64             `json:"result_id,omitempty"`
	Summary  EligibilitySummary `json:"summary"`
	Courses  []EligibleCourse   `json:"courses"`
}

type ClusterReport struct {
	Cluster       string                    `json:"cluster,omitempty"`
	Subjects      []string                  `json:"cluster_subjects"`
	ClusterPoints float64                   `json:"cluster_points"`
	TotalPoints   int                       `json:"total_points"`
	MeanGrade     string                    `json:"mean_grade"`
	Breakdown     []placement.SubjectRecord `json:"breakdown"`
	UnknownGrades []string                  `json:"unknown_grades,omitempty"`
}

type CourseComparison struct {
	Course            Course   `json:"course"`
	MeetsRequirements bool     `json:"meets_requirements"`
	ClusterPoints     *float64 `json:"cluster_points"`
	Gap               float64  `json:"gap"`
}

type Recommendation struct {
	Course
	ClusterPoints float64 `json:"cluster_points"`
	Score         float64 `json:"score"`
}
