package placement

// EligibilityResult is the verdict for one course.
type EligibilityResult struct {
	CourseID uint64 `json:"course_id"`
	Eligible bool   `json:"eligible"`
	// always set; a course without requirements is scored on the general component alone
	ClusterPoints *float64 `json:"cluster_points"`
	Gap           float64  `json:"gap"`
}

// Evaluate checks a course's requirements and computes cluster points over the
// required subjects. Gap is cluster points minus cutoff (a missing cutoff is 0).
func Evaluate(gs GradeSet, course Course, requirements []Requirement) EligibilityResult {
	cp := ClusterPoints(gs, ClusterSubjects(requirements))

	return EligibilityResult{
		CourseID:      course.ID,
		Eligible:      MeetsRequirements(gs, requirements),
		ClusterPoints: &cp,
		Gap:           cp - course.cutoff(),
	}
}

// Summary is the overall result for a set of grades.
type Summary struct {
	TotalPoints  int             `json:"total_points"`
	BestPoints   int             `json:"best_points"`
	SubjectCount int             `json:"subject_count"`
	MeanGrade    string          `json:"mean_grade"`
	BestSubjects []SubjectRecord `json:"best_subjects"`
}

// Summarize picks the best seven subjects and grades their mean. TotalPoints
// covers every subject sat. Callers that need a full set must check
// SubjectCount themselves.
func Summarize(gs GradeSet) (Summary, error) {
	best := SelectBest(gs, DefaultBestCount)
	bestPoints := TotalOf(best)

	mean, err := MeanGrade(bestPoints, DefaultBestCount)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalPoints:  ComputeTotal(gs),
		BestPoints:   bestPoints,
		SubjectCount: gs.SubjectCount(),
		MeanGrade:    mean,
		BestSubjects: best,
	}, nil
}
