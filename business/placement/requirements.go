package placement

// Requirement is a minimum grade a course demands in one subject.
type Requirement struct {
	SubjectCode  string `json:"subject_code"`
	MinimumGrade string `json:"minimum_grade"`
}

// MeetsRequirements reports whether every requirement is met. No requirements
// means any candidate qualifies; a required subject that was not sat fails.
func MeetsRequirements(gs GradeSet, requirements []Requirement) bool {
	for _, req := range requirements {
		grade, ok := gs.Grade(req.SubjectCode)
		if !ok || grade == "" {
			return false
		}
		if PointsOf(grade) < PointsOf(req.MinimumGrade) {
			return false
		}
	}
	return true
}

// ClusterSubjects returns the subject codes of the requirements in order, without repeats.
func ClusterSubjects(requirements []Requirement) []string {
	out := make([]string, 0, len(requirements))
	seen := make(map[string]struct{}, len(requirements))
	for _, req := range requirements {
		if _, dup := seen[req.SubjectCode]; dup {
			continue
		}
		seen[req.SubjectCode] = struct{}{}
		out = append(out, req.SubjectCode)
	}
	return out
}
