package placement

import "fmt"

// ComputeTotal sums the points of every non-empty grade in the set.
func ComputeTotal(gs GradeSet) int {
	total := 0
	for _, sg := range gs {
		if sg.Grade != "" {
			total += PointsOf(sg.Grade)
		}
	}
	return total
}

// MeanGrade buckets totalPoints/subjectCount into a letter grade. Each grade
// starts at its own point value, so a mean of 9.71 is a B.
func MeanGrade(totalPoints, subjectCount int) (string, error) {
	if subjectCount <= 0 {
		return "", fmt.Errorf("%w: subject count must be positive, got %d", ErrInvalidInput, subjectCount)
	}

	mean := float64(totalPoints) / float64(subjectCount)
	for p := MaxPoints; p >= 2; p-- {
		if mean >= float64(p) {
			return pointsGrade[p], nil
		}
	}
	return GradeE, nil
}
