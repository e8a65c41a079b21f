package placement

import (
	"slices"
	"sort"
)

// DefaultBestCount is the number of subjects a KCSE mean grade is computed over.
const DefaultBestCount = 7

// SubjectRecord is a graded subject resolved to points.
type SubjectRecord struct {
	Subject   string `json:"subject"`
	Grade     string `json:"grade"`
	Points    int    `json:"points"`
	InCluster bool   `json:"in_cluster"`
}

// Breakdown resolves every non-empty subject to points and sorts them by points,
// highest first. Equal points keep entry order.
func Breakdown(gs GradeSet, clusterSubjects []string) []SubjectRecord {
	records := make([]SubjectRecord, 0, len(gs))
	for _, sg := range gs {
		if sg.Grade == "" {
			continue
		}
		records = append(records, SubjectRecord{
			Subject:   sg.Subject,
			Grade:     sg.Grade,
			Points:    PointsOf(sg.Grade),
			InCluster: slices.Contains(clusterSubjects, sg.Subject),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Points > records[j].Points
	})

	return records
}

// SelectBest returns up to n subjects with the most points. Fewer than n are
// returned when fewer subjects were sat; enforcing a minimum is up to the caller.
func SelectBest(gs GradeSet, n int) []SubjectRecord {
	records := Breakdown(gs, nil)
	if n < 0 {
		n = 0
	}
	if len(records) > n {
		records = records[:n]
	}
	return records
}

// TotalOf sums the points of already resolved records.
func TotalOf(records []SubjectRecord) int {
	total := 0
	for _, r := range records {
		total += r.Points
	}
	return total
}
