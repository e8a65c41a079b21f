package placement

import "sort"

const (
	// DefaultTopK is the number of recommendations returned when no limit is given.
	DefaultTopK = 10
	// DefaultDemandLevel is assumed for courses without a published demand level.
	DefaultDemandLevel = 50
)

// Course carries the fields of a catalog course the engine reads. Everything
// else about a course stays with the caller.
type Course struct {
	ID           uint64
	CutoffPoints *float64
	DemandLevel  *int
}

func (c Course) cutoff() float64 {
	if c.CutoffPoints == nil {
		return 0
	}
	return *c.CutoffPoints
}

func (c Course) demand() int {
	if c.DemandLevel == nil {
		return DefaultDemandLevel
	}
	return *c.DemandLevel
}

// Candidate is a course the candidate already qualifies for, with their cluster points for it.
type Candidate struct {
	Course        Course
	ClusterPoints float64
}

// Ranked is a scored candidate.
type Ranked struct {
	Candidate
	Score float64
}

// RecommendationScore rewards clearing the cutoff and favours less contested courses:
//
//	(clusterPoints - cutoff)*10 + ((100 - demand)/100)*5
func RecommendationScore(clusterPoints float64, course Course) float64 {
	pointsDiff := clusterPoints - course.cutoff()
	demandFactor := float64(100-course.demand()) / 100

	return pointsDiff*10 + demandFactor*5
}

// Rank scores the candidates and returns the best topK, highest score first.
// Equal scores keep input order. The whole list is sorted before truncating.
// topK <= 0 means DefaultTopK.
func Rank(candidates []Candidate, topK int) []Ranked {
	if topK <= 0 {
		topK = DefaultTopK
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Ranked{
			Candidate: c,
			Score:     RecommendationScore(c.ClusterPoints, c.Course),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
