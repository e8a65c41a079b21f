package placement

// Cluster formula weights. 48 points for the cluster subjects and 36 for
// overall performance, over an 84 point scale.
const (
	clusterWeight    = 48.0
	generalWeight    = 36.0
	weightNormalizer = 84.0
)

// ClusterPoints blends the average of the cluster subjects the candidate sat with
// the average over all subjects (total / 7, cluster subjects included):
//
//	(clusterAverage*48 + totalAverage*36) / 84
//
// Cluster subjects the candidate did not sit are skipped; with none present the
// cluster average is 0. The result is not rounded.
func ClusterPoints(gs GradeSet, clusterSubjects []string) float64 {
	clusterTotal := 0
	clusterCount := 0

	for _, code := range clusterSubjects {
		grade, ok := gs.Grade(code)
		if !ok || grade == "" {
			continue
		}
		clusterTotal += PointsOf(grade)
		clusterCount++
	}

	clusterAverage := 0.0
	if clusterCount > 0 {
		clusterAverage = float64(clusterTotal) / float64(clusterCount)
	}
	totalAverage := float64(ComputeTotal(gs)) / DefaultBestCount

	return (clusterAverage*clusterWeight + totalAverage*generalWeight) / weightNormalizer
}
