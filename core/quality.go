package core

import "time"

// Weights for the aggregate quality score. They sum to 1.0, so the score
// stays in [0,1] for metrics in [0,1].
const (
	weightReliability  = 0.30
	weightRelevance    = 0.25
	weightRecency      = 0.15
	weightAuthority    = 0.20
	weightCompleteness = 0.10
)

// QualityScore computes the aggregate quality of a document from its
// metrics. The function is pure: fixed inputs always produce the same
// output.
func QualityScore(m QualityMetrics) float64 {
	return weightReliability*m.Reliability +
		weightRelevance*m.Relevance +
		weightRecency*m.Recency +
		weightAuthority*m.Authority +
		weightCompleteness*m.Completeness
}

// RecencyFromAge maps a publication date to a recency metric using linear
// decay over one year: max(0, 1 - ageInDays/365).
// A zero publication date yields a neutral 0.5 since age is unknown.
func RecencyFromAge(published, now time.Time) float64 {
	if published.IsZero() {
		return 0.5
	}
	ageDays := now.Sub(published).Hours() / 24
	recency := 1 - ageDays/365
	if recency < 0 {
		return 0
	}
	if recency > 1 {
		return 1
	}
	return recency
}

// Clamp01 bounds a value to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
