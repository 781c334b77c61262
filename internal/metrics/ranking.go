package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ranking Prometheus metrics, labelled by direction
// (project_professionals, professional_projects, report_professionals).
var (
	RankingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alkarama",
			Name:      "rankings_total",
			Help:      "Total number of ranking computations",
		},
		[]string{"direction"},
	)

	RankingCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alkarama",
			Name:      "ranking_candidates",
			Help:      "Number of candidates scored per ranking",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"direction"},
	)

	RankingResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alkarama",
			Name:      "ranking_results",
			Help:      "Number of candidates kept per ranking",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"direction"},
	)

	RankingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "alkarama",
			Name:      "ranking_duration_seconds",
			Help:      "Ranking duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"direction"},
	)
)

func init() {
	prometheus.MustRegister(RankingsTotal, RankingCandidates, RankingResults, RankingDuration)
}

// RankingRecorder reports ranking work to the ranking metrics.
type RankingRecorder struct{}

// NewRankingRecorder returns a recorder backed by the default registry.
func NewRankingRecorder() RankingRecorder {
	return RankingRecorder{}
}

// ObserveRanking records one ranking computation.
func (RankingRecorder) ObserveRanking(direction string, candidates, results int, elapsed time.Duration) {
	RankingsTotal.WithLabelValues(direction).Inc()
	RankingCandidates.WithLabelValues(direction).Observe(float64(candidates))
	RankingResults.WithLabelValues(direction).Observe(float64(results))
	RankingDuration.WithLabelValues(direction).Observe(elapsed.Seconds())
}
