package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Calculations served, by operation (eligibility, cluster_points, compare, recommendations).
	CalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placement_calculations_total",
		Help: "Total number of placement calculations served",
	}, []string{"operation"})

	CalculationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_calculation_duration_seconds",
		Help:    "Latency of placement calculations including catalog reads",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Grade symbols that were not on the scale and were scored as 0.
	UnknownGradesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_unknown_grades_total",
		Help: "Grade symbols outside the KCSE scale that were scored as zero points",
	})

	InsufficientSubjectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_insufficient_subjects_total",
		Help: "Calculations rejected for having too few graded subjects",
	})

	CatalogCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_lookups_total",
		Help: "Course catalog cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	PaymentWebhookEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_webhook_events_total",
		Help: "Payment provider webhook events by event type",
	}, []string{"event"})
)

func Init() {
	prometheus.MustRegister(
		CalculationsTotal,
		CalculationDuration,
		UnknownGradesTotal,
		InsufficientSubjectsTotal,
		CatalogCacheLookups,
		PaymentWebhookEvents,
	)
}
