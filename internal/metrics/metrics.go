package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters exposed on /metrics alongside the default collectors.
var (
	QuizzesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_quizzes_generated_total",
		Help: "Quizzes generated, by subject and level.",
	}, []string{"subject", "level"})

	ResultsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_results_recorded_total",
		Help: "Quiz results accepted and persisted.",
	})

	SummaryRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_summary_refreshes_total",
		Help: "Summary cache refreshes performed by the worker.",
	})
)
