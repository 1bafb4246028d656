package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Drill sessions
	SessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goeha_drill_sessions_started_total",
		Help: "Drill sessions that entered the running state.",
	})

	SessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goeha_drill_sessions_completed_total",
		Help: "Drill sessions that ran out of cards.",
	})

	// Answers by result (correct, incorrect, ignored)
	AnswersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goeha_drill_answers_total",
		Help: "Answers submitted to drill sessions by result.",
	}, []string{"result"})

	// External grading latency
	GradingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "goeha_grading_duration_seconds",
		Help:    "Duration of calls to the answer grading service.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	})

	// Word store latency by operation
	StoreOpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goeha_store_op_duration_seconds",
		Help:    "Duration of word store operations.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5},
	}, []string{"op"})

	StoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goeha_store_errors_total",
		Help: "Word store operations that failed by operation.",
	}, []string{"op"})

	SurpriseQuizzesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "goeha_surprise_quizzes_sent_total",
		Help: "Surprise quiz cards sent to users.",
	})
)

// MustRegister registers all collectors with reg
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		SessionsStarted,
		SessionsCompleted,
		AnswersTotal,
		GradingDuration,
		StoreOpDuration,
		StoreErrorsTotal,
		SurpriseQuizzesSent,
	)
}

// Handler serves the collectors registered with reg
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
