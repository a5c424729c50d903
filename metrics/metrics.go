// Package metrics exposes Prometheus metrics for calculations and reviews.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/generic"
)

// Metrics holds the benefit engine's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Decisions by category and method
	Calculations *prometheus.CounterVec

	// Calculations that produced no decision
	CalculationErrors prometheus.Counter

	// Review outcomes by specialization and result
	Reviews *prometheus.CounterVec

	// Daily rates handed out, in NOK
	DailyRate prometheus.Histogram

	// Grunnbeløp fetch latency by source and result
	BaselineFetch *prometheus.HistogramVec
}

// New registers all collectors with reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dagpenger_calculations_total",
			Help: "Decisions produced by the calculator, by category and method",
		}, []string{"category", "method"}),

		CalculationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "dagpenger_calculation_errors_total",
			Help: "Calculations aborted without a decision",
		}),

		Reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dagpenger_reviews_total",
			Help: "Caseworker review attempts by specialization and result",
		}, []string{"specialization", "result"}), // result: "approved", "denied", "mismatch", "error"

		DailyRate: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dagpenger_daily_rate_nok",
			Help:    "Daily rates of approved decisions",
			Buckets: []float64{250, 500, 750, 1000, 1500, 2000, 2500, 3000},
		}),

		BaselineFetch: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dagpenger_grunnbelop_fetch_duration_seconds",
			Help:    "Duration of the grunnbeløp lookup by source",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source", "result"}),
	}
}

// ObserveDecision records a calculated decision, or a failed calculation when
// err is set.
func (m *Metrics) ObserveDecision(d *dagpenger.Decision, err error) {
	if m == nil {
		return
	}
	if err != nil || d == nil {
		m.CalculationErrors.Inc()
		return
	}
	method := string(d.Method())
	if method == "" {
		method = "none"
	}
	m.Calculations.WithLabelValues(string(d.Category()), method).Inc()
	if d.Category() != dagpenger.CategoryDeniedLowIncome {
		m.DailyRate.Observe(d.Rate().Float64())
	}
}

// ObserveReview implements saksbehandler.ReviewObserver.
func (m *Metrics) ObserveReview(specialization dagpenger.Category, status dagpenger.ReviewStatus, err error) {
	if m == nil {
		return
	}
	result := string(status)
	switch {
	case errors.Is(err, generic.ErrCategoryMismatch):
		result = "mismatch"
	case err != nil:
		result = "error"
	}
	m.Reviews.WithLabelValues(string(specialization), result).Inc()
}

// ObserveBaselineFetch implements grunnbelop.FetchObserver.
func (m *Metrics) ObserveBaselineFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BaselineFetch.WithLabelValues(source, result).Observe(d.Seconds())
}
