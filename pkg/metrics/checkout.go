package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records commit outcomes at the point of sale.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	commits  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_commit_duration_seconds",
		Help:    "Duration of sale commit transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_commits_total",
		Help: "Committed sales by payment method.",
	}, []string{"payment_method"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejections_total",
		Help: "Rejected commits by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, commits, rejected)
	return &CheckoutMetrics{
		duration: duration,
		commits:  commits,
		rejected: rejected,
	}
}

// ObserveCommit records one successful commit and its duration.
func (c *CheckoutMetrics) ObserveCommit(paymentMethod string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	method := normalizeLabel(paymentMethod)
	c.duration.WithLabelValues(method).Observe(duration.Seconds())
	c.commits.WithLabelValues(method).Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
