package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records outcomes and latency for the payment gateway.
type PaymentMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Payment attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(attempts, duration)
	return &PaymentMetrics{
		attempts: attempts,
		duration: duration,
	}
}

// ObserveAttempt records one gateway call with its outcome and duration.
func (p *PaymentMetrics) ObserveAttempt(outcome string, duration time.Duration) {
	if p == nil {
		return
	}
	label := normalizeLabel(outcome)
	if p.attempts != nil {
		p.attempts.WithLabelValues(label).Inc()
	}
	if p.duration != nil {
		p.duration.WithLabelValues(label).Observe(duration.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
