package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/perbu/faqchat/pkg/chat"
)

// Outcome labels besides the chat sources
const OutcomeError = "error"

// Recorder counts handled queries by outcome and times fallback calls
type Recorder struct {
	queries  *prometheus.CounterVec
	fallback prometheus.Histogram
	sessions prometheus.Gauge
}

// New creates a Recorder and registers its collectors with reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "faqchat_queries_total",
			Help: "Total handled queries by outcome",
		}, []string{"outcome"}),
		fallback: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "faqchat_fallback_duration_seconds",
			Help:    "Latency of completion service calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "faqchat_sessions",
			Help: "Live chat sessions",
		}),
	}
	reg.MustRegister(r.queries, r.fallback, r.sessions)

	// Pre-create the series so that they show up as 0 before the first query
	for _, outcome := range []string{string(chat.SourceFAQ), string(chat.SourceFallback), string(chat.SourceUnavailable), OutcomeError} {
		r.queries.WithLabelValues(outcome)
	}

	return r
}

// Query records the outcome of a handled query. A nil Recorder is a no-op.
func (r *Recorder) Query(outcome string) {
	if r == nil {
		return
	}
	r.queries.WithLabelValues(outcome).Inc()
}

// Fallback records the duration of a completion call
func (r *Recorder) Fallback(d time.Duration) {
	if r == nil {
		return
	}
	r.fallback.Observe(d.Seconds())
}

// Sessions sets the number of live sessions
func (r *Recorder) Sessions(n int) {
	if r == nil {
		return
	}
	r.sessions.Set(float64(n))
}
