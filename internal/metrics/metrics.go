package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecommerce-keyword-report/internal/categorizer"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics owns its registry so several servers (and tests) can coexist.
type Metrics struct {
	reg         *prometheus.Registry
	requests    *prometheus.CounterVec
	keywords    prometheus.Histogram
	occurrences *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kwreport_requests_total",
			Help: "Preview and analysis requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		keywords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kwreport_unique_keywords",
			Help:    "Distinct keywords found per analysis",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		occurrences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kwreport_category_occurrences_total",
			Help: "Keyword occurrences attributed to each category across analyses",
		}, []string{"category"}),
	}
	m.reg.MustRegister(
		m.requests,
		m.keywords,
		m.occurrences,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordPreview counts a preview request.
func (m *Metrics) RecordPreview(err error) {
	m.requests.WithLabelValues("preview", outcome(err)).Inc()
}

// RecordAnalysis counts an analysis and, on success, its keyword distribution.
func (m *Metrics) RecordAnalysis(res *categorizer.Result, err error) {
	m.requests.WithLabelValues("analyze", outcome(err)).Inc()
	if err != nil || res == nil {
		return
	}
	m.keywords.Observe(float64(res.Stats.UniqueKeywords))
	for _, s := range res.Summaries {
		m.occurrences.WithLabelValues(s.Category).Add(float64(s.Occurrences))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
