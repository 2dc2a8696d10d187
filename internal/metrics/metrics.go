package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	editRequestsDesc = prometheus.NewDesc(
		"crewhub_edit_requests",
		"Current number of edit requests by status",
		[]string{"status"},
		nil,
	)

	submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewhub_edit_requests_submitted_total",
		Help: "Total edit requests accepted from crews",
	})

	decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewhub_edit_request_decisions_total",
		Help: "Total moderation decisions by outcome",
	}, []string{"decision"})

	applyFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewhub_diff_apply_failures_total",
		Help: "Total fields of approved requests that could not be written",
	}, []string{"field"})
)

// StatusCounter reports how many edit requests exist per status.
type StatusCounter interface {
	CountEditRequestsByStatus(ctx context.Context) (map[string]int64, error)
}

// EditRequestCollector is a custom Prometheus collector that reads edit
// request counts from the database on each scrape.
type EditRequestCollector struct {
	source StatusCounter
}

// NewEditRequestCollector creates a collector backed by source.
func NewEditRequestCollector(source StatusCounter) *EditRequestCollector {
	return &EditRequestCollector{source: source}
}

// Describe sends the metric descriptor to the channel.
func (c *EditRequestCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- editRequestsDesc
}

// Collect queries the database and emits one gauge per status.
func (c *EditRequestCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.source.CountEditRequestsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect edit request metrics", "error", err)
		return
	}
	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			editRequestsDesc,
			prometheus.GaugeValue,
			float64(n),
			status,
		)
	}
}

var initOnce sync.Once

// Init registers the collector and counters with the default registry.
// Must be called once at startup.
func Init(source StatusCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEditRequestCollector(source), submissions, decisions, applyFailures)
	})
}

// RecordSubmission counts an accepted edit request.
func RecordSubmission() {
	submissions.Inc()
}

// RecordDecision counts a moderation decision.
func RecordDecision(decision string) {
	decisions.WithLabelValues(decision).Inc()
}

// RecordApplyFailure counts a field that failed to apply.
func RecordApplyFailure(field string) {
	applyFailures.WithLabelValues(field).Inc()
}
