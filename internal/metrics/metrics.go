package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"priceintel/internal/db"
)

var (
	keywordWeightDesc = prometheus.NewDesc(
		"priceintel_keyword_weight",
		"Learned relevance weight per lexicon word",
		[]string{"word"},
		nil,
	)
	keywordOccurrencesDesc = prometheus.NewDesc(
		"priceintel_keyword_occurrences_total",
		"Times a lexicon word appeared in extraction output",
		[]string{"word"},
		nil,
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priceintel_cache_lookups_total",
			Help: "Query cache lookups by outcome",
		},
		[]string{"outcome"},
	)
	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priceintel_catalog_resolutions_total",
			Help: "Catalog resolutions by source tier",
		},
		[]string{"source"},
	)
	externalCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "priceintel_external_call_duration_seconds",
			Help:    "Latency of calls to external services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
)

// KeywordWeightCollector is a custom Prometheus collector that reads the
// learned lexicon from the database on each scrape.
type KeywordWeightCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *KeywordWeightCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordWeightDesc
	ch <- keywordOccurrencesDesc
}

// Collect queries the lexicon and emits a weight gauge and an occurrence
// counter per word.
func (c *KeywordWeightCollector) Collect(ch chan<- prometheus.Metric) {
	weights, err := c.db.ListKeywordWeights(context.Background(), 0)
	if err != nil {
		slog.Error("failed to collect keyword weight metrics", "error", err)
		return
	}
	for _, w := range weights {
		ch <- prometheus.MustNewConstMetric(
			keywordWeightDesc, prometheus.GaugeValue, w.Weight, w.Word)
		ch <- prometheus.MustNewConstMetric(
			keywordOccurrencesDesc, prometheus.CounterValue, float64(w.Occurrences), w.Word)
	}
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&KeywordWeightCollector{db: database})
		prometheus.MustRegister(cacheLookups, resolutions, externalCallDuration)
	})
}

// RecordCacheLookup counts a query cache lookup; outcome is "hit" or "miss".
func RecordCacheLookup(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}

// RecordResolution counts a successful catalog resolution by source tier.
func RecordResolution(source string) {
	resolutions.WithLabelValues(source).Inc()
}

// ObserveExternalCall records the latency of one external service call.
func ObserveExternalCall(service string, seconds float64) {
	externalCallDuration.WithLabelValues(service).Observe(seconds)
}
