package extract

import "github.com/prometheus/client_golang/prometheus"

var (
	extractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "minwon_extraction_duration_seconds",
			Help: "Time spent extracting entities, by source",
		},
		[]string{"source"},
	)

	entityCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minwon_entities_extracted_total",
			Help: "Number of entities extracted, by label",
		},
		[]string{"label"},
	)

	backendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minwon_ner_backend_failures_total",
			Help: "Remote NER backend failures, by backend",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(extractionDuration)
	prometheus.MustRegister(entityCount)
	prometheus.MustRegister(backendFailures)
}
