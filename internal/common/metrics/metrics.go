// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "releasenote_pipeline_runs_total",
			Help: "Total number of pipeline invocations by mode and status",
		},
		[]string{"mode", "status"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "releasenote_pipeline_stage_duration_seconds",
			Help: "Duration of individual pipeline stages in seconds",
		},
		[]string{"stage"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "releasenote_llm_requests_total",
			Help: "Total number of text-generation requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	RetrievalAnswersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "releasenote_retrieval_answers_dropped_total",
			Help: "Retrieval answers excluded because no relevant information was found",
		},
	)

	TerminologyReplacements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "releasenote_terminology_replacements_total",
			Help: "Keywords replaced or removed during terminology resolution",
		},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "releasenote_worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)
