package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OUTCOME_SUCCESS = "success"
	OUTCOME_FAILURE = "failure"
	OUTCOME_NOOP    = "noop"
)

var (
	BoardLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commandcenter",
		Name:      "board_loads_total",
		Help:      "Pipeline board loads by outcome.",
	}, []string{"outcome"})

	StageCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commandcenter",
		Name:      "stage_commits_total",
		Help:      "Pipeline stage commits by outcome.",
	}, []string{"outcome"})

	BoardSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "commandcenter",
		Name:      "board_sessions_active",
		Help:      "Open pipeline board sessions.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "commandcenter",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "commandcenter",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
