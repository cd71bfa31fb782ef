package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReflowRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total reflow requests, labelled by outcome.",
	}, []string{"outcome"})

	ReflowDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reflow",
		Subsystem: "engine",
		Name:      "duration_seconds",
		Help:      "End-to-end reflow computation time in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	TasksRescheduled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "engine",
		Name:      "tasks_rescheduled_total",
		Help:      "Total tasks whose schedule changed across all runs.",
	})

	ConstraintViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "engine",
		Name:      "constraint_violations_total",
		Help:      "Total verifier violations, labelled by kind.",
	}, []string{"kind"})

	DeadlineBreaches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "engine",
		Name:      "deadline_breaches_total",
		Help:      "Total deadline breaches detected across all runs.",
	})

	AuditPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "api",
		Name:      "audit_publish_failures_total",
		Help:      "Total audit events that could not be published to Kafka.",
	})
)
