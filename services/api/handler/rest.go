package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/settleflow/reflow/internal/domain"
	"github.com/settleflow/reflow/internal/kafka"
	"github.com/settleflow/reflow/internal/reflow"
	"github.com/settleflow/reflow/internal/scenarios"
	"github.com/settleflow/reflow/pkg/retry"
	"github.com/settleflow/reflow/pkg/telemetry"
)

// REST handles HTTP requests for the reflow API.
type REST struct {
	engine     *reflow.Service
	producer   kafka.Producer // nil when auditing is disabled
	auditTopic string
	logger     *slog.Logger
}

// NewREST creates a new REST handler. producer may be nil; audit events are
// then skipped entirely.
func NewREST(engine *reflow.Service, producer kafka.Producer, auditTopic string, logger *slog.Logger) *REST {
	return &REST{engine: engine, producer: producer, auditTopic: auditTopic, logger: logger}
}

// auditEvent is the message published to the audit topic after each run.
type auditEvent struct {
	RunID             string    `json:"run_id"`
	At                time.Time `json:"at"`
	TaskCount         int       `json:"task_count"`
	ChangeCount       int       `json:"change_count"`
	ErrorCount        int       `json:"error_count"`
	TotalDelayMinutes int       `json:"total_delay_minutes"`
	DeadlineBreaches  int       `json:"deadline_breaches"`
}

// scenarioSummary is the list item for GET /api/v1/scenarios.
type scenarioSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Reflow handles POST /api/v1/reflow.
func (h *REST) Reflow(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("api").Start(r.Context(), "api.reflow")
	defer span.End()

	var input domain.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		telemetry.ReflowRequests.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Tasks == nil || input.Channels == nil || input.Orders == nil {
		telemetry.ReflowRequests.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "request body must include tasks, channels, and orders")
		return
	}

	runID := uuid.New().String()
	span.SetAttributes(
		attribute.String("reflow.run_id", runID),
		attribute.Int("reflow.task_count", len(input.Tasks)),
	)

	started := time.Now()
	result := h.engine.Reflow(ctx, input)
	telemetry.ReflowDurationSeconds.Observe(time.Since(started).Seconds())

	outcome := "ok"
	if len(result.Errors) > 0 {
		outcome = "provisional"
	}
	telemetry.ReflowRequests.WithLabelValues(outcome).Inc()
	telemetry.TasksRescheduled.Add(float64(result.Metrics.TasksAffected))
	telemetry.DeadlineBreaches.Add(float64(len(result.Metrics.DeadlineBreaches)))

	h.publishAudit(ctx, runID, &input, &result)

	h.logger.Info("reflow served",
		slog.String("run_id", runID),
		slog.Int("tasks", len(input.Tasks)),
		slog.Int("changes", len(result.Changes)),
		slog.Int("errors", len(result.Errors)),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// publishAudit best-effort publishes one audit event; failures are counted
// and logged, never surfaced to the caller.
func (h *REST) publishAudit(ctx context.Context, runID string, input *domain.Input, result *domain.Result) {
	if h.producer == nil {
		return
	}

	payload, err := json.Marshal(auditEvent{
		RunID:             runID,
		At:                time.Now().UTC(),
		TaskCount:         len(input.Tasks),
		ChangeCount:       len(result.Changes),
		ErrorCount:        len(result.Errors),
		TotalDelayMinutes: result.Metrics.TotalDelayMinutes,
		DeadlineBreaches:  len(result.Metrics.DeadlineBreaches),
	})
	if err != nil {
		h.logger.Error("marshal audit event", slog.String("error", err.Error()))
		return
	}

	err = retry.Do(ctx, retry.Config{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}, func() error {
		return h.producer.Publish(ctx, h.auditTopic, runID, payload)
	})
	if err != nil {
		telemetry.AuditPublishFailures.Inc()
		h.logger.Error("publish audit event",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
	}
}

// ListScenarios handles GET /api/v1/scenarios.
func (h *REST) ListScenarios(w http.ResponseWriter, _ *http.Request) {
	catalog := scenarios.Catalog()
	list := make([]scenarioSummary, 0, len(catalog))
	for _, s := range catalog {
		list = append(list, scenarioSummary{Key: s.Key, Name: s.Name, Description: s.Description})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetScenario handles GET /api/v1/scenarios/{key} and returns the full input
// triple for the named scenario.
func (h *REST) GetScenario(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s, ok := scenarios.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "scenario '"+key+"' not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Input)
}

// Healthz handles GET /healthz.
func (h *REST) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz handles GET /readyz. The engine is pure computation with no
// backing stores, so readiness equals liveness.
func (h *REST) Readyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
