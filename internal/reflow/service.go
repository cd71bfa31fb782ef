// Package reflow computes a feasible, constraint-respecting schedule for a
// DAG of settlement tasks over channels with recurring operating hours and
// absolute blackout windows.
//
// One Reflow call is a pure function of its input: it allocates its own
// working copies and watermarks, holds no state between invocations, and is
// safe to run concurrently from many goroutines.
package reflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/settleflow/reflow/internal/domain"
	"github.com/settleflow/reflow/pkg/telemetry"
)

const timeLayout = time.RFC3339

// Service is the single entry point composing the scheduler, the constraint
// verifier, and the metrics aggregator into one request/response cycle.
type Service struct {
	logger *slog.Logger
}

// NewService creates a reflow Service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Reflow recomputes the schedule. The returned UpdatedTasks is always
// populated; callers must treat a non-empty Errors list as "schedule is
// provisional". A dependency cycle aborts the run and returns the original
// tasks unchanged; that fault never propagates past this boundary.
func (s *Service) Reflow(ctx context.Context, input domain.Input) domain.Result {
	_, span := otel.Tracer("reflow").Start(ctx, "reflow.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("reflow.tasks", len(input.Tasks)),
		attribute.Int("reflow.channels", len(input.Channels)),
	)

	if len(input.Tasks) == 0 {
		return domain.Result{
			UpdatedTasks: []domain.Task{},
			Changes:      []domain.ScheduleChange{},
			Explanation:  []string{"No tasks to schedule."},
			Metrics:      domain.ZeroMetrics(),
			Errors:       []string{},
		}
	}

	// Untouched copy for the metrics diff and the pinned-moved check.
	originals := domain.CloneTasks(input.Tasks)

	sched, err := schedule(input.Tasks, input.Channels)
	if err != nil {
		var cycleErr *domain.CycleError
		if errors.As(err, &cycleErr) {
			s.logger.Warn("reflow aborted on dependency cycle",
				slog.Int("unresolved_tasks", len(cycleErr.Remaining)))
			return domain.Result{
				UpdatedTasks: originals,
				Changes:      []domain.ScheduleChange{},
				Explanation: []string{
					fmt.Sprintf("Scheduling aborted: %s", cycleErr.Error()),
					"Please resolve circular dependencies before reflow.",
				},
				Metrics: domain.ZeroMetrics(),
				Errors:  []string{cycleErr.Error()},
			}
		}
		// schedule only fails on cycles today; report anything else the
		// same way rather than letting it escape this boundary.
		return domain.Result{
			UpdatedTasks: originals,
			Changes:      []domain.ScheduleChange{},
			Explanation:  []string{fmt.Sprintf("Scheduling aborted: %s", err.Error())},
			Metrics:      domain.ZeroMetrics(),
			Errors:       []string{err.Error()},
		}
	}

	violations := CheckConstraints(sched.tasks, input.Channels, originals)
	violationMsgs := make([]string, 0, len(violations))
	for _, v := range violations {
		violationMsgs = append(violationMsgs, v.Message)
		telemetry.ConstraintViolations.WithLabelValues(string(v.Kind)).Inc()
	}

	metrics := computeMetrics(originals, sched.tasks, input.Channels, input.Orders)

	allErrors := make([]string, 0, len(sched.errors)+len(violationMsgs))
	allErrors = append(allErrors, sched.errors...)
	allErrors = append(allErrors, violationMsgs...)

	s.logger.Debug("reflow complete",
		slog.Int("changes", len(sched.changes)),
		slog.Int("violations", len(violations)),
		slog.Int("errors", len(allErrors)),
		slog.Int("delay_minutes", metrics.TotalDelayMinutes))

	return domain.Result{
		UpdatedTasks: sched.tasks,
		Changes:      sched.changes,
		Explanation:  buildExplanation(sched.changes, metrics, sched.errors, violationMsgs),
		Metrics:      metrics,
		Errors:       allErrors,
	}
}

// buildExplanation renders the narrative: one line per changed task (start
// and end merged into one sentence when both moved), a summary line, warning
// lines per deadline breach, and an Errors block when anything failed.
func buildExplanation(changes []domain.ScheduleChange, metrics domain.Metrics, schedulerErrors, violationMsgs []string) []string {
	var lines []string

	if len(changes) == 0 && len(schedulerErrors) == 0 {
		lines = append(lines, "No schedule changes were necessary. All tasks remain as originally scheduled.")
		return lines
	}

	var refOrder []string
	byRef := make(map[string][]domain.ScheduleChange)
	for _, c := range changes {
		if _, seen := byRef[c.TaskReference]; !seen {
			refOrder = append(refOrder, c.TaskReference)
		}
		byRef[c.TaskReference] = append(byRef[c.TaskReference], c)
	}

	for _, ref := range refOrder {
		var startChange, endChange *domain.ScheduleChange
		for i := range byRef[ref] {
			c := &byRef[ref][i]
			switch c.Field {
			case domain.FieldStartTime:
				startChange = c
			case domain.FieldEndTime:
				endChange = c
			}
		}

		switch {
		case startChange != nil && endChange != nil:
			lines = append(lines, fmt.Sprintf("%s: moved from %s to %s (%+d min). Reason: %s",
				ref,
				startChange.OldValue.Format(timeLayout),
				startChange.NewValue.Format(timeLayout),
				startChange.DeltaMinutes,
				startChange.Reason))
		case endChange != nil:
			lines = append(lines, fmt.Sprintf("%s: end time changed from %s to %s (%+d min). Reason: %s",
				ref,
				endChange.OldValue.Format(timeLayout),
				endChange.NewValue.Format(timeLayout),
				endChange.DeltaMinutes,
				endChange.Reason))
		case startChange != nil:
			lines = append(lines, fmt.Sprintf("%s: start time changed from %s to %s (%+d min). Reason: %s",
				ref,
				startChange.OldValue.Format(timeLayout),
				startChange.NewValue.Format(timeLayout),
				startChange.DeltaMinutes,
				startChange.Reason))
		}
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Summary: %d task(s) affected, total delay: %d minutes.",
		metrics.TasksAffected, metrics.TotalDelayMinutes))

	if len(metrics.DeadlineBreaches) > 0 {
		lines = append(lines, fmt.Sprintf("WARNING: %d deadline breach(es) detected.", len(metrics.DeadlineBreaches)))
		for _, b := range metrics.DeadlineBreaches {
			lines = append(lines, fmt.Sprintf("  - Task %s: exceeds target %s by %d minutes",
				b.TaskID, b.Deadline.Format(timeLayout), b.BreachMinutes))
		}
	}

	if len(schedulerErrors) > 0 || len(violationMsgs) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Errors:")
		for _, e := range schedulerErrors {
			lines = append(lines, "  - "+e)
		}
		for _, e := range violationMsgs {
			lines = append(lines, "  - "+e)
		}
	}

	return lines
}
