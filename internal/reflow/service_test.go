package reflow

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/reflow/internal/domain"
	"github.com/settleflow/reflow/internal/scenarios"
)

func newTestService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func scenarioInput(t *testing.T, key string) domain.Input {
	t.Helper()
	s, ok := scenarios.Get(key)
	require.True(t, ok, "scenario %s not found", key)
	return s.Input
}

func TestReflowEmptyInput(t *testing.T) {
	result := newTestService().Reflow(context.Background(), domain.Input{})

	assert.Empty(t, result.UpdatedTasks)
	assert.Empty(t, result.Changes)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Explanation, 1)
	assert.Equal(t, "No tasks to schedule.", result.Explanation[0])
}

func TestReflowDelayCascadeScenario(t *testing.T) {
	input := scenarioInput(t, "delay-cascade")
	result := newTestService().Reflow(context.Background(), input)

	require.Empty(t, result.Errors, "a clean cascade must certify")
	require.Len(t, result.UpdatedTasks, 4)

	last := taskByID(t, result.UpdatedTasks, "task-4")
	assert.True(t, last.EndTime.Equal(at(15, 16, 0)), "chain ends at market close: got %v", last.EndTime)

	assert.Equal(t, 540, result.Metrics.TotalDelayMinutes)
	assert.Equal(t, 3, result.Metrics.TasksAffected)
	assert.Empty(t, result.Metrics.DeadlineBreaches)

	joined := strings.Join(result.Explanation, "\n")
	assert.Contains(t, joined, "Summary: 3 task(s) affected, total delay: 540 minutes.")
}

func TestReflowIdempotent(t *testing.T) {
	svc := newTestService()
	input := scenarioInput(t, "delay-cascade")

	first := svc.Reflow(context.Background(), input)
	require.Empty(t, first.Errors)

	second := svc.Reflow(context.Background(), domain.Input{
		Tasks:    first.UpdatedTasks,
		Channels: input.Channels,
		Orders:   input.Orders,
	})

	assert.Empty(t, second.Changes, "a settled schedule must not move again")
	require.Len(t, second.Explanation, 1)
	assert.Equal(t, "No schedule changes were necessary. All tasks remain as originally scheduled.",
		second.Explanation[0])
}

func TestReflowCycleReturnsOriginals(t *testing.T) {
	input := scenarioInput(t, "circular-dependency")
	result := newTestService().Reflow(context.Background(), input)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "circular dependency detected")

	require.Len(t, result.UpdatedTasks, len(input.Tasks))
	for i, upd := range result.UpdatedTasks {
		assert.True(t, upd.StartTime.Equal(input.Tasks[i].StartTime))
		assert.True(t, upd.EndTime.Equal(input.Tasks[i].EndTime))
	}
	assert.Empty(t, result.Changes)

	joined := strings.Join(result.Explanation, "\n")
	assert.Contains(t, joined, "Scheduling aborted")
	assert.Contains(t, joined, "resolve circular dependencies")
}

func TestReflowRegulatoryHoldConflict(t *testing.T) {
	input := scenarioInput(t, "regulatory-hold-conflict")
	result := newTestService().Reflow(context.Background(), input)

	require.Len(t, result.UpdatedTasks, 1)
	hold := result.UpdatedTasks[0]
	assert.True(t, hold.StartTime.Equal(input.Tasks[0].StartTime), "hold must not move")
	assert.True(t, hold.EndTime.Equal(input.Tasks[0].EndTime))

	require.NotEmpty(t, result.Errors)
	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "overlaps blackout window")
}

func TestReflowDeadlineBreachScenario(t *testing.T) {
	input := scenarioInput(t, "deadline-breach")
	result := newTestService().Reflow(context.Background(), input)

	require.Empty(t, result.Errors)
	require.Len(t, result.Metrics.DeadlineBreaches, 1)
	breach := result.Metrics.DeadlineBreaches[0]
	assert.Equal(t, "task-dl-3", breach.TaskID)
	assert.Equal(t, 120, breach.BreachMinutes)

	joined := strings.Join(result.Explanation, "\n")
	assert.Contains(t, joined, "WARNING: 1 deadline breach(es) detected.")
	assert.Contains(t, joined, "exceeds target")
}

func TestReflowBlackoutScenario(t *testing.T) {
	input := scenarioInput(t, "blackout")
	result := newTestService().Reflow(context.Background(), input)

	require.Empty(t, result.Errors)
	task := taskByID(t, result.UpdatedTasks, "task-1")
	assert.True(t, task.StartTime.Equal(at(15, 15, 0)))
	assert.True(t, task.EndTime.Equal(at(16, 10, 0)),
		"task pauses overnight and skips the blackout: got %v", task.EndTime)
}

func TestReflowDoesNotMutateInput(t *testing.T) {
	input := scenarioInput(t, "delay-cascade")
	originalStart := input.Tasks[1].StartTime
	originalEnd := input.Tasks[1].EndTime

	_ = newTestService().Reflow(context.Background(), input)

	assert.True(t, input.Tasks[1].StartTime.Equal(originalStart), "input tasks must not be mutated")
	assert.True(t, input.Tasks[1].EndTime.Equal(originalEnd))
}

func TestReflowEveryScenarioProducesSchedule(t *testing.T) {
	svc := newTestService()
	for _, s := range scenarios.Catalog() {
		result := svc.Reflow(context.Background(), s.Input)
		assert.NotNil(t, result.UpdatedTasks, "scenario %s", s.Key)
		assert.NotEmpty(t, result.Explanation, "scenario %s", s.Key)
	}
}
