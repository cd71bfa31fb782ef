package reflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/reflow/internal/domain"
)

func kinds(violations []domain.Violation) []domain.ViolationKind {
	out := make([]domain.ViolationKind, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Kind)
	}
	return out
}

func TestCheckConstraintsCertifiesValidSchedule(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 8, 0), EndTime: at(15, 9, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
		{ID: "t2", Reference: "t2", ChannelID: "ch", StartTime: at(15, 9, 0), EndTime: at(15, 10, 0),
			ProcessingMinutes: 60, DependsOn: []string{"t1"}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{openChannel("ch")}, tasks)
	assert.Empty(t, violations)
}

func TestCheckDependencyViolation(t *testing.T) {
	tasks := []domain.Task{
		{ID: "up", Reference: "up", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 11, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
		{ID: "down", Reference: "down", ChannelID: "ch2", StartTime: at(15, 10, 30), EndTime: at(15, 11, 30),
			ProcessingMinutes: 60, DependsOn: []string{"up"}},
	}
	channels := []domain.Channel{openChannel("ch"), openChannel("ch2")}

	violations := CheckConstraints(tasks, channels, nil)
	require.NotEmpty(t, violations)
	assert.Contains(t, kinds(violations), domain.ViolationDependencyViolated)

	for _, v := range violations {
		if v.Kind == domain.ViolationDependencyViolated {
			assert.Equal(t, "down", v.TaskID)
			assert.Contains(t, v.Message, "starts before dependency up completes")
		}
	}
}

func TestCheckChannelOverlap(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 9, 0), EndTime: at(15, 11, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
		{ID: "t2", Reference: "t2", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 12, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{openChannel("ch")}, nil)
	assert.Contains(t, kinds(violations), domain.ViolationChannelOverlap)
}

func TestCheckBackToBackTasksDoNotOverlap(t *testing.T) {
	// Half-open windows: one ends exactly when the next begins.
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 9, 0), EndTime: at(15, 10, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
		{ID: "t2", Reference: "t2", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 11, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{openChannel("ch")}, nil)
	assert.NotContains(t, kinds(violations), domain.ViolationChannelOverlap)
}

func TestCheckOutsideAvailabilityStart(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 7, 0), EndTime: at(15, 8, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{openChannel("ch")}, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.ViolationOutsideAvailability, violations[0].Kind)
	assert.Contains(t, violations[0].Message, "starts outside operating hours")
}

func TestCheckAvailabilitySpanMismatch(t *testing.T) {
	// Start is valid but the window holds fewer available minutes than the
	// task's effective duration claims.
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 8, 0), EndTime: at(15, 9, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{openChannel("ch")}, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.ViolationOutsideAvailability, violations[0].Kind)
	assert.Contains(t, violations[0].Message, "processing time outside operating hours")
}

func TestCheckMovableTaskMaySpanBlackout(t *testing.T) {
	// A paused task legitimately spans the blackout; available minutes inside
	// its window still equal the effective duration.
	ch := openChannel("ch")
	ch.Blackouts = []domain.Blackout{
		{StartTime: at(16, 8, 0), EndTime: at(16, 9, 0), Reason: "maintenance"},
	}
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 15, 0), EndTime: at(16, 10, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{ch}, nil)
	assert.Empty(t, violations)
}

func TestCheckPinnedBlackoutOverlap(t *testing.T) {
	ch := openChannel("ch")
	ch.Blackouts = []domain.Blackout{
		{StartTime: at(15, 11, 0), EndTime: at(15, 11, 30), Reason: "regulatory update"},
	}
	tasks := []domain.Task{
		{ID: "hold", Reference: "HOLD-1", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 12, 0),
			ProcessingMinutes: 120, Pinned: true, DependsOn: []string{}},
	}
	violations := CheckConstraints(tasks, []domain.Channel{ch}, nil)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.ViolationBlackoutOverlap, violations[0].Kind)
	assert.Contains(t, violations[0].Message, "cannot be moved")
}

func TestCheckPinnedMoved(t *testing.T) {
	original := []domain.Task{
		{ID: "hold", Reference: "HOLD-1", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 12, 0),
			ProcessingMinutes: 120, Pinned: true, DependsOn: []string{}},
	}
	moved := []domain.Task{
		{ID: "hold", Reference: "HOLD-1", ChannelID: "ch", StartTime: at(15, 11, 0), EndTime: at(15, 13, 0),
			ProcessingMinutes: 120, Pinned: true, DependsOn: []string{}},
	}

	violations := CheckConstraints(moved, []domain.Channel{openChannel("ch")}, original)
	assert.Contains(t, kinds(violations), domain.ViolationPinnedTaskMoved)

	// Without originals the check is skipped entirely.
	violations = CheckConstraints(moved, []domain.Channel{openChannel("ch")}, nil)
	assert.NotContains(t, kinds(violations), domain.ViolationPinnedTaskMoved)
}

func TestCheckCollectsAllViolations(t *testing.T) {
	// One overlapping pair plus one task outside hours: nothing short-circuits.
	tasks := []domain.Task{
		{ID: "t1", Reference: "t1", ChannelID: "ch", StartTime: at(15, 9, 0), EndTime: at(15, 11, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
		{ID: "t2", Reference: "t2", ChannelID: "ch", StartTime: at(15, 10, 0), EndTime: at(15, 12, 0),
			ProcessingMinutes: 120, DependsOn: []string{}},
		{ID: "t3", Reference: "t3", ChannelID: "ch2", StartTime: at(15, 6, 0), EndTime: at(15, 7, 0),
			ProcessingMinutes: 60, DependsOn: []string{}},
	}
	channels := []domain.Channel{openChannel("ch"), openChannel("ch2")}

	violations := CheckConstraints(tasks, channels, nil)
	got := kinds(violations)
	assert.Contains(t, got, domain.ViolationChannelOverlap)
	assert.Contains(t, got, domain.ViolationOutsideAvailability)
}
