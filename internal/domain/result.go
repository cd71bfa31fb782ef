package domain

import "time"

// ChangeField names the task field a ScheduleChange applies to.
type ChangeField string

const (
	FieldStartTime ChangeField = "startTime"
	FieldEndTime   ChangeField = "endTime"
)

// ScheduleChange is one concrete before/after adjustment made by the
// scheduler, with a human-readable reason.
type ScheduleChange struct {
	TaskID        string      `json:"task_id"`
	TaskReference string      `json:"task_reference"`
	Field         ChangeField `json:"field"`
	OldValue      time.Time   `json:"old_value"`
	NewValue      time.Time   `json:"new_value"`
	DeltaMinutes  int         `json:"delta_minutes"`
	Reason        string      `json:"reason"`
}

// ViolationKind tags a constraint violation found by the verifier.
type ViolationKind string

const (
	ViolationChannelOverlap      ViolationKind = "resource_overlap"
	ViolationOutsideAvailability ViolationKind = "outside_availability"
	ViolationBlackoutOverlap     ViolationKind = "blackout_overlap"
	ViolationDependencyViolated  ViolationKind = "dependency_violated"
	ViolationPinnedTaskMoved     ViolationKind = "pinned_task_moved"
)

// Violation is a diagnostic record produced by the constraint verifier.
// An empty violation list certifies the schedule.
type Violation struct {
	Kind          ViolationKind `json:"kind"`
	TaskID        string        `json:"task_id"`
	TaskReference string        `json:"task_reference"`
	Message       string        `json:"message"`
}

// DeadlineBreach records a task completing after its order's deadline.
type DeadlineBreach struct {
	TaskID        string    `json:"task_id"`
	OrderID       string    `json:"order_id"`
	Deadline      time.Time `json:"deadline"`
	ActualEnd     time.Time `json:"actual_end"`
	BreachMinutes int       `json:"breach_minutes"`
}

// Metrics compares the original schedule against the reflowed one.
type Metrics struct {
	TotalDelayMinutes  int                `json:"total_delay_minutes"`
	TasksAffected      int                `json:"tasks_affected"`
	ChannelUtilization map[string]float64 `json:"channel_utilization"`
	ChannelIdleMinutes map[string]int     `json:"channel_idle_minutes"`
	DeadlineBreaches   []DeadlineBreach   `json:"deadline_breaches"`
}

// ZeroMetrics returns an empty-but-initialised Metrics value, used for the
// empty-input and cycle-abort paths.
func ZeroMetrics() Metrics {
	return Metrics{
		ChannelUtilization: map[string]float64{},
		ChannelIdleMinutes: map[string]int{},
		DeadlineBreaches:   []DeadlineBreach{},
	}
}

// Input is the full triple one reflow call consumes.
type Input struct {
	Tasks    []Task    `json:"tasks"`
	Channels []Channel `json:"channels"`
	Orders   []Order   `json:"orders"`
}

// Result is the full output of one reflow call. UpdatedTasks is always
// populated; a non-empty Errors list means the schedule is provisional.
type Result struct {
	UpdatedTasks []Task           `json:"updated_tasks"`
	Changes      []ScheduleChange `json:"changes"`
	Explanation  []string         `json:"explanation"`
	Metrics      Metrics          `json:"metrics"`
	Errors       []string         `json:"errors"`
}
