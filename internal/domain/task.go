package domain

import "time"

// TaskType categorises a settlement task.
type TaskType string

const (
	TaskMarginCheck      TaskType = "marginCheck"
	TaskFundTransfer     TaskType = "fundTransfer"
	TaskDisbursement     TaskType = "disbursement"
	TaskComplianceScreen TaskType = "complianceScreen"
	TaskReconciliation   TaskType = "reconciliation"
	TaskRegulatoryHold   TaskType = "regulatoryHold"
)

// Task is a unit of settlement work occupying a channel for a span of time.
// StartTime/EndTime form a half-open window [StartTime, EndTime) at minute
// precision, always UTC. A pinned task (regulatory hold) must never be moved
// by the scheduler.
type Task struct {
	ID                string    `json:"id"`
	Reference         string    `json:"reference"`
	OrderID           string    `json:"order_id"`
	ChannelID         string    `json:"channel_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	ProcessingMinutes int       `json:"processing_minutes"`
	PrepMinutes       int       `json:"prep_minutes,omitempty"`
	Pinned            bool      `json:"pinned"`
	DependsOn         []string  `json:"depends_on"`
	Type              TaskType  `json:"type"`
}

// EffectiveMinutes is the total channel time the task consumes:
// prep immediately before processing, then processing.
func (t *Task) EffectiveMinutes() int {
	return t.PrepMinutes + t.ProcessingMinutes
}

// Clone returns an independent copy of the task. The scheduler mutates
// working copies while the metrics pass compares against the originals, so
// the two sets must not alias.
func (t *Task) Clone() Task {
	c := *t
	c.DependsOn = append([]string(nil), t.DependsOn...)
	return c
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
