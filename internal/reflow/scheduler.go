package reflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/settleflow/reflow/internal/calendar"
	"github.com/settleflow/reflow/internal/dag"
	"github.com/settleflow/reflow/internal/domain"
)

// scheduleResult is the scheduler's raw output before verification.
type scheduleResult struct {
	// tasks holds the updated working copies in topological order.
	tasks   []domain.Task
	changes []domain.ScheduleChange
	errors  []string
}

// schedule runs the greedy earliest-fit pass: each non-pinned task, in
// dependency order, gets the earliest start consistent with its upstream
// tasks' final end times, the channel free-at watermark, and the channel
// calendar. Pinned tasks are never moved.
//
// The only fatal outcome is a dependency cycle; every other failure is
// accumulated per task and the task is left at its best-computed position.
func schedule(tasks []domain.Task, channels []domain.Channel) (*scheduleResult, error) {
	res := &scheduleResult{}
	if len(tasks) == 0 {
		res.tasks = []domain.Task{}
		return res, nil
	}

	channelByID := make(map[string]*domain.Channel, len(channels))
	for i := range channels {
		channelByID[channels[i].ID] = &channels[i]
	}
	taskByID := make(map[string]*domain.Task, len(tasks))
	for i := range tasks {
		taskByID[tasks[i].ID] = &tasks[i]
	}

	exclusionsByChannel := make(map[string][]calendar.Interval, len(channels))
	for _, ch := range channels {
		exclusionsByChannel[ch.ID] = calendar.BlackoutIntervals(ch.Blackouts)
	}

	order, err := dag.Sort(tasks)
	if err != nil {
		return nil, err
	}

	// Per-channel free-at watermark, pre-seeded from pinned tasks so
	// non-pinned tasks on the same channel queue behind a pin even without a
	// dependency edge.
	channelFreeAt := make(map[string]time.Time)
	for _, t := range tasks {
		if !t.Pinned {
			continue
		}
		if at, ok := channelFreeAt[t.ChannelID]; !ok || t.EndTime.After(at) {
			channelFreeAt[t.ChannelID] = t.EndTime
		}
	}

	// Per-task final end time, for downstream dependency resolution.
	taskEndTimes := make(map[string]time.Time, len(tasks))

	updated := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		c := t.Clone()
		updated[t.ID] = &c
	}

	for _, taskID := range order {
		original := taskByID[taskID]
		working := updated[taskID]
		channel, known := channelByID[original.ChannelID]

		if !known {
			res.errors = append(res.errors, (&domain.UnknownChannelError{
				TaskReference: original.Reference,
				ChannelID:     original.ChannelID,
			}).Error())
			// Record the original end so dependents are not blocked.
			taskEndTimes[taskID] = original.EndTime
			continue
		}

		exclusions := exclusionsByChannel[original.ChannelID]
		hours := channel.OperatingHours

		if original.Pinned {
			// Validated, never corrected.
			if calendar.OverlapsExclusion(original.StartTime, original.EndTime, exclusions) {
				res.errors = append(res.errors, fmt.Sprintf(
					"regulatory hold %s overlaps blackout window on channel %s",
					original.Reference, channel.Name))
			}
			if at, ok := channelFreeAt[original.ChannelID]; !ok || original.EndTime.After(at) {
				channelFreeAt[original.ChannelID] = original.EndTime
			}
			taskEndTimes[taskID] = original.EndTime
			continue
		}

		// earliest = max(original start, latest dependency end, channel watermark).
		earliest := original.StartTime
		for _, depID := range original.DependsOn {
			if depEnd, ok := taskEndTimes[depID]; ok && depEnd.After(earliest) {
				earliest = depEnd
			}
		}
		freeAt, hasWatermark := channelFreeAt[original.ChannelID]
		if hasWatermark && freeAt.After(earliest) {
			earliest = freeAt
		}

		newStart, ok := calendar.NextAvailableInstant(earliest, hours, exclusions, calendar.DefaultMaxDays)
		if !ok {
			res.errors = append(res.errors, (&domain.HorizonExhaustedError{
				TaskReference: original.Reference,
				Days:          calendar.DefaultMaxDays,
				Op:            "find operating slot",
			}).Error())
			taskEndTimes[taskID] = earliest
			continue
		}

		newEnd, ok := calendar.AdvanceByDuration(newStart, original.EffectiveMinutes(), hours, exclusions, calendar.DefaultMaxDays)
		if !ok {
			res.errors = append(res.errors, (&domain.HorizonExhaustedError{
				TaskReference: original.Reference,
				Days:          calendar.DefaultMaxDays,
				Op:            "compute end time",
			}).Error())
			taskEndTimes[taskID] = newStart
			continue
		}

		if !newStart.Equal(original.StartTime) {
			res.changes = append(res.changes, domain.ScheduleChange{
				TaskID:        taskID,
				TaskReference: original.Reference,
				Field:         domain.FieldStartTime,
				OldValue:      original.StartTime,
				NewValue:      newStart,
				DeltaMinutes:  int(newStart.Sub(original.StartTime) / time.Minute),
				Reason:        buildReason(original, freeAt, hasWatermark, earliest, newStart, taskByID, taskEndTimes),
			})
		}
		if !newEnd.Equal(original.EndTime) {
			res.changes = append(res.changes, domain.ScheduleChange{
				TaskID:        taskID,
				TaskReference: original.Reference,
				Field:         domain.FieldEndTime,
				OldValue:      original.EndTime,
				NewValue:      newEnd,
				DeltaMinutes:  int(newEnd.Sub(original.EndTime) / time.Minute),
				Reason:        buildReason(original, freeAt, hasWatermark, earliest, newStart, taskByID, taskEndTimes),
			})
		}

		working.StartTime = newStart
		working.EndTime = newEnd

		channelFreeAt[original.ChannelID] = newEnd
		taskEndTimes[taskID] = newEnd
	}

	res.tasks = make([]domain.Task, 0, len(order))
	for _, id := range order {
		res.tasks = append(res.tasks, *updated[id])
	}
	return res, nil
}

// buildReason lists every cause that actually pushed the task: dependency
// completion, channel contention, and calendar snap may all co-occur. When a
// change happened with none of them, it is a knock-on effect of earlier
// adjustments.
func buildReason(
	task *domain.Task,
	channelFreeAt time.Time,
	hasWatermark bool,
	earliest time.Time,
	newStart time.Time,
	taskByID map[string]*domain.Task,
	taskEndTimes map[string]time.Time,
) string {
	var reasons []string

	for _, depID := range task.DependsOn {
		depEnd, ok := taskEndTimes[depID]
		if !ok || !depEnd.After(task.StartTime) {
			continue
		}
		depRef := depID
		if dep, ok := taskByID[depID]; ok {
			depRef = dep.Reference
		}
		reasons = append(reasons, fmt.Sprintf("dependency %s completes later than original start", depRef))
	}

	if hasWatermark && channelFreeAt.After(task.StartTime) {
		reasons = append(reasons, "channel occupied by earlier task")
	}

	if newStart.After(earliest) {
		reasons = append(reasons, "adjusted to next operating hours window")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "cascading schedule adjustment")
	}
	return strings.Join(reasons, "; ")
}
