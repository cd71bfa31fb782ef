package reflow

import (
	"fmt"
	"sort"

	"github.com/settleflow/reflow/internal/calendar"
	"github.com/settleflow/reflow/internal/domain"
)

// CheckConstraints independently re-proves the scheduled output against
// every hard rule, without trusting the scheduler's bookkeeping. All
// violations are collected, never short-circuited; an empty result certifies
// the schedule.
//
// original may be nil; when given, the pinned-task-moved check runs too.
// The check order fixes reporting sequence only.
func CheckConstraints(tasks []domain.Task, channels []domain.Channel, original []domain.Task) []domain.Violation {
	violations := []domain.Violation{}

	channelByID := make(map[string]*domain.Channel, len(channels))
	for i := range channels {
		channelByID[channels[i].ID] = &channels[i]
	}
	taskByID := make(map[string]*domain.Task, len(tasks))
	for i := range tasks {
		taskByID[tasks[i].ID] = &tasks[i]
	}

	violations = append(violations, checkDependencies(tasks, taskByID)...)
	violations = append(violations, checkChannelOverlaps(tasks)...)
	violations = append(violations, checkAvailability(tasks, channelByID)...)
	violations = append(violations, checkBlackoutOverlaps(tasks, channelByID)...)
	if original != nil {
		violations = append(violations, checkPinnedMoved(tasks, original)...)
	}
	return violations
}

// checkDependencies: no task starts before any upstream task's recorded end.
func checkDependencies(tasks []domain.Task, taskByID map[string]*domain.Task) []domain.Violation {
	var violations []domain.Violation
	for _, t := range tasks {
		for _, depID := range t.DependsOn {
			upstream, ok := taskByID[depID]
			if !ok {
				continue
			}
			if t.StartTime.Before(upstream.EndTime) {
				violations = append(violations, domain.Violation{
					Kind:          domain.ViolationDependencyViolated,
					TaskID:        t.ID,
					TaskReference: t.Reference,
					Message: fmt.Sprintf("task %s starts before dependency %s completes",
						t.Reference, upstream.Reference),
				})
			}
		}
	}
	return violations
}

// checkChannelOverlaps: no two tasks sharing a channel overlap. Sorting each
// channel's tasks by start and checking consecutive pairs is sufficient:
// non-overlap is transitive under a valid sort.
func checkChannelOverlaps(tasks []domain.Task) []domain.Violation {
	var violations []domain.Violation

	byChannel := make(map[string][]domain.Task)
	for _, t := range tasks {
		byChannel[t.ChannelID] = append(byChannel[t.ChannelID], t)
	}

	for _, channelTasks := range byChannel {
		sorted := append([]domain.Task(nil), channelTasks...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		})
		for i := 0; i+1 < len(sorted); i++ {
			if sorted[i].EndTime.After(sorted[i+1].StartTime) {
				violations = append(violations, domain.Violation{
					Kind:          domain.ViolationChannelOverlap,
					TaskID:        sorted[i+1].ID,
					TaskReference: sorted[i+1].Reference,
					Message: fmt.Sprintf("task %s overlaps with %s on the same channel",
						sorted[i+1].Reference, sorted[i].Reference),
				})
			}
		}
	}
	return violations
}

// checkAvailability: a non-pinned task must start at an exact valid
// availability instant, and the available minutes within its window must
// equal its effective duration. This one check catches both a start outside
// operating hours and a span that fails to pause through a closed period.
func checkAvailability(tasks []domain.Task, channelByID map[string]*domain.Channel) []domain.Violation {
	var violations []domain.Violation
	for _, t := range tasks {
		if t.Pinned {
			continue
		}
		channel, ok := channelByID[t.ChannelID]
		if !ok {
			continue
		}
		exclusions := calendar.BlackoutIntervals(channel.Blackouts)

		next, ok := calendar.NextAvailableInstant(t.StartTime, channel.OperatingHours, exclusions, calendar.DefaultMaxDays)
		if !ok || !next.Equal(t.StartTime) {
			violations = append(violations, domain.Violation{
				Kind:          domain.ViolationOutsideAvailability,
				TaskID:        t.ID,
				TaskReference: t.Reference,
				Message:       fmt.Sprintf("task %s starts outside operating hours", t.Reference),
			})
			continue
		}

		available := calendar.AvailableMinutesBetween(t.StartTime, t.EndTime, channel.OperatingHours, exclusions)
		if available != t.EffectiveMinutes() {
			violations = append(violations, domain.Violation{
				Kind:          domain.ViolationOutsideAvailability,
				TaskID:        t.ID,
				TaskReference: t.Reference,
				Message: fmt.Sprintf("task %s has processing time outside operating hours (expected %d min, found %d available min in range)",
					t.Reference, t.EffectiveMinutes(), available),
			})
		}
	}
	return violations
}

// checkBlackoutOverlaps applies to pinned tasks only. Movable tasks may span
// an exclusion because they pause and resume (the availability check already
// proves that); a pinned task cannot move, so any overlap is a violation.
func checkBlackoutOverlaps(tasks []domain.Task, channelByID map[string]*domain.Channel) []domain.Violation {
	var violations []domain.Violation
	for _, t := range tasks {
		if !t.Pinned {
			continue
		}
		channel, ok := channelByID[t.ChannelID]
		if !ok {
			continue
		}
		exclusions := calendar.BlackoutIntervals(channel.Blackouts)
		if calendar.OverlapsExclusion(t.StartTime, t.EndTime, exclusions) {
			violations = append(violations, domain.Violation{
				Kind:          domain.ViolationBlackoutOverlap,
				TaskID:        t.ID,
				TaskReference: t.Reference,
				Message: fmt.Sprintf("regulatory hold %s overlaps a blackout window and cannot be moved",
					t.Reference),
			})
		}
	}
	return violations
}

// checkPinnedMoved: the scheduler should never move a hold, but we verify.
func checkPinnedMoved(tasks, original []domain.Task) []domain.Violation {
	var violations []domain.Violation
	originalByID := make(map[string]*domain.Task, len(original))
	for i := range original {
		originalByID[original[i].ID] = &original[i]
	}

	for _, t := range tasks {
		if !t.Pinned {
			continue
		}
		orig, ok := originalByID[t.ID]
		if !ok {
			continue
		}
		if !t.StartTime.Equal(orig.StartTime) || !t.EndTime.Equal(orig.EndTime) {
			violations = append(violations, domain.Violation{
				Kind:          domain.ViolationPinnedTaskMoved,
				TaskID:        t.ID,
				TaskReference: t.Reference,
				Message: fmt.Sprintf("regulatory hold %s was moved from its original schedule (%s - %s -> %s - %s)",
					t.Reference,
					orig.StartTime.Format(timeLayout), orig.EndTime.Format(timeLayout),
					t.StartTime.Format(timeLayout), t.EndTime.Format(timeLayout)),
			})
		}
	}
	return violations
}
