package reflow

import (
	"math"
	"sort"
	"time"

	"github.com/settleflow/reflow/internal/calendar"
	"github.com/settleflow/reflow/internal/domain"
)

// computeMetrics diffs the original task set against the scheduled one:
// total delay and affected count, per-channel utilization and idle minutes,
// and deadline breaches against the owning orders.
func computeMetrics(original, updated []domain.Task, channels []domain.Channel, orders []domain.Order) domain.Metrics {
	metrics := domain.ZeroMetrics()

	originalByID := make(map[string]*domain.Task, len(original))
	for i := range original {
		originalByID[original[i].ID] = &original[i]
	}
	orderByID := make(map[string]*domain.Order, len(orders))
	for i := range orders {
		orderByID[orders[i].ID] = &orders[i]
	}
	channelByID := make(map[string]*domain.Channel, len(channels))
	for i := range channels {
		channelByID[channels[i].ID] = &channels[i]
	}

	// Delay: signed sum of end-time deltas over tasks present in both sets.
	for _, upd := range updated {
		orig, ok := originalByID[upd.ID]
		if !ok {
			continue
		}
		delta := int(upd.EndTime.Sub(orig.EndTime) / time.Minute)
		if delta != 0 {
			metrics.TotalDelayMinutes += delta
			metrics.TasksAffected++
		}
	}

	byChannel := make(map[string][]domain.Task)
	for _, t := range updated {
		byChannel[t.ChannelID] = append(byChannel[t.ChannelID], t)
	}

	for channelID, channelTasks := range byChannel {
		channel, ok := channelByID[channelID]
		if !ok || len(channelTasks) == 0 {
			continue
		}

		sorted := append([]domain.Task(nil), channelTasks...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		})

		firstStart := sorted[0].StartTime
		lastEnd := sorted[0].EndTime
		for _, t := range sorted {
			if t.EndTime.After(lastEnd) {
				lastEnd = t.EndTime
			}
		}

		exclusions := calendar.BlackoutIntervals(channel.Blackouts)
		available := calendar.AvailableMinutesBetween(firstStart, lastEnd, channel.OperatingHours, exclusions)

		processing := 0
		for _, t := range channelTasks {
			processing += t.EffectiveMinutes()
		}

		if available > 0 {
			metrics.ChannelUtilization[channelID] = math.Round(float64(processing)/float64(available)*100) / 100
		} else {
			metrics.ChannelUtilization[channelID] = 0
		}

		// Idle: available minutes in the gaps between consecutive tasks.
		idle := 0
		for i := 0; i+1 < len(sorted); i++ {
			gapStart := sorted[i].EndTime
			gapEnd := sorted[i+1].StartTime
			if gapEnd.After(gapStart) {
				idle += calendar.AvailableMinutesBetween(gapStart, gapEnd, channel.OperatingHours, exclusions)
			}
		}
		metrics.ChannelIdleMinutes[channelID] = idle
	}

	for _, upd := range updated {
		order, ok := orderByID[upd.OrderID]
		if !ok {
			continue
		}
		if upd.EndTime.After(order.Deadline) {
			metrics.DeadlineBreaches = append(metrics.DeadlineBreaches, domain.DeadlineBreach{
				TaskID:        upd.ID,
				OrderID:       order.ID,
				Deadline:      order.Deadline,
				ActualEnd:     upd.EndTime,
				BreachMinutes: int(upd.EndTime.Sub(order.Deadline) / time.Minute),
			})
		}
	}

	return metrics
}
