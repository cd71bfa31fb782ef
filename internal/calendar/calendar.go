// Package calendar answers "when is this channel available?" against two
// independent constraint sources: recurring weekly operating hours and
// absolute blackout windows. All arithmetic is minute-granular over UTC
// instants; day boundaries come from the calendar date, never from elapsed
// offsets.
package calendar

import (
	"sort"
	"time"

	"github.com/settleflow/reflow/internal/domain"
)

// DefaultMaxDays bounds every forward day-by-day scan. Exhausting it means
// the channel is effectively unschedulable (e.g. no operating hours at all)
// and is reported upstream as a per-task error.
const DefaultMaxDays = 365

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the interval length in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t lies inside the interval. The start is
// inclusive, the end exclusive.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WindowsForDay derives the concrete operating intervals on the calendar day
// containing `day`, by matching its weekday against every operating-hour
// slot. Multiple slots per day (split shifts) are supported; the result is
// sorted by start. Empty means the channel is closed that day.
//
// domain.HourSlot.DayOfWeek uses 0=Sunday, which matches time.Weekday.
func WindowsForDay(day time.Time, hours []domain.HourSlot) []Interval {
	dow := int(day.UTC().Weekday())
	ds := dayStart(day)

	var windows []Interval
	for _, slot := range hours {
		if slot.DayOfWeek != dow {
			continue
		}
		start := ds.Add(time.Duration(slot.StartHour) * time.Hour)
		end := ds.Add(time.Duration(slot.EndHour) * time.Hour)
		if end.After(start) {
			windows = append(windows, Interval{Start: start, End: end})
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// BlackoutIntervals converts blackout windows to intervals.
func BlackoutIntervals(blackouts []domain.Blackout) []Interval {
	out := make([]Interval, 0, len(blackouts))
	for _, b := range blackouts {
		out = append(out, Interval{Start: b.StartTime.UTC(), End: b.EndTime.UTC()})
	}
	return out
}

// SubtractExclusions removes every exclusion interval from the given
// windows: full removal when an exclusion covers a window, a two-way split
// when it falls in the middle, truncation when it clips one edge. Interval
// subtraction is commutative, so exclusion order does not affect the result.
func SubtractExclusions(windows, exclusions []Interval) []Interval {
	result := append([]Interval(nil), windows...)
	for _, ex := range exclusions {
		var next []Interval
		for _, w := range result {
			if !w.Overlaps(ex) {
				next = append(next, w)
				continue
			}
			if ex.Start.After(w.Start) {
				left := Interval{Start: w.Start, End: ex.Start}
				if left.Minutes() > 0 {
					next = append(next, left)
				}
			}
			if ex.End.Before(w.End) {
				right := Interval{Start: ex.End, End: w.End}
				if right.Minutes() > 0 {
					next = append(next, right)
				}
			}
		}
		result = next
	}
	return result
}

// NextAvailableInstant scans forward day by day from `from`. If `from` lies
// inside an available (post-exclusion) window it is returned unchanged;
// otherwise the start of the next available window is returned. ok is false
// when no window exists within maxDays.
func NextAvailableInstant(from time.Time, hours []domain.HourSlot, exclusions []Interval, maxDays int) (time.Time, bool) {
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	current := from.UTC()
	for d := 0; d < maxDays; d++ {
		available := SubtractExclusions(WindowsForDay(current, hours), exclusions)
		for _, w := range available {
			if w.Contains(current) {
				return current, true
			}
			if w.Start.After(current) {
				return w.Start, true
			}
		}
		current = dayStart(current).AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// AdvanceByDuration consumes `minutes` of available channel time starting at
// `start`, pausing at the close of one window and resuming at the start of
// the next, skipping fully-excluded days entirely. Zero or negative duration
// returns `start` unchanged. ok is false when the duration cannot be
// consumed within maxDays.
func AdvanceByDuration(start time.Time, minutes int, hours []domain.HourSlot, exclusions []Interval, maxDays int) (time.Time, bool) {
	if minutes <= 0 {
		return start, true
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}

	remaining := minutes
	current := start.UTC()
	for d := 0; d < maxDays; d++ {
		available := SubtractExclusions(WindowsForDay(current, hours), exclusions)
		for _, w := range available {
			var effStart time.Time
			switch {
			case w.Contains(current):
				effStart = current
			case w.Start.After(current):
				effStart = w.Start
			default:
				// Window closed before `current`, skip it.
				continue
			}

			avail := int(w.End.Sub(effStart) / time.Minute)
			if avail <= 0 {
				continue
			}
			if remaining <= avail {
				return effStart.Add(time.Duration(remaining) * time.Minute), true
			}
			remaining -= avail
		}
		current = dayStart(current).AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// AvailableMinutesBetween sums the available (post-exclusion) minutes
// strictly within [from, to). Used for utilization and idle reporting and by
// the verifier's availability-conformance check, never for placement.
func AvailableMinutesBetween(from, to time.Time, hours []domain.HourSlot, exclusions []Interval) int {
	from, to = from.UTC(), to.UTC()
	if !to.After(from) {
		return 0
	}

	total := 0
	current := from
	maxDays := int(to.Sub(from)/(24*time.Hour)) + 2
	for d := 0; d < maxDays; d++ {
		available := SubtractExclusions(WindowsForDay(current, hours), exclusions)
		for _, w := range available {
			effStart := w.Start
			if from.After(effStart) {
				effStart = from
			}
			effEnd := w.End
			if to.Before(effEnd) {
				effEnd = to
			}
			if effEnd.After(effStart) {
				total += int(effEnd.Sub(effStart) / time.Minute)
			}
		}
		current = dayStart(current).AddDate(0, 0, 1)
		if current.After(to) {
			break
		}
	}
	return total
}

// OverlapsExclusion reports whether [start, end) intersects any exclusion.
// Only pinned tasks are validated with this; movable tasks pause through
// exclusions instead.
func OverlapsExclusion(start, end time.Time, exclusions []Interval) bool {
	window := Interval{Start: start.UTC(), End: end.UTC()}
	for _, ex := range exclusions {
		if window.Overlaps(ex) {
			return true
		}
	}
	return false
}
