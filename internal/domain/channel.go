package domain

import "time"

// HourSlot is one recurring weekly operating window: [StartHour, EndHour) on
// the given weekday. DayOfWeek follows time.Weekday numbering (0 = Sunday).
// A channel may carry several slots on the same day (split shifts).
type HourSlot struct {
	DayOfWeek int `json:"day_of_week"`
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// Blackout is an absolute, non-recurring window [StartTime, EndTime) during
// which the channel is unavailable regardless of its operating hours.
type Blackout struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason,omitempty"`
}

// Channel is a settlement facility. Only one task may occupy it at a time.
// Immutable for the duration of one reflow run.
type Channel struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	OperatingHours []HourSlot `json:"operating_hours"`
	Blackouts      []Blackout `json:"blackouts"`
}

// Order is a trade order; only its settlement deadline matters to the engine.
type Order struct {
	ID           string    `json:"id"`
	Number       string    `json:"number"`
	InstrumentID string    `json:"instrument_id,omitempty"`
	Quantity     int       `json:"quantity,omitempty"`
	Deadline     time.Time `json:"deadline"`
}
