package domain

import (
	"fmt"
	"strings"
)

// CycleError is returned when the dependency graph contains at least one
// cycle. Remaining holds the ids of every task that could not be ordered.
// A cycle aborts the whole reflow run.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Remaining, " -> "))
}

// UnknownChannelError is a per-task, non-fatal error: the task references a
// channel not present in the input.
type UnknownChannelError struct {
	TaskReference string
	ChannelID     string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("task %s references unknown channel %s", e.TaskReference, e.ChannelID)
}

// HorizonExhaustedError is a per-task, non-fatal error: no available slot or
// end time could be found within the scan horizon. It usually signals a
// misconfigured channel (e.g. no operating hours at all).
type HorizonExhaustedError struct {
	TaskReference string
	Days          int
	Op            string // "find operating slot" or "compute end time"
}

func (e *HorizonExhaustedError) Error() string {
	return fmt.Sprintf("cannot %s for task %s within %d days", e.Op, e.TaskReference, e.Days)
}
