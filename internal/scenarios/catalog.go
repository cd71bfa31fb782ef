// Package scenarios holds the named example inputs served for demonstration
// and exercised by the integration tests. Every scenario resolves to a full
// input triple; fixtures are rebuilt on each call so callers can mutate them
// freely.
package scenarios

import "github.com/settleflow/reflow/internal/domain"

// Scenario is one named, self-contained reflow input.
type Scenario struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Input       domain.Input `json:"input"`
}

// Catalog returns all scenarios in presentation order.
func Catalog() []Scenario {
	return []Scenario{
		{
			Key:  "delay-cascade",
			Name: "Scenario 1: Delay Cascade",
			Description: "Fund transfer arrives 3 hours late. Margin check, disbursement, " +
				"and reconciliation all shift downstream through the dependency chain.",
			Input: delayCascade(),
		},
		{
			Key:  "blackout",
			Name: "Scenario 2: Market Hours + Blackout",
			Description: "120-min task starts Mon 3PM. Pauses at market close, skips the " +
				"Tue 8-9AM Fedwire blackout, completes Tue 10AM.",
			Input: blackout(),
		},
		{
			Key:  "multi-constraint",
			Name: "Scenario 3: Multi-Constraint",
			Description: "Dependencies + channel conflict + blackout simultaneously. Task B " +
				"blocked by A and a blackout, Task C queued behind B.",
			Input: multiConstraint(),
		},
		{
			Key:  "channel-contention",
			Name: "Scenario 4: Channel Contention",
			Description: "3 independent tasks compete for one ACH channel. Greedy " +
				"earliest-fit sequences them without overlaps.",
			Input: channelContention(),
		},
		{
			Key:  "circular-dependency",
			Name: "Scenario 5a: Circular Dependency",
			Description: "Task A depends on B, B depends on A. The cycle is detected " +
				"before scheduling begins.",
			Input: circularDependency(),
		},
		{
			Key:  "regulatory-hold-conflict",
			Name: "Scenario 5b: Regulatory Hold Conflict",
			Description: "Pinned regulatory hold overlaps a blackout window. The hold " +
				"cannot move, so the conflict is reported as an error.",
			Input: regulatoryHoldConflict(),
		},
		{
			Key:  "deadline-breach",
			Name: "Scenario 5c: Deadline Breach",
			Description: "Late start + cascading dependencies push the final task past " +
				"the T+1 settlement deadline.",
			Input: deadlineBreach(),
		},
	}
}

// Get resolves a scenario by key.
func Get(key string) (Scenario, bool) {
	for _, s := range Catalog() {
		if s.Key == key {
			return s, true
		}
	}
	return Scenario{}, false
}
