// Package dag orders the task graph for scheduling.
package dag

import (
	"github.com/settleflow/reflow/internal/domain"
)

// Sort produces one valid linear execution order over the task ids using
// Kahn's algorithm: upstream tasks always precede their dependents.
//
// Simultaneously-ready tasks are ordered by ascending original start time,
// ties broken by input position, and tasks that become ready mid-algorithm
// are merged into the ready queue at their sorted position rather than
// appended, so the order is fully deterministic for a given input.
//
// Dependency ids that reference no task in the input are ignored. If a cycle
// exists, Sort returns a *domain.CycleError listing every unordered task id
// and no partial order.
func Sort(tasks []domain.Task) ([]string, error) {
	if len(tasks) == 0 {
		return []string{}, nil
	}

	index := make(map[string]int, len(tasks)) // id → input position
	byID := make(map[string]*domain.Task, len(tasks))
	for i := range tasks {
		index[tasks[i].ID] = i
		byID[tasks[i].ID] = &tasks[i]
	}

	// Edges point upstream → downstream.
	adjacency := make(map[string][]string, len(tasks))
	inDegree := make(map[string]int, len(tasks))
	for _, t := range tasks {
		inDegree[t.ID] += 0
		for _, depID := range t.DependsOn {
			if _, known := byID[depID]; !known {
				continue
			}
			adjacency[depID] = append(adjacency[depID], t.ID)
			inDegree[t.ID]++
		}
	}

	less := func(a, b string) bool {
		ta, tb := byID[a], byID[b]
		if !ta.StartTime.Equal(tb.StartTime) {
			return ta.StartTime.Before(tb.StartTime)
		}
		return index[a] < index[b]
	}

	var queue []string
	for _, t := range tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}
	sortIDs(queue, less)

	order := make([]string, 0, len(tasks))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		var ready []string
		for _, next := range adjacency[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
		if len(ready) > 0 {
			sortIDs(ready, less)
			queue = merge(queue, ready, less)
		}
	}

	if len(order) != len(tasks) {
		emitted := make(map[string]bool, len(order))
		for _, id := range order {
			emitted[id] = true
		}
		var remaining []string
		for _, t := range tasks {
			if !emitted[t.ID] {
				remaining = append(remaining, t.ID)
			}
		}
		return nil, &domain.CycleError{Remaining: remaining}
	}
	return order, nil
}

// sortIDs is an insertion sort: ready sets are tiny and the comparator is
// already deterministic, so this keeps the hot path allocation-free.
func sortIDs(ids []string, less func(a, b string) bool) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && less(ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

// merge combines two queues already sorted under less, preserving the global
// order.
func merge(a, b []string, less func(x, y string) bool) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if !less(b[j], a[i]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
