package dag

import (
	"errors"
	"testing"
	"time"

	"github.com/settleflow/reflow/internal/domain"
)

func task(id string, start time.Time, deps ...string) domain.Task {
	if deps == nil {
		deps = []string{}
	}
	return domain.Task{ID: id, Reference: id, StartTime: start, DependsOn: deps}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.January, 15, hour, minute, 0, 0, time.UTC)
}

func assertOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order length = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortChain(t *testing.T) {
	tasks := []domain.Task{
		task("c", at(11, 0), "b"),
		task("a", at(9, 0)),
		task("b", at(10, 0), "a"),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "a", "b", "c")
}

func TestSortReadyTasksOrderedByStartTime(t *testing.T) {
	// All independent: the order follows original start times, not input order.
	tasks := []domain.Task{
		task("late", at(12, 0)),
		task("early", at(8, 0)),
		task("mid", at(10, 0)),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "early", "mid", "late")
}

func TestSortTieBrokenByInputPosition(t *testing.T) {
	tasks := []domain.Task{
		task("first", at(9, 0)),
		task("second", at(9, 0)),
		task("third", at(9, 0)),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "first", "second", "third")
}

func TestSortDiamondMergesByStartTime(t *testing.T) {
	// a fans out to b and c; both gate d. c's original start precedes b's, so
	// c is emitted first even though b appears first in the input.
	tasks := []domain.Task{
		task("a", at(8, 0)),
		task("b", at(11, 0), "a"),
		task("c", at(10, 0), "a"),
		task("d", at(12, 0), "b", "c"),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "a", "c", "b", "d")
}

func TestSortNewlyReadyMergedNotAppended(t *testing.T) {
	// r1's child becomes ready while r2 is still queued. The child's earlier
	// start time places it ahead of r2.
	tasks := []domain.Task{
		task("r1", at(9, 0)),
		task("r2", at(12, 0)),
		task("child", at(10, 0), "r1"),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "r1", "child", "r2")
}

func TestSortIgnoresUnknownDependencies(t *testing.T) {
	tasks := []domain.Task{
		task("a", at(9, 0), "ghost"),
		task("b", at(10, 0), "a", "another-ghost"),
	}
	order, err := Sort(tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertOrder(t, order, "a", "b")
}

func TestSortCycle(t *testing.T) {
	tasks := []domain.Task{
		task("a", at(9, 0), "c"),
		task("b", at(10, 0), "a"),
		task("c", at(11, 0), "b"),
		task("free", at(8, 0)),
	}
	order, err := Sort(tasks)
	if order != nil {
		t.Fatalf("expected no partial order on cycle, got %v", order)
	}

	var cycleErr *domain.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *domain.CycleError, got %T: %v", err, err)
	}
	assertOrder(t, cycleErr.Remaining, "a", "b", "c")
}

func TestSortEmpty(t *testing.T) {
	order, err := Sort(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order == nil || len(order) != 0 {
		t.Fatalf("expected empty non-nil order, got %v", order)
	}
}
