package board

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"kanban/internal/models"
)

func TestGroup_SortsColumnByPriority(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusTodo, models.PriorityLow),
		task("2", models.StatusTodo, models.PriorityHigh),
		task("3", models.StatusTodo, models.PriorityMedium),
	}

	got := ids(Group(tasks).Column(models.StatusTodo))
	want := []string{"2", "3", "1"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestGroup_ColumnsInDisplayOrder(t *testing.T) {
	view := Group(nil)

	if len(view.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(view.Columns))
	}
	for i, s := range models.Statuses {
		if view.Columns[i].Status != s {
			t.Errorf("column %d: expected %q, got %q", i, s, view.Columns[i].Status)
		}
		if view.Columns[i].Tasks == nil {
			t.Errorf("column %q: expected empty slice, got nil", s)
		}
	}
}

func TestGroup_StableForEqualPriority(t *testing.T) {
	tasks := []models.Task{
		task("a", models.StatusInProgress, models.PriorityMedium),
		task("b", models.StatusInProgress, models.PriorityHigh),
		task("c", models.StatusInProgress, models.PriorityMedium),
		task("d", models.StatusInProgress, models.PriorityHigh),
		task("e", models.StatusInProgress, models.PriorityMedium),
	}

	got := ids(Group(tasks).Column(models.StatusInProgress))
	want := []string{"b", "d", "a", "c", "e"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestGroup_UnknownPrioritySortsLast(t *testing.T) {
	tasks := []models.Task{
		task("x", models.StatusTodo, "Someday"),
		task("l", models.StatusTodo, models.PriorityLow),
		task("y", models.StatusTodo, ""),
		task("h", models.StatusTodo, models.PriorityHigh),
	}

	got := ids(Group(tasks).Column(models.StatusTodo))
	want := []string{"h", "l", "x", "y"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestGroup_UnknownStatusIsUnassigned(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusTodo, models.PriorityLow),
		task("2", "BLOCKED", models.PriorityHigh),
	}

	view := Group(tasks)
	if got := ids(view.Unassigned); !slices.Equal(got, []string{"2"}) {
		t.Fatalf("expected unassigned [2], got %v", got)
	}
	if got := ids(view.Column(models.StatusTodo)); !slices.Equal(got, []string{"1"}) {
		t.Errorf("expected TODO [1], got %v", got)
	}
}

func TestGroup_DoesNotModifyInput(t *testing.T) {
	tasks := []models.Task{
		task("1", models.StatusTodo, models.PriorityLow),
		task("2", models.StatusTodo, models.PriorityHigh),
	}
	before := ids(tasks)

	Group(tasks)

	if got := ids(tasks); !slices.Equal(got, before) {
		t.Fatalf("input reordered: %v", got)
	}
}

func randomTasks(r *rand.Rand, n int) []models.Task {
	statuses := append(slices.Clone(models.Statuses), "ARCHIVED")
	priorities := []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow, "Urgent"}
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = task(fmt.Sprintf("t%d", i), statuses[r.Intn(len(statuses))], priorities[r.Intn(len(priorities))])
	}
	return tasks
}

func TestGroup_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		tasks := randomTasks(r, r.Intn(30))
		view := Group(tasks)

		// partition: every id exactly once
		seen := make(map[string]int)
		for _, c := range view.Columns {
			for _, tk := range c.Tasks {
				seen[tk.ID]++
				if tk.Status != c.Status {
					t.Fatalf("round %d: task %s with status %q in column %q", round, tk.ID, tk.Status, c.Status)
				}
			}
		}
		for _, tk := range view.Unassigned {
			seen[tk.ID]++
		}
		if len(seen) != len(tasks) {
			t.Fatalf("round %d: expected %d ids, got %d", round, len(tasks), len(seen))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("round %d: id %s appears %d times", round, id, n)
			}
		}

		position := make(map[string]int, len(tasks))
		for i, tk := range tasks {
			position[tk.ID] = i
		}
		for _, c := range view.Columns {
			for i := 1; i < len(c.Tasks); i++ {
				a, b := c.Tasks[i-1], c.Tasks[i]
				if a.Priority.Rank() > b.Priority.Rank() {
					t.Fatalf("round %d: %s (rank %d) before %s (rank %d)", round, a.ID, a.Priority.Rank(), b.ID, b.Priority.Rank())
				}
				if a.Priority.Rank() == b.Priority.Rank() && position[a.ID] > position[b.ID] {
					t.Fatalf("round %d: equal-priority %s and %s lost source order", round, a.ID, b.ID)
				}
			}
		}

		// idempotent
		again := Group(tasks)
		for i := range view.Columns {
			if !slices.Equal(ids(view.Columns[i].Tasks), ids(again.Columns[i].Tasks)) {
				t.Fatalf("round %d: regrouping changed column %q", round, view.Columns[i].Status)
			}
		}
	}
}
