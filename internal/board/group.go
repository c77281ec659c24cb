package board

import (
	"cmp"
	"slices"

	"kanban/internal/models"
)

// Column is one status lane with its tasks in display order.
type Column struct {
	Status models.Status `json:"status"`
	Tasks  []models.Task `json:"tasks"`
}

// View is the board as it is rendered: one column per status, each sorted by
// priority rank.
type View struct {
	Columns []Column `json:"columns"`
	// Unassigned holds tasks whose status matches no column.
	Unassigned []models.Task `json:"unassigned,omitempty"`
}

// Column returns the tasks of the given status.
func (v View) Column(status models.Status) []models.Task {
	for _, c := range v.Columns {
		if c.Status == status {
			return c.Tasks
		}
	}
	return nil
}

func (v View) clone() View {
	out := View{Columns: make([]Column, len(v.Columns))}
	for i, c := range v.Columns {
		out.Columns[i] = Column{Status: c.Status, Tasks: slices.Clone(c.Tasks)}
	}
	if len(v.Unassigned) > 0 {
		out.Unassigned = slices.Clone(v.Unassigned)
	}
	return out
}

// Group partitions tasks by status and orders every column by priority rank.
// Tasks of equal rank keep their order from the input. Group does not modify
// its argument.
func Group(tasks []models.Task) View {
	view := View{Columns: make([]Column, len(models.Statuses))}
	index := make(map[models.Status]int, len(models.Statuses))
	for i, s := range models.Statuses {
		view.Columns[i] = Column{Status: s, Tasks: []models.Task{}}
		index[s] = i
	}

	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			view.Unassigned = append(view.Unassigned, t)
			continue
		}
		view.Columns[i].Tasks = append(view.Columns[i].Tasks, t)
	}

	for i := range view.Columns {
		slices.SortStableFunc(view.Columns[i].Tasks, byPriority)
	}
	return view
}

func byPriority(a, b models.Task) int {
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}
