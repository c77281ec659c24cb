package board

import (
	"slices"
	"sync/atomic"

	"kanban/internal/models"
	"kanban/internal/realtime"
)

// Collection is an immutable mirror of one store snapshot together with the
// view derived from it.
type Collection struct {
	version uint64
	tasks   []models.Task
	index   map[string]int
	view    View
}

// Version increases by one with every snapshot applied.
func (c *Collection) Version() uint64 {
	return c.version
}

// Len returns the number of tasks in the collection.
func (c *Collection) Len() int {
	return len(c.tasks)
}

// Get looks a task up by id.
func (c *Collection) Get(id string) (models.Task, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Task{}, false
	}
	return c.tasks[i], true
}

// Tasks returns the tasks in snapshot order.
func (c *Collection) Tasks() []models.Task {
	return slices.Clone(c.tasks)
}

// View returns the grouped and sorted columns.
func (c *Collection) View() View {
	return c.view.clone()
}

func newCollection(version uint64, tasks []models.Task) *Collection {
	c := &Collection{
		version: version,
		tasks:   make([]models.Task, 0, len(tasks)),
		index:   make(map[string]int, len(tasks)),
	}
	for _, t := range tasks {
		if _, dup := c.index[t.ID]; dup {
			continue
		}
		c.index[t.ID] = len(c.tasks)
		c.tasks = append(c.tasks, t)
	}
	c.view = Group(c.tasks)
	return c
}

// State holds the current Collection. Replace has a single writer, the
// snapshot loop; everything else reads through Current.
type State struct {
	current atomic.Pointer[Collection]
	changes *realtime.Hub[*Collection]
}

func NewState() *State {
	s := &State{changes: realtime.NewHub[*Collection]()}
	s.current.Store(newCollection(0, nil))
	return s
}

// Current returns the latest collection. It never returns nil.
func (s *State) Current() *Collection {
	return s.current.Load()
}

// Replace discards the previous collection and installs the snapshot.
func (s *State) Replace(tasks []models.Task) *Collection {
	next := newCollection(s.Current().version+1, tasks)
	s.current.Store(next)
	s.changes.Broadcast(next)
	return next
}

// Watch registers for collection changes. The returned function stops the
// watch and closes the channel.
func (s *State) Watch() (<-chan *Collection, func()) {
	l := s.changes.Register()
	return l.C(), func() { s.changes.Unregister(l) }
}
