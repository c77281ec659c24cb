package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"kanban/internal/models"
	"kanban/internal/storage"
)

// ErrNoPendingDelete is returned by ResolveDelete when no deletion awaits
// confirmation.
var ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

// ErrDeletePending is returned by Save while the surface asks for a delete
// confirmation.
var ErrDeletePending = errors.New("delete awaiting confirmation")

// AdapterError wraps a failed store call.
type AdapterError struct {
	Op  string
	ID  string
	Err error
}

func (e *AdapterError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s task: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s task %s: %v", e.Op, e.ID, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// ConfirmFunc asks the user whether the task may be deleted.
type ConfirmFunc func(id string) bool

// Controller turns user intent into store calls. It never writes the
// collection itself; changes come back through the next snapshot.
type Controller struct {
	adapter    storage.Adapter
	collection string
	state      *State
	logger     *slog.Logger
	now        func() time.Time

	mu            sync.Mutex
	surface       Surface
	beforeConfirm Surface
}

// NewController builds a controller writing to the named collection.
func NewController(adapter storage.Adapter, collection string, state *State, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		adapter:    adapter,
		collection: collection,
		state:      state,
		logger:     logger,
		now:        time.Now,
		surface:    idleSurface(),
	}
}

// Surface returns the current state of the editing surface.
func (c *Controller) Surface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

func (c *Controller) setSurface(s Surface) {
	c.mu.Lock()
	c.surface = s
	c.mu.Unlock()
}

// BeginCreate opens the surface with a fresh draft.
func (c *Controller) BeginCreate() Surface {
	s := creatingSurface(models.DefaultFields(c.now()))
	c.setSurface(s)
	return s
}

// BeginEdit opens the surface seeded with the task. A task that is no longer
// in the collection opens a blank draft instead.
func (c *Controller) BeginEdit(id string) Surface {
	t, ok := c.state.Current().Get(id)
	if !ok {
		c.logger.Debug("edited task not in collection, opening blank draft", slog.String("id", id))
		return c.BeginCreate()
	}
	s := editingSurface(t)
	c.setSurface(s)
	return s
}

// Close dismisses the surface. In-flight saves are not affected.
func (c *Controller) Close() {
	c.setSurface(idleSurface())
}

// Save commits the draft, updating the task being edited or creating a new one.
// It is refused while a delete waits for confirmation.
func (c *Controller) Save(ctx context.Context, fields models.Fields) (string, error) {
	s := c.Surface()
	if s.Mode == ConfirmingDelete {
		return "", ErrDeletePending
	}
	editingID := ""
	if s.Mode == Editing {
		editingID = s.TaskID
	}
	return c.CreateOrUpdate(ctx, fields, editingID)
}

// CreateOrUpdate validates the draft and writes it. With a non-empty
// editingID the task is overwritten; otherwise a new one is created. On
// success the surface closes if it was the one drafting this write.
func (c *Controller) CreateOrUpdate(ctx context.Context, fields models.Fields, editingID string) (string, error) {
	id, err := c.Write(ctx, fields, editingID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	switch {
	case c.surface.Mode == Editing && editingID != "" && c.surface.TaskID == editingID,
		c.surface.Mode == Creating && editingID == "":
		c.surface = idleSurface()
	}
	c.mu.Unlock()
	return id, nil
}

// Write is CreateOrUpdate for callers outside the editor. The surface is
// never touched.
func (c *Controller) Write(ctx context.Context, fields models.Fields, editingID string) (string, error) {
	if err := fields.Validate(); err != nil {
		return "", err
	}

	if editingID == "" {
		id, err := c.adapter.Create(ctx, c.collection, fields)
		if err != nil {
			return "", &AdapterError{Op: "create", Err: err}
		}
		c.logger.Info("task created", slog.String("id", id), slog.String("status", string(fields.Status)))
		return id, nil
	}

	if err := c.update(ctx, editingID, fields); err != nil {
		return "", err
	}
	c.logger.Info("task updated", slog.String("id", editingID))
	return editingID, nil
}

// ChangeStatus moves a task to another column by overwriting it with its
// current fields and the new status. Tasks missing from the collection are
// ignored.
func (c *Controller) ChangeStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return &models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	t, ok := c.state.Current().Get(id)
	if !ok {
		c.logger.Debug("status change for task not in collection", slog.String("id", id))
		return nil
	}
	if err := c.update(ctx, id, t.Fields.WithStatus(status)); err != nil {
		return err
	}
	c.logger.Info("task moved", slog.String("id", id), slog.String("from", string(t.Status)), slog.String("to", string(status)))
	return nil
}

// RequestDelete asks for confirmation before the task is deleted.
func (c *Controller) RequestDelete(id string) Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface.Mode != ConfirmingDelete {
		c.beforeConfirm = c.surface
	}
	c.surface = confirmingSurface(id)
	return c.surface
}

// ResolveDelete answers the pending confirmation. The surface goes back to
// where it was; only a confirmed request reaches the store.
func (c *Controller) ResolveDelete(ctx context.Context, confirmed bool) error {
	c.mu.Lock()
	if c.surface.Mode != ConfirmingDelete {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := c.surface.TaskID
	c.surface = c.beforeConfirm
	c.beforeConfirm = Surface{}
	c.mu.Unlock()

	if !confirmed {
		c.logger.Debug("delete declined", slog.String("id", id))
		return nil
	}
	return c.deleteTask(ctx, id)
}

// Delete asks confirm and deletes the task if it agrees. A nil confirm
// declines. The editing surface is not involved.
func (c *Controller) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(id) {
		c.logger.Debug("delete declined", slog.String("id", id))
		return nil
	}
	return c.deleteTask(ctx, id)
}

func (c *Controller) deleteTask(ctx context.Context, id string) error {
	err := c.adapter.Delete(ctx, c.collection, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.logger.Warn("deleted task already gone", slog.String("id", id))
		return nil
	case err != nil:
		return &AdapterError{Op: "delete", ID: id, Err: err}
	}
	c.logger.Info("task deleted", slog.String("id", id))
	return nil
}

func (c *Controller) update(ctx context.Context, id string, fields models.Fields) error {
	err := c.adapter.Update(ctx, c.collection, id, fields)
	if errors.Is(err, storage.ErrNotFound) {
		// the next snapshot drops it
		c.logger.Warn("updated task no longer exists", slog.String("id", id))
		return nil
	}
	if err != nil {
		return &AdapterError{Op: "update", ID: id, Err: err}
	}
	return nil
}
