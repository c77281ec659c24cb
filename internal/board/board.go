package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"kanban/internal/storage"
)

// Board ties the live collection to the controller and the drag coordinator.
type Board struct {
	adapter    storage.Adapter
	collection string
	logger     *slog.Logger

	state       *State
	controller  *Controller
	coordinator *Coordinator
}

// New builds a board over the named collection of the store.
func New(adapter storage.Adapter, collection string, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	state := NewState()
	controller := NewController(adapter, collection, state, logger)
	return &Board{
		adapter:     adapter,
		collection:  collection,
		logger:      logger,
		state:       state,
		controller:  controller,
		coordinator: NewCoordinator(controller),
	}
}

func (b *Board) State() *State {
	return b.state
}

func (b *Board) Controller() *Controller {
	return b.controller
}

func (b *Board) Coordinator() *Coordinator {
	return b.coordinator
}

// View returns the current grouped columns.
func (b *Board) View() View {
	return b.state.Current().View()
}

// Run mirrors the store into the board until ctx is cancelled. If the feed
// fails the last collection stays in place and the error is returned.
func (b *Board) Run(ctx context.Context) error {
	sub, err := b.adapter.Subscribe(ctx, b.collection)
	if err != nil {
		return &AdapterError{Op: "subscribe", Err: err}
	}
	defer sub.Unsubscribe()

	b.logger.Info("board subscribed", slog.String("collection", b.collection))
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.Snapshots():
			if !ok {
				if err := sub.Err(); err != nil {
					b.logger.Warn("task feed lost, keeping last known tasks",
						slog.Int("tasks", b.state.Current().Len()),
						slog.String("error", err.Error()))
					return &AdapterError{Op: "subscribe", Err: err}
				}
				return nil
			}
			c := b.state.Replace(snap.Tasks)
			b.logger.Debug("snapshot applied", slog.Uint64("version", c.Version()), slog.Int("tasks", c.Len()))
		}
	}
}

// Load applies a single snapshot and returns. It suits one-shot commands that
// do not keep a live feed.
func (b *Board) Load(ctx context.Context) error {
	sub, err := b.adapter.Subscribe(ctx, b.collection)
	if err != nil {
		return &AdapterError{Op: "subscribe", Err: err}
	}
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case snap, ok := <-sub.Snapshots():
		if !ok {
			err := sub.Err()
			if err == nil {
				err = errors.New("feed ended before first snapshot")
			}
			return &AdapterError{Op: "subscribe", Err: fmt.Errorf("load %s: %w", b.collection, err)}
		}
		b.state.Replace(snap.Tasks)
		return nil
	}
}
