package storage

import (
	"context"
	"errors"
	"sync"

	"kanban/internal/models"
)

var (
	// ErrNotFound is returned by Update and Delete when the document is gone.
	// Callers treat it as a non-fatal outcome.
	ErrNotFound = errors.New("document not found")
	// ErrClosed ends subscriptions when the store shuts down.
	ErrClosed = errors.New("store closed")
)

// Snapshot is the complete listing of a collection at one point in time.
type Snapshot struct {
	Collection string
	Tasks      []models.Task
}

// Adapter is the document store the board keeps in sync with.
type Adapter interface {
	// Subscribe streams a snapshot now and after every change to the collection.
	Subscribe(ctx context.Context, collection string) (*Subscription, error)
	// Create stores a new task and returns the identifier assigned to it.
	Create(ctx context.Context, collection string, fields models.Fields) (string, error)
	// Update overwrites every field of an existing task.
	Update(ctx context.Context, collection, id string, fields models.Fields) error
	Delete(ctx context.Context, collection, id string) error
}

// Subscription is a live feed of snapshots for one collection.
type Subscription struct {
	snapshots <-chan Snapshot
	stop      func()
	once      sync.Once

	mu  sync.Mutex
	err error
}

// NewSubscription wraps a snapshot channel owned by a store. stop is called
// once on Unsubscribe and must make the producer close the channel.
func NewSubscription(snapshots <-chan Snapshot, stop func()) *Subscription {
	return &Subscription{snapshots: snapshots, stop: stop}
}

// Snapshots returns the feed. The channel is closed when the subscription ends.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

// Fail records why the feed ended. Producers call it before closing the channel.
func (s *Subscription) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Err returns the failure that ended the feed, or nil if it was unsubscribed.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}
