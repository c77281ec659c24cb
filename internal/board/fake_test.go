package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kanban/internal/models"
	"kanban/internal/storage"
)

type call struct {
	Op         string
	Collection string
	ID         string
	Fields     models.Fields
}

// fakeAdapter records every call and fails on demand.
type fakeAdapter struct {
	mu        sync.Mutex
	calls     []call
	nextID    int
	createErr error
	updateErr error
	deleteErr error
	subErr    error
	feed      chan storage.Snapshot
	sub       *storage.Subscription
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{feed: make(chan storage.Snapshot, 4)}
}

func (f *fakeAdapter) Subscribe(ctx context.Context, collection string) (*storage.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.calls = append(f.calls, call{Op: "subscribe", Collection: collection})
	f.sub = storage.NewSubscription(f.feed, nil)
	return f.sub, nil
}

// fail ends the feed the way a store does when it disconnects.
func (f *fakeAdapter) fail(err error) {
	f.mu.Lock()
	sub := f.sub
	f.mu.Unlock()
	sub.Fail(err)
	close(f.feed)
}

func (f *fakeAdapter) Create(ctx context.Context, collection string, fields models.Fields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "create", Collection: collection, Fields: fields})
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	return fmt.Sprintf("new-%d", f.nextID), nil
}

func (f *fakeAdapter) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "update", Collection: collection, ID: id, Fields: fields})
	return f.updateErr
}

func (f *fakeAdapter) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "delete", Collection: collection, ID: id})
	return f.deleteErr
}

// writes returns recorded create, update and delete calls.
func (f *fakeAdapter) writes() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Op != "subscribe" {
			out = append(out, c)
		}
	}
	return out
}

var testDate = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func task(id string, status models.Status, priority models.Priority) models.Task {
	return models.Task{
		ID: id,
		Fields: models.Fields{
			Title:       "Task " + id,
			Description: "about " + id,
			Status:      status,
			Date:        testDate,
			Priority:    priority,
		},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
