package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"kanban/internal/models"
	"kanban/internal/realtime"
	"kanban/internal/storage"
)

// Store is a document store on top of SQLite. Every write publishes a fresh
// snapshot of the affected collection to its subscribers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	// mu serializes writes with snapshot reads so subscribers see snapshots
	// in the order the writes happened.
	mu     sync.Mutex
	hubs   map[string]*realtime.Hub[storage.Snapshot]
	closed bool
}

var _ storage.Adapter = (*Store)(nil)

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one connection keeps ":memory:" databases alive and writes serialized
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{
		db:     conn,
		logger: logger,
		hubs:   make(map[string]*realtime.Hub[storage.Snapshot]),
	}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close ends every subscription with storage.ErrClosed and releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, hub := range s.hubs {
		hub.Close()
	}
	s.mu.Unlock()

	return s.db.Close()
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            collection TEXT NOT NULL,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'TODO',
            date DATETIME NOT NULL,
            priority TEXT NOT NULL DEFAULT 'Medium',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, seq);`,
		`CREATE TRIGGER IF NOT EXISTS trg_documents_updated
            AFTER UPDATE ON documents
            FOR EACH ROW BEGIN
                UPDATE documents SET updated_at = CURRENT_TIMESTAMP WHERE seq = OLD.seq;
            END;`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Subscribe delivers the current listing of the collection right away and a
// new one after every write. The feed ends when ctx is cancelled, when the
// subscription is stopped, or with storage.ErrClosed when the store closes.
func (s *Store) Subscribe(ctx context.Context, collection string) (*storage.Subscription, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, storage.ErrClosed
	}
	initial, err := s.snapshot(ctx, collection)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	hub := s.hubFor(collection)
	listener := hub.Register()
	s.mu.Unlock()

	out := make(chan storage.Snapshot, 1)
	out <- initial
	done := make(chan struct{})
	sub := storage.NewSubscription(out, func() { close(done) })

	go func() {
		defer close(out)
		defer hub.Unregister(listener)
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case snap, ok := <-listener.C():
				if !ok {
					sub.Fail(storage.ErrClosed)
					return
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	s.logger.Debug("subscribed", slog.String("collection", collection))
	return sub, nil
}

// Create inserts a new document and returns its generated identifier.
func (s *Store) Create(ctx context.Context, collection string, fields models.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", storage.ErrClosed
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents(id, collection, title, description, status, date, priority)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, collection, fields.Title, fields.Description, string(fields.Status), fields.Date.UTC(), string(fields.Priority))
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	s.publish(ctx, collection)
	return id, nil
}

// Update overwrites all fields of a document.
func (s *Store) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `UPDATE documents SET title = ?, description = ?, status = ?, date = ?, priority = ?
        WHERE collection = ? AND id = ?`,
		fields.Title, fields.Description, string(fields.Status), fields.Date.UTC(), string(fields.Priority), collection, id)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	s.publish(ctx, collection)
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	s.publish(ctx, collection)
	return nil
}

// hubFor must be called with s.mu held.
func (s *Store) hubFor(collection string) *realtime.Hub[storage.Snapshot] {
	hub, ok := s.hubs[collection]
	if !ok {
		hub = realtime.NewHub[storage.Snapshot]()
		s.hubs[collection] = hub
	}
	return hub
}

// publish must be called with s.mu held.
func (s *Store) publish(ctx context.Context, collection string) {
	hub, ok := s.hubs[collection]
	if !ok || hub.Len() == 0 {
		return
	}
	// the write already happened; a cancelled request must not hide it
	snap, err := s.snapshot(context.WithoutCancel(ctx), collection)
	if err != nil {
		s.logger.Error("snapshot failed", slog.String("collection", collection), slog.String("error", err.Error()))
		return
	}
	hub.Broadcast(snap)
}

func (s *Store) snapshot(ctx context.Context, collection string) (storage.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, status, date, priority
        FROM documents WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var (
			t        models.Task
			status   string
			priority string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &t.Date, &priority); err != nil {
			return storage.Snapshot{}, fmt.Errorf("scan document: %w", err)
		}
		t.Status = models.Status(status)
		t.Priority = models.Priority(priority)
		t.Date = t.Date.UTC()
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return storage.Snapshot{}, fmt.Errorf("list documents: %w", err)
	}
	return storage.Snapshot{Collection: collection, Tasks: tasks}, nil
}
