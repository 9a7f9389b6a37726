// Package sqlite provides a [ports.TodoRepository] backed by SQLite through
// the pure-Go modernc.org/sqlite driver. The default DSN is an in-memory
// database, so contents do not outlive the process unless a file DSN is
// configured.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// DefaultDSN opens a private in-memory database.
const DefaultDSN = ":memory:"

// Compile-time interface checks.
var (
	_ ports.TodoRepository = (*Repository)(nil)
	_ ports.HealthChecker  = (*Repository)(nil)
)

// AUTOINCREMENT keeps SQLite from reusing the ID of a deleted row.
const schema = `CREATE TABLE IF NOT EXISTS todos (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	title     TEXT    NOT NULL CHECK (length(trim(title)) > 0),
	completed INTEGER NOT NULL DEFAULT 0
)`

// Repository is a SQLite-backed [ports.TodoRepository].
//
// The pool is capped at a single connection. Every operation therefore runs
// serialized on that connection, and an in-memory database stays alive for as
// long as the Repository is open. A caller whose context ends while waiting
// for the connection gets the context error and nothing is written.
type Repository struct {
	db *sql.DB
}

// Open connects to dsn, applies the schema and returns a ready Repository.
// An empty dsn selects [DefaultDSN].
func Open(ctx context.Context, dsn string) (*Repository, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing sqlite database", slog.String("error", err.Error()))
	}
}

// Create inserts a new todo and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, title string) (*todo.Todo, error) {
	t, err := todo.New(title)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, completed) VALUES (?, ?)`, t.Title, t.Completed)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted todo id: %w: %w", domain.ErrInternal, err)
	}

	t.ID = id
	return &t, nil
}

// Get returns the todo with the given ID.
func (r *Repository) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	return getTodo(ctx, r.db, id)
}

// List returns all todos ordered by ID.
func (r *Repository) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.ErrorContext(ctx, "error closing rows", slog.String("error", closeErr.Error()))
		}
	}()

	out := make([]todo.Todo, 0)
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return out, nil
}

// Update applies the provided fields inside a transaction so the read and
// the write observe the same row.
func (r *Repository) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning update transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "error rolling back update", slog.String("error", rbErr.Error()))
		}
	}()

	current, err := getTodo(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated := patch.ApplyTo(*current)
	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ? WHERE id = ?`,
		updated.Title, updated.Completed, id); err != nil {
		return nil, fmt.Errorf("updating todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update of todo %d: %w", id, err)
	}
	return &updated, nil
}

// Delete removes the todo with the given ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w: %w", domain.ErrInternal, err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Name implements [ports.HealthChecker].
func (r *Repository) Name() string {
	return "todo-store"
}

// HealthCheck pings the database.
func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}

// Close releases the database. An in-memory database is discarded.
func (r *Repository) Close() error {
	return r.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTodo(ctx context.Context, q queryer, id int64) (*todo.Todo, error) {
	var t todo.Todo
	err := q.QueryRowContext(ctx,
		`SELECT id, title, completed FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching todo %d: %w", id, err)
	}
	return &t, nil
}
