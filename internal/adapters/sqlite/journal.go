package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/csg33k/household-census/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Journal records submission attempt outcomes. It never stores census
// field values.
type Journal struct {
	db *sql.DB
}

// Open opens the SQLite database at dsn and applies pending migrations.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writes
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Journal{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) Append(ctx context.Context, a *domain.SubmissionAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO submission_attempts (outcome, members, children, message, duration_ms, created_at)
		VALUES (?,?,?,?,?,?)`,
		string(a.Outcome), a.Members, a.Children, a.Message,
		a.Duration.Milliseconds(), a.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	a.ID = id
	return nil
}

// Recent returns up to limit attempts, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.SubmissionAttempt, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, outcome, members, children, message, duration_ms, created_at
		FROM submission_attempts
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SubmissionAttempt
	for rows.Next() {
		var a domain.SubmissionAttempt
		var outcome string
		var ms int64
		if err := rows.Scan(&a.ID, &outcome, &a.Members, &a.Children, &a.Message, &ms, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Outcome = domain.Outcome(outcome)
		a.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}
