// Package audit implements an optional session audit log. When given a
// DSN it opens database/sql with the pgx stdlib driver and appends one row
// per dispatched assignment command to a command_log table. A nil/zero
// Sink is never constructed by callers that don't pass --audit-dsn, so the
// core never depends on this package being wired.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"gridsheet/spreadsheet"
)

// Sink is a spreadsheet.AuditSink backed by a Postgres command_log table.
type Sink struct {
	db      *sql.DB
	timeout time.Duration
}

// Open connects to dsn via the pgx stdlib driver, pings it, and ensures the
// command_log table exists.
func Open(dsn string) (*Sink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: ping: %w", err)
	}

	s := &Sink{db: db, timeout: 5 * time.Second}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS command_log (
	id          BIGSERIAL PRIMARY KEY,
	label       TEXT NOT NULL,
	expression  TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	elapsed_ms  DOUBLE PRECISION NOT NULL,
	logged_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("audit: ensure schema: %w", err)
	}
	return nil
}

// LogCommand implements spreadsheet.AuditSink. Failures are logged, not
// returned — an audit-log outage must never fail the command it's
// recording policy that runtime/IO concerns stay off the
// dispatcher's critical path.
func (s *Sink) LogCommand(label, expr string, outcome spreadsheet.Outcome, elapsed time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	const insert = `INSERT INTO command_log (label, expression, outcome, elapsed_ms) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, insert, label, expr, outcome.String(), elapsed.Seconds()*1000); err != nil {
		log.Printf("audit: log command failed: %v", err)
	}
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}
