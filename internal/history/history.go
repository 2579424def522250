// Package history persists report.Run summaries to a SQL database,
// supporting whichever backend the deployment already runs: SQLite for
// local/CI use, Postgres, MySQL, or SQL Server for a shared store behind
// a fleet of rewrite jobs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"aigrewrite/internal/report"
)

// Store records rewrite runs against a SQL backend.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to dbType ("sqlite", "postgres", "mysql", or "sqlserver")
// using dsn, verifies connectivity, and ensures the runs table exists.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driverName, err := driverFor(dbType)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, driver: driverName}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func driverFor(dbType string) (string, error) {
	switch dbType {
	case "sqlite", "sqlite3", "":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("history: unsupported database type %q", dbType)
	}
}

// rebind rewrites a query written with "?" placeholders into the param
// style s.driver's SQL engine actually accepts: postgres wants "$1, $2,
// …", sqlserver wants "@p1, @p2, …"; sqlite and mysql accept "?" as-is.
func (s *Store) rebind(query string) string {
	switch s.driver {
	case "postgres":
		return rebindWith(query, func(n int) string { return "$" + strconv.Itoa(n) })
	case "sqlserver":
		return rebindWith(query, func(n int) string { return "@p" + strconv.Itoa(n) })
	default:
		return query
	}
}

func rebindWith(query string, paramAt func(n int) string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(paramAt(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS rewrite_runs (
	id TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	input_path TEXT NOT NULL,
	output_path TEXT NOT NULL,
	seed BIGINT NOT NULL,
	iterations INTEGER NOT NULL,
	input_and_count INTEGER NOT NULL,
	best_and_count INTEGER NOT NULL,
	timed_out BOOLEAN NOT NULL,
	elapsed_ns BIGINT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("history: ensure schema: %w", err)
	}
	return nil
}

// Record inserts a completed Run.
func (s *Store) Record(ctx context.Context, r report.Run) error {
	query := s.rebind(`
INSERT INTO rewrite_runs
	(id, started_at, input_path, output_path, seed, iterations, input_and_count, best_and_count, timed_out, elapsed_ns)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.StartedAt, r.InputPath, r.OutputPath, r.Seed, r.Iterations,
		r.InputAndCount, r.BestAndCount, r.TimedOut, int64(r.Elapsed))
	if err != nil {
		return fmt.Errorf("history: record run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns the n most recently started runs for a given input path
// (or every input if path is empty), newest first.
func (s *Store) Recent(ctx context.Context, inputPath string, n int) ([]report.Run, error) {
	query := `SELECT id, started_at, input_path, output_path, seed, iterations, input_and_count, best_and_count, timed_out, elapsed_ns
		FROM rewrite_runs`
	args := []interface{}{}
	if inputPath != "" {
		query += ` WHERE input_path = ?`
		args = append(args, inputPath)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("history: query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []report.Run
	for rows.Next() {
		var r report.Run
		var elapsedNs int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.InputPath, &r.OutputPath, &r.Seed,
			&r.Iterations, &r.InputAndCount, &r.BestAndCount, &r.TimedOut, &elapsedNs); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedNs)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
