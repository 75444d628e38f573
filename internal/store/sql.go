package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS quiz_sessions (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    bank_id TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quiz_sessions_updated ON quiz_sessions(updated_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS quiz_sessions (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    bank_id TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quiz_sessions_updated ON quiz_sessions(updated_at);
`

// SQLStore keeps each session as a JSON document in one row.
type SQLStore struct {
	db     *sql.DB
	driver Driver
}

// Open connects with the given driver and ensures the schema exists. An
// empty dsn selects a local default.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		schema = schemaSQLite
		if dsn == "" {
			dsn = "file:dmv_sessions.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		schema = schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/dmv?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported session store driver: %q", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM quiz_sessions WHERE id=$1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *SQLStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quiz_sessions (id,data,bank_id,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, bank_id=EXCLUDED.bank_id, updated_at=EXCLUDED.updated_at`,
		sess.ID, string(data), sess.BankID, sess.CreatedAt.UnixNano(), sess.UpdatedAt.UnixNano())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE updated_at < $1`, before.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
