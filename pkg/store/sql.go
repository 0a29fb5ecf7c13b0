package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const createSnapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`

const upsertSnapshot = `INSERT INTO snapshots (id, body, updated_at) VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`

// SQLPersister keeps the snapshot in a one-row table, on sqlite or postgres.
type SQLPersister struct {
	db     *sql.DB
	driver string
}

// OpenSQLite opens (or creates) a sqlite database file in WAL mode.
func OpenSQLite(path string) (*SQLPersister, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return newSQLPersister(db, "sqlite3")
}

// OpenPostgres connects with a lib/pq dsn.
func OpenPostgres(dsn string) (*SQLPersister, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newSQLPersister(db, "postgres")
}

func newSQLPersister(db *sql.DB, driver string) (*SQLPersister, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SQLPersister{db: db, driver: driver}, nil
}

func (p *SQLPersister) Name() string {
	if p.driver == "sqlite3" {
		return "sqlite"
	}
	return p.driver
}

func (p *SQLPersister) Load() ([]byte, error) {
	var body string
	err := p.db.QueryRow(`SELECT body FROM snapshots WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (p *SQLPersister) Save(snapshot []byte) error {
	_, err := p.db.Exec(upsertSnapshot, string(snapshot), time.Now().Unix())
	return err
}

func (p *SQLPersister) Close() error {
	return p.db.Close()
}
