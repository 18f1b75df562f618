package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"topictag/internal/vectorstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS vectors (
    index_name TEXT NOT NULL,
    id TEXT NOT NULL,
    content TEXT,
    meta TEXT NOT NULL DEFAULT '{}',
    embedding BLOB,
    PRIMARY KEY (index_name, id)
);
`

// Storage is a local vector index kept in SQLite. Records are keyed by
// index name and id; metadata is a JSON object merged on update. Records
// are written by whatever ingests the embeddings; this store only tags them.
type Storage struct {
	dsn string
	db  *sql.DB
}

type Config struct {
	DSN           string
	BusyTimeoutMS int
}

func NewStorage(cfg Config) *Storage {
	return &Storage{dsn: withPragmas(cfg.DSN, cfg.BusyTimeoutMS)}
}

func (s *Storage) Name() string { return "sqlite" }

// Open opens the database and ensures the schema exists.
func (s *Storage) Open(ctx context.Context) error {
	if s.dsn == "" {
		return errors.New("sqlite: dsn is empty")
	}
	db, err := sql.Open("sqlite", s.dsn)
	if err != nil {
		return err
	}
	if isMemoryDSN(s.dsn) {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	s.db = db
	return nil
}

// UpdateMetadata merges metadata into an existing record.
func (s *Storage) UpdateMetadata(ctx context.Context, index, vectorID string, metadata map[string]string) error {
	if s.db == nil {
		return errors.New("sqlite: storage is not open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT meta FROM vectors WHERE index_name = ? AND id = ?`, index, vectorID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s/%s", vectorstore.ErrNotFound, index, vectorID)
	}
	if err != nil {
		return err
	}
	meta := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return fmt.Errorf("sqlite: decode metadata of %s/%s: %w", index, vectorID, err)
		}
	}
	for k, v := range metadata {
		meta[k] = v
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE vectors SET meta = ? WHERE index_name = ? AND id = ?`, string(data), index, vectorID); err != nil {
		return err
	}
	return tx.Commit()
}

// Metadata returns the decoded metadata of a record.
func (s *Storage) Metadata(ctx context.Context, index, vectorID string) (map[string]any, error) {
	if s.db == nil {
		return nil, errors.New("sqlite: storage is not open")
	}
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT meta FROM vectors WHERE index_name = ? AND id = ?`, index, vectorID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", vectorstore.ErrNotFound, index, vectorID)
	}
	if err != nil {
		return nil, err
	}
	meta := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
