package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
)

// Store persists each record as a JSON document in a single SQLite table.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// NewStore opens (and creates if needed) the database file at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "buffalo.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+repository.CollectionName+` (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s table: %w", repository.CollectionName, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.BuffaloRecord, error) {
	return get(ctx, s.db, id)
}

func (s *Store) Set(ctx context.Context, record models.BuffaloRecord) error {
	if record.ID == "" {
		return errors.New("buffalo id must not be empty")
	}
	return put(ctx, s.db, record)
}

func (s *Store) Update(ctx context.Context, id string, patch models.BuffaloPatch) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := get(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := put(ctx, tx, patch.Apply(current)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+repository.CollectionName+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete buffalo %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete buffalo %s: %w", id, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.BuffaloRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM `+repository.CollectionName+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select buffalos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []models.BuffaloRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var r models.BuffaloRecord
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("decode buffalo: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM `+repository.CollectionName+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func get(ctx context.Context, q querier, id string) (models.BuffaloRecord, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM `+repository.CollectionName+` WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BuffaloRecord{}, repository.ErrNotFound
	}
	if err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("select buffalo %s: %w", id, err)
	}
	var r models.BuffaloRecord
	if err := json.Unmarshal(payload, &r); err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("decode buffalo %s: %w", id, err)
	}
	return r, nil
}

func put(ctx context.Context, q querier, record models.BuffaloRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode buffalo %s: %w", record.ID, err)
	}
	_, err = q.ExecContext(ctx, `INSERT INTO `+repository.CollectionName+` (id, payload) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`, record.ID, payload)
	if err != nil {
		return fmt.Errorf("upsert buffalo %s: %w", record.ID, err)
	}
	return nil
}
