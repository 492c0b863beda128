// Package persist stores tracked items in SQLite and mirrors store mutations
// to it in the background.
package persist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vmunix/watchlist/internal/media"
)

//go:generate mockgen -source=store.go -destination=mocks/mock_persist.go -package=mocks

// Gateway is the durable side of the watchlist. Each call applies its whole
// batch or nothing.
type Gateway interface {
	Insert(ctx context.Context, items []media.Item) error
	Update(ctx context.Context, items []media.Item) error
	Delete(ctx context.Context, items []media.Item) error
	LoadAll(ctx context.Context) ([]media.Item, error)
}

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store implements Gateway over the media table.
type Store struct {
	db *sql.DB
}

// NewStore creates a store. The schema comes from migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, q querier, it media.Item) error {
	data, err := media.Encode(it)
	if err != nil {
		return err
	}
	key := it.Key()
	_, err = q.ExecContext(ctx,
		"INSERT INTO media (id, type, data) VALUES (?, ?, ?)",
		key.ID, string(key.Kind), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", key, mapSQLiteError(err))
	}
	return nil
}

func updateItem(ctx context.Context, q querier, it media.Item) error {
	data, err := media.Encode(it)
	if err != nil {
		return err
	}
	key := it.Key()
	result, err := q.ExecContext(ctx,
		"UPDATE media SET data = ? WHERE id = ? AND type = ?",
		string(data), key.ID, string(key.Kind),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", key, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update %s: %w", key, ErrNotFound)
	}
	return nil
}

func deleteItem(ctx context.Context, q querier, it media.Item) error {
	key := it.Key()
	_, err := q.ExecContext(ctx, "DELETE FROM media WHERE id = ? AND type = ?", key.ID, string(key.Kind))
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, mapSQLiteError(err))
	}
	return nil
}

func (s *Store) each(ctx context.Context, items []media.Item, fn func(context.Context, querier, media.Item) error) error {
	if len(items) == 0 {
		return nil
	}
	return s.inTx(ctx, func(q querier) error {
		for _, it := range items {
			if err := fn(ctx, q, it); err != nil {
				return err
			}
		}
		return nil
	})
}

// Insert adds new rows. Returns ErrDuplicate if any item already exists.
func (s *Store) Insert(ctx context.Context, items []media.Item) error {
	return s.each(ctx, items, insertItem)
}

// Update replaces stored rows. Returns ErrNotFound if any item has no row.
func (s *Store) Update(ctx context.Context, items []media.Item) error {
	return s.each(ctx, items, updateItem)
}

// Delete removes rows. Missing rows are ignored.
func (s *Store) Delete(ctx context.Context, items []media.Item) error {
	return s.each(ctx, items, deleteItem)
}

// LoadAll returns every stored item in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]media.Item, error) {
	return loadAll(ctx, s.db)
}

func loadAll(ctx context.Context, q querier) ([]media.Item, error) {
	rows, err := q.QueryContext(ctx, "SELECT type, data FROM media ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []media.Item{}
	for rows.Next() {
		var kind, data string
		if err := rows.Scan(&kind, &data); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		it, err := media.Decode(media.Kind(kind), []byte(data))
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media: %w", err)
	}
	return items, nil
}
