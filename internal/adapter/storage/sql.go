package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

var _ port.KVStorage = (*SQLStore)(nil)

const (
	selectValueQuery = `SELECT value FROM kv_store WHERE key = $1;`

	upsertValueQuery = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;`

	deleteValueQuery = `DELETE FROM kv_store WHERE key = $1;`
)

// SQLStore keeps session values in the kv_store table.
type SQLStore struct {
	sqldb sqldb
}

func NewSQLStore(sqldb sqldb) SQLStore {
	return SQLStore{sqldb}
}

func (s SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "SQLStore.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var value []byte
	err := s.sqldb.QueryRowContext(ctx, selectValueQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

func (s SQLStore) Put(ctx context.Context, key string, value []byte) (putErr error) {
	const op = "SQLStore.Put"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if putErr == nil {
			if err := tx.Commit(); err != nil {
				putErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, upsertValueQuery, key, value); err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (s SQLStore) Delete(ctx context.Context, key string) error {
	const op = "SQLStore.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.sqldb.ExecContext(ctx, deleteValueQuery, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
