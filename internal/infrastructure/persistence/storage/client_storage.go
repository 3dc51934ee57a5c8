// Package storage provides the SQL-backed implementation of the client
// state repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/logic-explorer/internal/infrastructure/persistence/database"
)

// SQLClientStorageRepository stores client state in the client_storage table.
type SQLClientStorageRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLClientStorageRepository creates a new instance of the repository.
func NewSQLClientStorageRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLClientStorageRepository {
	return &SQLClientStorageRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves one value. A missing key is not an error.
func (r *SQLClientStorageRepository) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	const query = `SELECT value FROM client_storage WHERE client_id = ? AND key = ?`

	start := time.Now()
	r.logger.Storage().Debug("Loading client value", "key", key)

	var value string
	err := r.db.QueryRowContext(ctx, query, clientID, key).Scan(&value)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Storage().Debug("Client value not found", "key", key)
		return "", false, nil
	}
	if err != nil {
		r.logger.Storage().Error("Failed to load client value", "error", err.Error(), "key", key)
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces one value.
func (r *SQLClientStorageRepository) Set(ctx context.Context, clientID, key, value string) error {
	const query = `
		INSERT INTO client_storage (client_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(client_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, clientID, key, value, time.Now().UTC())
	database.CheckAndLogSlowQuery(r.logger, "INSERT client_storage", time.Since(start))
	if err != nil {
		r.logger.Storage().Error("Failed to store client value", "error", err.Error(), "key", key)
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	r.logger.Storage().Debug("Client value stored", "key", key, "duration", time.Since(start))
	return nil
}

// Delete removes one value. Deleting a missing key succeeds.
func (r *SQLClientStorageRepository) Delete(ctx context.Context, clientID, key string) error {
	const query = `DELETE FROM client_storage WHERE client_id = ? AND key = ?`

	if _, err := r.db.ExecContext(ctx, query, clientID, key); err != nil {
		r.logger.Storage().Error("Failed to delete client value", "error", err.Error(), "key", key)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// LoadAll returns every stored value for a client.
func (r *SQLClientStorageRepository) LoadAll(ctx context.Context, clientID string) (map[string]string, error) {
	const query = `SELECT key, value FROM client_storage WHERE client_id = ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		r.logger.Storage().Error("Failed to load client state", "error", err.Error())
		return nil, fmt.Errorf("failed to load client state: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan client state: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate client state: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	r.logger.Storage().Debug("Client state loaded", "keys", len(values), "duration", time.Since(start))
	return values, nil
}

// PurgeBefore deletes entries not updated since the cutoff and returns how many were removed.
func (r *SQLClientStorageRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM client_storage WHERE updated_at < ?`

	res, err := r.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge client state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged client state: %w", err)
	}
	return n, nil
}
