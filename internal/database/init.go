package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sports-edge/internal/config"
)

// Initialize creates a database connection pool and verifies the markets table is reachable
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", cfg.Database.MarketsTable).Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect markets table: %w", err)
	}
	if !exists {
		db.Close()
		return nil, fmt.Errorf("markets table %q not found", cfg.Database.MarketsTable)
	}

	return db, nil
}
