package repository

import (
	"fmt"

	"github.com/yourusername/sports-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Market MarketRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB, marketsTable string) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Market: NewPostgresMarketRepository(db, marketsTable),
	}, nil
}
