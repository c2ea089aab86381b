package repository

import (
	"context"

	"github.com/yourusername/sports-edge/internal/models"
)

// MarketRepository defines the interface for prediction market data access
type MarketRepository interface {
	GetActive(ctx context.Context) ([]*models.Market, error)
	GetByTicker(ctx context.Context, ticker string) (*models.Market, error)
}
