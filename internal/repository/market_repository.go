package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/yourusername/sports-edge/internal/database"
	"github.com/yourusername/sports-edge/internal/models"
)

var centsPerUnit = decimal.NewFromInt(100)

// PostgresMarketRepository implements MarketRepository for PostgreSQL.
// Prices are stored as numeric cents (0-100) and exposed as probabilities.
type PostgresMarketRepository struct {
	db    *database.DB
	table string
}

// NewPostgresMarketRepository creates a new market repository
func NewPostgresMarketRepository(db *database.DB, table string) MarketRepository {
	if table == "" {
		table = "markets"
	}
	return &PostgresMarketRepository{db: db, table: table}
}

// marketRow holds one row before price conversion
type marketRow struct {
	Ticker    string
	Title     string
	YesCents  string
	NoCents   string
	Volume    string
	HomeTeam  *string
	AwayTeam  *string
	Sector    *string
	CloseTime time.Time
	Status    string
}

func (p *PostgresMarketRepository) selectColumns() string {
	return fmt.Sprintf(`
		SELECT ticker, title, yes_price::text, no_price::text, volume::text,
		       home_team, away_team, sector, close_time, status
		FROM %s`, pgx.Identifier{p.table}.Sanitize())
}

// GetActive retrieves every active market in a single query
func (p *PostgresMarketRepository) GetActive(ctx context.Context) ([]*models.Market, error) {
	query := p.selectColumns() + `
		WHERE status = $1
		ORDER BY ticker ASC
	`

	rows, err := p.db.Query(ctx, query, string(models.MarketStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query active markets: %w", err)
	}
	defer rows.Close()

	var markets []*models.Market
	for rows.Next() {
		row, err := scanMarketRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		market, err := row.toMarket()
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
	}

	return markets, rows.Err()
}

// GetByTicker retrieves one market by ticker
func (p *PostgresMarketRepository) GetByTicker(ctx context.Context, ticker string) (*models.Market, error) {
	query := p.selectColumns() + `
		WHERE ticker = $1
	`

	row, err := scanMarketRow(p.db.QueryRow(ctx, query, ticker))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market %s: %w", ticker, err)
	}

	return row.toMarket()
}

func scanMarketRow(row pgx.Row) (*marketRow, error) {
	r := &marketRow{}
	err := row.Scan(
		&r.Ticker, &r.Title, &r.YesCents, &r.NoCents, &r.Volume,
		&r.HomeTeam, &r.AwayTeam, &r.Sector, &r.CloseTime, &r.Status,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *marketRow) toMarket() (*models.Market, error) {
	yes, err := centsToProbability(r.YesCents)
	if err != nil {
		return nil, fmt.Errorf("market %s yes_price: %w", r.Ticker, err)
	}
	no, err := centsToProbability(r.NoCents)
	if err != nil {
		return nil, fmt.Errorf("market %s no_price: %w", r.Ticker, err)
	}
	volume, err := decimal.NewFromString(r.Volume)
	if err != nil {
		return nil, fmt.Errorf("market %s volume: %w", r.Ticker, err)
	}

	return &models.Market{
		Ticker:    r.Ticker,
		Title:     r.Title,
		YesPrice:  yes,
		NoPrice:   no,
		Volume:    volume.InexactFloat64(),
		HomeTeam:  deref(r.HomeTeam),
		AwayTeam:  deref(r.AwayTeam),
		Sector:    deref(r.Sector),
		CloseTime: r.CloseTime,
		Status:    models.MarketStatus(r.Status),
	}, nil
}

// centsToProbability converts a cents quote to a probability clamped to [0,1]
func centsToProbability(cents string) (float64, error) {
	d, err := decimal.NewFromString(cents)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", cents, err)
	}
	p := d.Div(centsPerUnit)
	if p.IsNegative() {
		return 0, nil
	}
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return 1, nil
	}
	return p.InexactFloat64(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
