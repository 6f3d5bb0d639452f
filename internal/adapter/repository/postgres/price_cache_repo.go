package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// priceCacheRepository implements domain.PriceCacheRepository
type priceCacheRepository struct {
	db *DB
}

// NewPriceCacheRepository creates a new price cache repository
func NewPriceCacheRepository(db *DB) domain.PriceCacheRepository {
	return &priceCacheRepository{db: db}
}

// GetFresh retrieves the cached price for symbol if it is younger than
// maxAge. A miss (no row, or a stale row) returns (nil, nil).
func (r *priceCacheRepository) GetFresh(ctx context.Context, symbol string, maxAge time.Duration) (*domain.CachedPrice, error) {
	query := `
		SELECT symbol, price, updated_at
		FROM price_cache
		WHERE symbol = $1 AND updated_at >= $2
	`

	cutoff := time.Now().Add(-maxAge)

	var cached domain.CachedPrice
	var priceStr string

	err := r.db.QueryRowContext(ctx, query, symbol, cutoff).
		Scan(&cached.Symbol, &priceStr, &cached.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached price: %w", err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cached price: %w", err)
	}
	cached.Price = price

	return &cached, nil
}

// Put stores or refreshes the cached price for symbol
func (r *priceCacheRepository) Put(ctx context.Context, symbol string, price decimal.Decimal) error {
	query := `
		INSERT INTO price_cache (symbol, price, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (symbol) DO UPDATE
		SET price = EXCLUDED.price, updated_at = now()
	`

	_, err := r.db.ExecContext(ctx, query, symbol, price.String())
	if err != nil {
		return fmt.Errorf("failed to store cached price: %w", err)
	}

	return nil
}
