package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet persistence operations
type WalletRepository interface {
	// EnsureExists seeds the singleton wallet row with the opening balance
	// if it does not exist yet. Idempotent; run once at startup.
	EnsureExists(ctx context.Context, openingBalance decimal.Decimal) error

	// Get retrieves the current wallet state
	Get(ctx context.Context) (*Wallet, error)

	// Credit increases the wallet balance by amount and returns the updated
	// wallet. Amount must already be validated as positive by the caller.
	Credit(ctx context.Context, amount decimal.Decimal) (*Wallet, error)
}

// HoldingRepository defines the interface for holding persistence operations.
// Purchase and Liquidate mutate the holdings table and the wallet together;
// implementations must make both effects visible together or neither, and
// must serialize wallet mutations so check-then-debit cannot race.
type HoldingRepository interface {
	// GetByID retrieves a holding by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// List retrieves all open holdings, newest first
	List(ctx context.Context) ([]*Holding, error)

	// Purchase inserts the holding and debits the wallet by totalCost
	// atomically. Returns ErrInsufficientFunds (and leaves all state
	// untouched) when the balance cannot cover totalCost.
	Purchase(ctx context.Context, holding *Holding, totalCost decimal.Decimal) (*Wallet, error)

	// Liquidate removes the holding and credits the wallet by proceeds
	// atomically. Returns ErrHoldingNotFound (and credits nothing) when the
	// holding no longer exists.
	Liquidate(ctx context.Context, id uuid.UUID, proceeds decimal.Decimal) (*Wallet, error)
}

// PriceCacheRepository defines the interface for the short-lived price cache
// used by the ad-hoc quote path
type PriceCacheRepository interface {
	// GetFresh retrieves the cached price for symbol if it is younger than
	// maxAge. Returns (nil, nil) on a cache miss.
	GetFresh(ctx context.Context, symbol string, maxAge time.Duration) (*CachedPrice, error)

	// Put stores or refreshes the cached price for symbol
	Put(ctx context.Context, symbol string, price decimal.Decimal) error
}
