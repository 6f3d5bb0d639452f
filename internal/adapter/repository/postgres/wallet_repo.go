package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// The wallet is a single fixed-key row rather than the append-style
// select-max-id pattern; every read and mutation targets id = walletRowID.
const walletRowID = 1

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// EnsureExists seeds the wallet row with the opening balance if it is missing
func (r *walletRepository) EnsureExists(ctx context.Context, openingBalance decimal.Decimal) error {
	query := `
		INSERT INTO wallet (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, walletRowID, openingBalance.String())
	if err != nil {
		return fmt.Errorf("failed to seed wallet: %w", err)
	}

	return nil
}

// Get retrieves the current wallet state
func (r *walletRepository) Get(ctx context.Context) (*domain.Wallet, error) {
	query := `
		SELECT balance, updated_at
		FROM wallet
		WHERE id = $1
	`

	var wallet domain.Wallet
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, walletRowID).Scan(&balanceStr, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	wallet.Balance = balance

	return &wallet, nil
}

// Credit increases the wallet balance by amount and returns the updated wallet
func (r *walletRepository) Credit(ctx context.Context, amount decimal.Decimal) (*domain.Wallet, error) {
	query := `
		UPDATE wallet
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance, updated_at
	`

	var wallet domain.Wallet
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, amount.String(), walletRowID).Scan(&balanceStr, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	wallet.Balance = balance

	return &wallet, nil
}
