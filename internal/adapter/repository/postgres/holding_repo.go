package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

// GetByID retrieves a holding by its ID
func (r *holdingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT id, symbol, name, asset_class, quantity, purchase_price, purchase_date, created_at
		FROM holdings
		WHERE id = $1
	`

	holding, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrHoldingNotFound, id)
		}
		return nil, fmt.Errorf("failed to get holding by ID: %w", err)
	}

	return holding, nil
}

// List retrieves all open holdings, newest first
func (r *holdingRepository) List(ctx context.Context) ([]*domain.Holding, error) {
	query := `
		SELECT id, symbol, name, asset_class, quantity, purchase_price, purchase_date, created_at
		FROM holdings
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// Purchase inserts the holding and debits the wallet in one database
// transaction. The debit carries a balance guard so two concurrent buys
// cannot overdraw the wallet: if the guard rejects the debit, the insert is
// rolled back and ErrInsufficientFunds returned.
func (r *holdingRepository) Purchase(ctx context.Context, holding *domain.Holding, totalCost decimal.Decimal) (*domain.Wallet, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertQuery := `
		INSERT INTO holdings (id, symbol, name, asset_class, quantity, purchase_price, purchase_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = dbTx.ExecContext(ctx, insertQuery,
		holding.ID,
		holding.Symbol,
		holding.Name,
		string(holding.AssetClass),
		holding.Quantity,
		holding.PurchasePrice.String(),
		holding.PurchaseDate,
		holding.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert holding: %w", err)
	}

	debitQuery := `
		UPDATE wallet
		SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND balance >= $1
		RETURNING balance, updated_at
	`

	var wallet domain.Wallet
	var balanceStr string

	err = dbTx.QueryRowContext(ctx, debitQuery, totalCost.String(), walletRowID).
		Scan(&balanceStr, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cost %s", domain.ErrInsufficientFunds, totalCost)
		}
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	wallet.Balance = balance

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &wallet, nil
}

// Liquidate removes the holding and credits the wallet with the proceeds in
// one database transaction. Deleting zero rows means the holding was already
// sold; the credit never runs, so a racing second sell cannot double-credit.
func (r *holdingRepository) Liquidate(ctx context.Context, id uuid.UUID, proceeds decimal.Decimal) (*domain.Wallet, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	result, err := dbTx.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete holding: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read delete result: %w", err)
	}
	if deleted == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrHoldingNotFound, id)
	}

	creditQuery := `
		UPDATE wallet
		SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance, updated_at
	`

	var wallet domain.Wallet
	var balanceStr string

	err = dbTx.QueryRowContext(ctx, creditQuery, proceeds.String(), walletRowID).
		Scan(&balanceStr, &wallet.UpdatedAt)
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

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &wallet, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(row scanner) (*domain.Holding, error) {
	var holding domain.Holding
	var assetClass string
	var priceStr string

	err := row.Scan(
		&holding.ID,
		&holding.Symbol,
		&holding.Name,
		&assetClass,
		&holding.Quantity,
		&priceStr,
		&holding.PurchaseDate,
		&holding.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	holding.AssetClass = domain.AssetClass(assetClass)

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
	}
	holding.PurchasePrice = price

	return &holding, nil
}
