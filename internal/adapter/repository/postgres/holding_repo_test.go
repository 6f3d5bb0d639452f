package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

func holdingColumns() []string {
	return []string{"id", "symbol", "name", "asset_class", "quantity", "purchase_price", "purchase_date", "created_at"}
}

func TestHoldingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	id := uuid.New()
	purchaseDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM holdings").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(holdingColumns()).
			AddRow(id.String(), "RELIANCE", "Reliance Industries", "stock", 10, "2000.00", purchaseDate, createdAt))

	holding, err := repo.GetByID(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, id, holding.ID)
	assert.Equal(t, "RELIANCE", holding.Symbol)
	assert.Equal(t, domain.AssetClassStock, holding.AssetClass)
	assert.Equal(t, int64(10), holding.Quantity)
	assert.True(t, decimal.RequireFromString("2000.00").Equal(holding.PurchasePrice))
}

func TestHoldingRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM holdings").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	holding, err := repo.GetByID(context.Background(), id)

	assert.Nil(t, holding)
	assert.ErrorIs(t, err, domain.ErrHoldingNotFound)
}

func TestHoldingRepository_List_NewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM holdings ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(holdingColumns()).
			AddRow(uuid.NewString(), "TCS", "Tata Consultancy Services", "stock", 5, "3890.25", date, newer).
			AddRow(uuid.NewString(), "NHAI-2031", "NHAI Bond", "bond", 3, "1015.50", date, older))

	holdings, err := repo.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, holdings, 2)
	assert.Equal(t, "TCS", holdings[0].Symbol)
	assert.Equal(t, "NHAI-2031", holdings[1].Symbol)
	assert.Equal(t, domain.AssetClassBond, holdings[1].AssetClass)
}

func TestHoldingRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM holdings").
		WillReturnRows(sqlmock.NewRows(holdingColumns()))

	holdings, err := repo.List(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, holdings)
}

func buyHolding() *domain.Holding {
	now := time.Now().UTC()
	return &domain.Holding{
		ID:            uuid.New(),
		Symbol:        "RELIANCE",
		Name:          "Reliance Industries",
		AssetClass:    domain.AssetClassStock,
		Quantity:      10,
		PurchasePrice: decimal.RequireFromString("2000.00"),
		PurchaseDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:     now,
	}
}

func TestHoldingRepository_Purchase_CommitsInsertAndDebit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	holding := buyHolding()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO holdings").
		WithArgs(holding.ID, "RELIANCE", "Reliance Industries", "stock", int64(10),
			"2000.00", holding.PurchaseDate, holding.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE wallet").
		WithArgs("20000.00", walletRowID).
		WillReturnRows(sqlmock.NewRows([]string{"balance", "updated_at"}).
			AddRow("80000.00", time.Now()))
	mock.ExpectCommit()

	wallet, err := repo.Purchase(context.Background(), holding, decimal.RequireFromString("20000.00"))

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("80000.00").Equal(wallet.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldingRepository_Purchase_InsufficientFundsRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	holding := buyHolding()

	// The guard rejects the debit: zero rows come back and the insert must
	// not survive.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO holdings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE wallet").
		WithArgs("20000.00", walletRowID).
		WillReturnRows(sqlmock.NewRows([]string{"balance", "updated_at"}))
	mock.ExpectRollback()

	wallet, err := repo.Purchase(context.Background(), holding, decimal.RequireFromString("20000.00"))

	assert.Nil(t, wallet)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldingRepository_Liquidate_CommitsDeleteAndCredit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM holdings").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE wallet").
		WithArgs("20500.00", walletRowID).
		WillReturnRows(sqlmock.NewRows([]string{"balance", "updated_at"}).
			AddRow("100500.00", time.Now()))
	mock.ExpectCommit()

	wallet, err := repo.Liquidate(context.Background(), id, decimal.RequireFromString("20500.00"))

	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100500.00").Equal(wallet.Balance))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldingRepository_Liquidate_AlreadySoldRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHoldingRepository(db)

	id := uuid.New()

	// Zero rows deleted: the holding is gone and the wallet must not be
	// credited a second time.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM holdings").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	wallet, err := repo.Liquidate(context.Background(), id, decimal.RequireFromString("20500.00"))

	assert.Nil(t, wallet)
	assert.ErrorIs(t, err, domain.ErrHoldingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
