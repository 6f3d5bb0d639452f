package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// Quoter produces the sell-time price for a symbol, falling back to the
// holding's purchase price when no reference data exists.
type Quoter interface {
	Quote(symbol string, fallbackBasis decimal.Decimal) domain.PriceQuote
}

// BuyInput represents the input for recording a purchase
type BuyInput struct {
	Symbol        string
	Name          string
	AssetClass    domain.AssetClass
	Quantity      int64
	PurchasePrice decimal.Decimal
}

// BuyResult represents a recorded purchase and its effect on the wallet
type BuyResult struct {
	Holding          *domain.Holding
	Cost             decimal.Decimal
	RemainingBalance decimal.Decimal
}

// SaleReceipt summarizes a liquidated holding
type SaleReceipt struct {
	HoldingID          uuid.UUID
	Symbol             string
	Quantity           int64
	PurchasePrice      decimal.Decimal
	SellPrice          decimal.Decimal
	OriginalInvestment decimal.Decimal
	SellValue          decimal.Decimal
	ProfitLoss         decimal.Decimal
	ProfitLossPct      decimal.Decimal
	NewWalletBalance   decimal.Decimal
}

// PortfolioService orchestrates buy, sell, and wallet operations over the
// ledger store and the price oracle
type PortfolioService struct {
	WalletRepo  domain.WalletRepository
	HoldingRepo domain.HoldingRepository
	Quoter      Quoter
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(
	walletRepo domain.WalletRepository,
	holdingRepo domain.HoldingRepository,
	quoter Quoter,
) *PortfolioService {
	return &PortfolioService{
		WalletRepo:  walletRepo,
		HoldingRepo: holdingRepo,
		Quoter:      quoter,
	}
}

// Buy records a new holding and debits the wallet by quantity * price.
// Validation happens before any mutation: invalid amounts and insufficient
// funds leave wallet and holdings untouched. The insert and the debit are
// committed together by the repository.
func (s *PortfolioService) Buy(ctx context.Context, input BuyInput) (*BuyResult, error) {
	now := time.Now().UTC()
	holding := &domain.Holding{
		ID:            uuid.New(),
		Symbol:        strings.ToUpper(strings.TrimSpace(input.Symbol)),
		Name:          strings.TrimSpace(input.Name),
		AssetClass:    input.AssetClass,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:     now,
	}
	if err := holding.Validate(); err != nil {
		return nil, err
	}

	totalCost := holding.CostBasis()

	// Friendly pre-check; the repository's guarded debit is what actually
	// prevents a race between two concurrent buys.
	wallet, err := s.WalletRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if wallet.Balance.LessThan(totalCost) {
		return nil, fmt.Errorf("%w: cost %s exceeds balance %s",
			domain.ErrInsufficientFunds, totalCost, wallet.Balance)
	}

	wallet, err = s.HoldingRepo.Purchase(ctx, holding, totalCost)
	if err != nil {
		return nil, err
	}

	return &BuyResult{
		Holding:          holding,
		Cost:             totalCost,
		RemainingBalance: wallet.Balance,
	}, nil
}

// Sell liquidates a holding at a simulated sell price: the holding is
// removed and the wallet credited with the proceeds in one atomic step.
// Selling an unknown or already-sold id returns ErrHoldingNotFound without
// touching the wallet.
func (s *PortfolioService) Sell(ctx context.Context, id uuid.UUID) (*SaleReceipt, error) {
	holding, err := s.HoldingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote := s.Quoter.Quote(holding.Symbol, holding.PurchasePrice)

	quantity := decimal.NewFromInt(holding.Quantity)
	sellValue := quantity.Mul(quote.Price)
	originalInvestment := holding.CostBasis()
	profitLoss := sellValue.Sub(originalInvestment)

	profitLossPct := decimal.Zero
	if !originalInvestment.IsZero() {
		profitLossPct = profitLoss.Div(originalInvestment).Mul(decimal.NewFromInt(100)).Round(2)
	}

	wallet, err := s.HoldingRepo.Liquidate(ctx, id, sellValue)
	if err != nil {
		return nil, err
	}

	return &SaleReceipt{
		HoldingID:          holding.ID,
		Symbol:             holding.Symbol,
		Quantity:           holding.Quantity,
		PurchasePrice:      holding.PurchasePrice,
		SellPrice:          quote.Price,
		OriginalInvestment: originalInvestment,
		SellValue:          sellValue,
		ProfitLoss:         profitLoss,
		ProfitLossPct:      profitLossPct,
		NewWalletBalance:   wallet.Balance,
	}, nil
}

// Deposit credits the wallet by amount and returns the updated wallet
func (s *PortfolioService) Deposit(ctx context.Context, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidAmount)
	}
	return s.WalletRepo.Credit(ctx, amount)
}

// ListHoldings returns all open holdings, newest first
func (s *PortfolioService) ListHoldings(ctx context.Context) ([]*domain.Holding, error) {
	return s.HoldingRepo.List(ctx)
}

// WalletBalance returns the current wallet state
func (s *PortfolioService) WalletBalance(ctx context.Context) (*domain.Wallet, error) {
	return s.WalletRepo.Get(ctx)
}
