package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// Valuer produces the routine valuation price for a holding. The dashboard
// valuation drifts off the purchase price; it does not consult the reference
// table.
type Valuer interface {
	ValuationQuote(symbol string, purchasePrice decimal.Decimal) domain.PriceQuote
}

/// HoldingSummary represents one dashboard row: a holding priced at the
// current simulated valuation
type HoldingSummary struct {
	Holding      *domain.Holding
	CurrentPrice decimal.Decimal
	CurrentValue decimal.Decimal
	GainLoss     decimal.Decimal
	GainLossPct  decimal.Decimal
}

// PortfolioSummary represents the dashboard aggregates over all holdings
type PortfolioSummary struct {
	TotalInvested     decimal.Decimal
	TotalCurrentValue decimal.Decimal
	TotalGainLoss     decimal.Decimal
	TotalGainLossPct  decimal.Decimal
	Holdings          []HoldingSummary
}

// DashboardService derives dashboard-ready aggregates from the ledger store
// and the price oracle
type DashboardService struct {
	HoldingRepo domain.HoldingRepository
	Valuer      Valuer
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(holdingRepo domain.HoldingRepository, valuer Valuer) *DashboardService {
	return &DashboardService{
		HoldingRepo: holdingRepo,
		Valuer:      valuer,
	}
}

// Summarize reads all holdings, prices each one, and computes per-holding
// and total gain/loss figures. Pure read + compute; no side effects.
// Aggregates are exact sums of the per-holding rows.
func (s *DashboardService) Summarize(ctx context.Context) (*PortfolioSummary, error) {
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	summary := &PortfolioSummary{
		TotalInvested:     decimal.Zero,
		TotalCurrentValue: decimal.Zero,
		TotalGainLoss:     decimal.Zero,
		TotalGainLossPct:  decimal.Zero,
		Holdings:          make([]HoldingSummary, 0, len(holdings)),
	}

	hundred := decimal.NewFromInt(100)

	for _, holding := range holdings {
		invested := holding.CostBasis()
		quote := s.Valuer.ValuationQuote(holding.Symbol, holding.PurchasePrice)
		currentValue := decimal.NewFromInt(holding.Quantity).Mul(quote.Price)
		gainLoss := currentValue.Sub(invested)

		gainLossPct := decimal.Zero
		if !invested.IsZero() {
			gainLossPct = gainLoss.Div(invested).Mul(hundred).Round(2)
		}

		summary.Holdings = append(summary.Holdings, HoldingSummary{
			Holding:      holding,
			CurrentPrice: quote.Price,
			CurrentValue: currentValue,
			GainLoss:     gainLoss,
			GainLossPct:  gainLossPct,
		})

		summary.TotalInvested = summary.TotalInvested.Add(invested)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(currentValue)
	}

	summary.TotalGainLoss = summary.TotalCurrentValue.Sub(summary.TotalInvested)
	if !summary.TotalInvested.IsZero() {
		summary.TotalGainLossPct = summary.TotalGainLoss.Div(summary.TotalInvested).Mul(hundred).Round(2)
	}

	return summary, nil
}
