package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetClass represents the class of a held asset
type AssetClass string

const (
	AssetClassStock AssetClass = "stock"
	AssetClassBond  AssetClass = "bond"
)

// Holding represents one open position: a single recorded purchase of a
// quantity of one symbol, open until sold. Created by a buy operation,
// removed entirely by a sell operation, never otherwise mutated.
type Holding struct {
	ID            uuid.UUID
	Symbol        string // uppercase ticker
	Name          string
	AssetClass    AssetClass
	Quantity      int64
	PurchasePrice decimal.Decimal // price per unit at acquisition
	PurchaseDate  time.Time       // calendar date
	CreatedAt     time.Time
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrInvalidHolding)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidHolding)
	}
	if h.AssetClass != AssetClassStock && h.AssetClass != AssetClassBond {
		return fmt.Errorf("%w: asset class must be stock or bond", ErrInvalidHolding)
	}
	if h.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidAmount)
	}
	if h.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: purchase price must be positive", ErrInvalidAmount)
	}
	return nil
}

// CostBasis returns the total amount paid for the position
// (quantity * purchase price).
func (h *Holding) CostBasis() decimal.Decimal {
	return decimal.NewFromInt(h.Quantity).Mul(h.PurchasePrice)
}
