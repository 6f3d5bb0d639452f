package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validHolding() Holding {
	return Holding{
		ID:            uuid.New(),
		Symbol:        "RELIANCE",
		Name:          "Reliance Industries",
		AssetClass:    AssetClassStock,
		Quantity:      10,
		PurchasePrice: decimal.NewFromFloat(2000.00),
		PurchaseDate:  time.Now(),
		CreatedAt:     time.Now(),
	}
}

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *Holding)
		wantErr error
	}{
		{
			name:    "valid stock holding should pass",
			mutate:  func(h *Holding) {},
			wantErr: nil,
		},
		{
			name: "valid bond holding should pass",
			mutate: func(h *Holding) {
				h.Symbol = "NHAI-2031"
				h.AssetClass = AssetClassBond
			},
			wantErr: nil,
		},
		{
			name:    "blank symbol should fail",
			mutate:  func(h *Holding) { h.Symbol = "  " },
			wantErr: ErrInvalidHolding,
		},
		{
			name:    "blank name should fail",
			mutate:  func(h *Holding) { h.Name = "" },
			wantErr: ErrInvalidHolding,
		},
		{
			name:    "unknown asset class should fail",
			mutate:  func(h *Holding) { h.AssetClass = "crypto" },
			wantErr: ErrInvalidHolding,
		},
		{
			name:    "zero quantity should fail",
			mutate:  func(h *Holding) { h.Quantity = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative quantity should fail",
			mutate:  func(h *Holding) { h.Quantity = -5 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero purchase price should fail",
			mutate:  func(h *Holding) { h.PurchasePrice = decimal.Zero },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative purchase price should fail",
			mutate:  func(h *Holding) { h.PurchasePrice = decimal.NewFromFloat(-1.50) },
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHolding()
			tt.mutate(&h)

			err := h.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHolding_CostBasis(t *testing.T) {
	h := validHolding()
	h.Quantity = 10
	h.PurchasePrice = decimal.NewFromFloat(2000.00)

	assert.True(t, decimal.NewFromInt(20000).Equal(h.CostBasis()))
}
