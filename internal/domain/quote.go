package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteBasis indicates which baseline a simulated price was derived from
type QuoteBasis string

const (
	// QuoteBasisReference means the price was varied off the static
	// reference price table.
	QuoteBasisReference QuoteBasis = "reference"
	// QuoteBasisCached means the price was varied off a short-lived cached
	// price.
	QuoteBasisCached QuoteBasis = "cached"
	// QuoteBasisSimulated means no reference data existed and the price was
	// varied off a cost basis or a demo range.
	QuoteBasisSimulated QuoteBasis = "simulated"
)

// PriceQuote is an ephemeral simulated price. It is produced fresh on every
// request and never persisted as authoritative truth.
type PriceQuote struct {
	Symbol string
	Price  decimal.Decimal
	Basis  QuoteBasis
}

// CachedPrice is a short-lived cached price used only as an optimization by
// the ad-hoc quote path. It carries no correctness guarantees.
type CachedPrice struct {
	Symbol    string
	Price     decimal.Decimal
	UpdatedAt time.Time
}
