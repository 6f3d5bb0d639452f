package pricing

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
)

// Variation bands for the simulated price feed. Sell pricing and reference
// quoting share quoteBand so sell proceeds stay consistent with displayed
// quotes; routine valuation uses the wider fallbackBand off cost basis.
const (
	quoteBand    = 0.025 // ±2.5% off a reference-table price
	fallbackBand = 0.05  // ±5% off a holding's purchase price
	suggestBand  = 0.015 // ±1.5% for suggested-price lookups
	cachedBand   = 0.01  // ±1% off a short-lived cached price
)

// DefaultCacheTTL is how long an ad-hoc cached price counts as fresh.
const DefaultCacheTTL = time.Hour

// Oracle produces simulated current prices with bounded random variation,
// standing in for a real market-data feed. Every call draws fresh variation;
// nothing is persisted beyond the optional ad-hoc quote cache.
type Oracle struct {
	table    *ReferenceTable
	cache    domain.PriceCacheRepository // optional; nil disables caching
	cacheTTL time.Duration

	// randFloat returns a uniform draw from [0, 1). Injected by tests.
	randFloat func() float64
}

// NewOracle creates a price oracle over the given reference table. The cache
// repository may be nil, in which case the ad-hoc quote path skips straight
// to demo pricing for unknown symbols.
func NewOracle(table *ReferenceTable, cache domain.PriceCacheRepository, cacheTTL time.Duration) *Oracle {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Oracle{
		table:     table,
		cache:     cache,
		cacheTTL:  cacheTTL,
		randFloat: rand.Float64,
	}
}

// vary applies a uniform variation from [-band, +band] to base, rounded to
// two decimal places.
func (o *Oracle) vary(base decimal.Decimal, band float64) decimal.Decimal {
	u := (o.randFloat()*2 - 1) * band
	return base.Mul(decimal.NewFromFloat(1 + u)).Round(2)
}

// Quote returns a simulated current price for symbol: the reference-table
// baseline varied by ±2.5% when the symbol is known, otherwise fallbackBasis
// (the holding's purchase price) varied by ±5%. This is the sell-time rule.
func (o *Oracle) Quote(symbol string, fallbackBasis decimal.Decimal) domain.PriceQuote {
	sym := strings.ToUpper(symbol)
	if base, ok := o.table.Lookup(sym); ok {
		return domain.PriceQuote{Symbol: sym, Price: o.vary(base, quoteBand), Basis: domain.QuoteBasisReference}
	}
	return domain.PriceQuote{Symbol: sym, Price: o.vary(fallbackBasis, fallbackBand), Basis: domain.QuoteBasisSimulated}
}

// ValuationQuote returns the routine dashboard valuation price: the purchase
// price varied by ±5%. The reference table is deliberately not consulted
// here; valuation drifts off cost basis so the dashboard's numbers animate
// between refreshes.
func (o *Oracle) ValuationQuote(symbol string, purchasePrice decimal.Decimal) domain.PriceQuote {
	return domain.PriceQuote{
		Symbol: strings.ToUpper(symbol),
		Price:  o.vary(purchasePrice, fallbackBand),
		Basis:  domain.QuoteBasisSimulated,
	}
}

// SuggestedPrice returns an informational price for the buy form: the
// reference-table baseline varied by ±1.5%, or (zero, false) when the symbol
// is not in the table.
func (o *Oracle) SuggestedPrice(symbol string) (decimal.Decimal, bool) {
	base, ok := o.table.Lookup(symbol)
	if !ok {
		return decimal.Zero, false
	}
	return o.vary(base, suggestBand), true
}

// AdHocQuote returns a price for a symbol not tied to any holding. Known
// symbols quote off the reference table; otherwise a fresh cached price is
// varied by ±1%; otherwise a demo price is drawn from a range keyed on the
// symbol and stored in the cache. Always returns a price; cache failures
// degrade to demo pricing.
func (o *Oracle) AdHocQuote(ctx context.Context, symbol string) domain.PriceQuote {
	sym := strings.ToUpper(symbol)
	if base, ok := o.table.Lookup(sym); ok {
		return domain.PriceQuote{Symbol: sym, Price: o.vary(base, quoteBand), Basis: domain.QuoteBasisReference}
	}

	if o.cache != nil {
		cached, err := o.cache.GetFresh(ctx, sym, o.cacheTTL)
		if err == nil && cached != nil {
			return domain.PriceQuote{Symbol: sym, Price: o.vary(cached.Price, cachedBand), Basis: domain.QuoteBasisCached}
		}
	}

	price := o.demoPrice(sym)
	if o.cache != nil {
		// Best effort: a failed cache write only costs the next caller a
		// fresh draw.
		_ = o.cache.Put(ctx, sym, price)
	}
	return domain.PriceQuote{Symbol: sym, Price: price, Basis: domain.QuoteBasisSimulated}
}

// demoPrice draws a plausible price from a range keyed on the symbol:
// banking names 800-1800, IT names 1200-3200, everything else 500-2000.
func (o *Oracle) demoPrice(sym string) decimal.Decimal {
	var low, span float64
	switch {
	case strings.Contains(sym, "BANK") || strings.Contains(sym, "HDFC") || strings.Contains(sym, "AXIS"):
		low, span = 800, 1000
	case strings.Contains(sym, "TCS") || strings.Contains(sym, "INFY") || strings.Contains(sym, "WIPRO"):
		low, span = 1200, 2000
	default:
		low, span = 500, 1500
	}
	return decimal.NewFromFloat(low + o.randFloat()*span).Round(2)
}
