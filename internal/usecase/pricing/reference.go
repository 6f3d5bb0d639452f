package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ReferenceTable is the static mapping from symbol to baseline reference
// price, separately keyed for stocks and bonds. Immutable after construction;
// used only as an input to the oracle's variation function.
type ReferenceTable struct {
	stocks map[string]decimal.Decimal
	bonds  map[string]decimal.Decimal
}

// NewReferenceTable builds a reference table from stock and bond baselines.
// Symbols are normalized to uppercase. The input maps are copied.
func NewReferenceTable(stocks, bonds map[string]decimal.Decimal) *ReferenceTable {
	t := &ReferenceTable{
		stocks: make(map[string]decimal.Decimal, len(stocks)),
		bonds:  make(map[string]decimal.Decimal, len(bonds)),
	}
	for sym, price := range stocks {
		t.stocks[strings.ToUpper(sym)] = price
	}
	for sym, price := range bonds {
		t.bonds[strings.ToUpper(sym)] = price
	}
	return t
}

// Lookup returns the baseline reference price for symbol, checking stocks
// first and then bonds.
func (t *ReferenceTable) Lookup(symbol string) (decimal.Decimal, bool) {
	sym := strings.ToUpper(symbol)
	if price, ok := t.stocks[sym]; ok {
		return price, true
	}
	if price, ok := t.bonds[sym]; ok {
		return price, true
	}
	return decimal.Zero, false
}

// ReferenceTableFromStrings builds a reference table from decimal strings,
// e.g. price overrides loaded from configuration.
func ReferenceTableFromStrings(stocks, bonds map[string]string) (*ReferenceTable, error) {
	parse := func(in map[string]string) (map[string]decimal.Decimal, error) {
		out := make(map[string]decimal.Decimal, len(in))
		for sym, raw := range in {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid reference price %q for %s: %w", raw, sym, err)
			}
			if price.LessThanOrEqual(decimal.Zero) {
				return nil, fmt.Errorf("reference price for %s must be positive", sym)
			}
			out[sym] = price
		}
		return out, nil
	}

	stockPrices, err := parse(stocks)
	if err != nil {
		return nil, err
	}
	bondPrices, err := parse(bonds)
	if err != nil {
		return nil, err
	}
	return NewReferenceTable(stockPrices, bondPrices), nil
}

// DefaultReferenceTable returns the built-in baseline prices for NSE stocks
// and PSU bonds.
func DefaultReferenceTable() *ReferenceTable {
	stocks := map[string]string{
		"RELIANCE":   "2485.50",
		"TCS":        "3890.25",
		"INFY":       "1654.80",
		"HDFCBANK":   "1598.75",
		"ITC":        "456.30",
		"KOTAKBANK":  "1789.40",
		"LT":         "3421.60",
		"AXISBANK":   "1156.85",
		"SBIN":       "598.20",
		"BHARTIARTL": "1189.95",
		"MARUTI":     "10845.30",
		"ASIANPAINT": "3256.70",
		"TATAMOTORS": "789.45",
		"WIPRO":      "587.25",
		"ULTRACEMCO": "8956.40",
		"SUNPHARMA":  "1234.60",
		"POWERGRID":  "289.75",
		"NESTLEIND":  "24567.80",
		"TITAN":      "3142.35",
		"TECHM":      "1567.90",
	}
	bonds := map[string]string{
		"NHAI-2031":  "1015.50",
		"IRFC-2030":  "1008.25",
		"HUDCO-2029": "1012.80",
		"PFC-2032":   "1018.75",
		"REC-2031":   "1009.30",
		"NTPC-2030":  "1014.40",
		"PGCIL-2029": "1007.60",
		"IIFCL-2028": "1011.85",
	}
	return NewReferenceTable(mustDecimalMap(stocks), mustDecimalMap(bonds))
}

func mustDecimalMap(in map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for sym, price := range in {
		out[sym] = decimal.RequireFromString(price)
	}
	return out
}
