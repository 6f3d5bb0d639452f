package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents the singleton cash balance funding purchases and
// receiving sale proceeds. Exactly one logical wallet exists; it is mutated
// only by buy/sell/deposit operations.
// Invariant: Balance >= 0 at all observable times.
type Wallet struct {
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
