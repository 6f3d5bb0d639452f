package domain

import "errors"

// Sentinel errors for the ledger core. Callers match them with errors.Is;
// the transport adapter maps them to response status codes.
var (
	// ErrInsufficientFunds is returned when a buy's total cost exceeds the
	// current wallet balance.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrInvalidAmount is returned for non-positive deposit amounts and
	// non-positive quantity/price on buy.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidHolding is returned when a holding fails structural
	// validation (blank symbol/name, unknown asset class).
	ErrInvalidHolding = errors.New("invalid holding")

	// ErrHoldingNotFound is returned when a sell or lookup references a
	// holding id that does not exist (or was already sold).
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrWalletNotFound is returned when the singleton wallet row has not
	// been initialized.
	ErrWalletNotFound = errors.New("wallet not initialized")
)
