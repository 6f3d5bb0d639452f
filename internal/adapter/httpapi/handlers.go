package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/portfolio"
)

type holdingDTO struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  string          `json:"purchase_date"`
	CreatedAt     string          `json:"created_at"`
}

func toHoldingDTO(h *domain.Holding) holdingDTO {
	return holdingDTO{
		ID:            h.ID.String(),
		Symbol:        h.Symbol,
		Name:          h.Name,
		Type:          string(h.AssetClass),
		Quantity:      h.Quantity,
		PurchasePrice: h.PurchasePrice,
		PurchaseDate:  h.PurchaseDate.Format("2006-01-02"),
		CreatedAt:     h.CreatedAt.Format(time.RFC3339),
	}
}

type buyRequest struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

type buyResponse struct {
	ID               string          `json:"id"`
	Message          string          `json:"message"`
	Cost             decimal.Decimal `json:"cost"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type saleDetails struct {
	Symbol             string          `json:"symbol"`
	Quantity           int64           `json:"quantity"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellPrice          decimal.Decimal `json:"sell_price"`
	OriginalInvestment decimal.Decimal `json:"original_investment"`
	SellValue          decimal.Decimal `json:"sell_value"`
	ProfitLoss         decimal.Decimal `json:"profit_loss"`
	ProfitLossPct      decimal.Decimal `json:"profit_loss_percentage"`
	NewWalletBalance   decimal.Decimal `json:"new_wallet_balance"`
}

type sellResponse struct {
	Message string      `json:"message"`
	Details saleDetails `json:"details"`
}

type summaryHoldingDTO struct {
	holdingDTO
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	GainLoss     decimal.Decimal `json:"gain_loss"`
	GainLossPct  decimal.Decimal `json:"gain_loss_percentage"`
}

type summaryResponse struct {
	TotalInvested    decimal.Decimal     `json:"total_invested"`
	CurrentValue     decimal.Decimal     `json:"current_value"`
	TotalGainLoss    decimal.Decimal     `json:"total_gain_loss"`
	TotalGainLossPct decimal.Decimal     `json:"total_gain_loss_percentage"`
	Holdings         []summaryHoldingDTO `json:"holdings"`
}

type walletResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type depositResponse struct {
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
	Added   decimal.Decimal `json:"added"`
}

type priceResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
}

type suggestResponse struct {
	Symbol         string           `json:"symbol"`
	SuggestedPrice *decimal.Decimal `json:"suggested_price"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListPortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.portfolio.ListHoldings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]holdingDTO, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, toHoldingDTO(h))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.portfolio.Buy(r.Context(), portfolio.BuyInput{
		Symbol:        req.Symbol,
		Name:          req.Name,
		AssetClass:    domain.AssetClass(req.Type),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, buyResponse{
		ID:               result.Holding.ID.String(),
		Message:          "Investment added successfully",
		Cost:             result.Cost,
		RemainingBalance: result.RemainingBalance,
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	receipt, err := s.portfolio.Sell(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, sellResponse{
		Message: "Investment sold successfully",
		Details: saleDetails{
			Symbol:             receipt.Symbol,
			Quantity:           receipt.Quantity,
			PurchasePrice:      receipt.PurchasePrice,
			SellPrice:          receipt.SellPrice,
			OriginalInvestment: receipt.OriginalInvestment,
			SellValue:          receipt.SellValue,
			ProfitLoss:         receipt.ProfitLoss,
			ProfitLossPct:      receipt.ProfitLossPct,
			NewWalletBalance:   receipt.NewWalletBalance,
		},
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.Summarize(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	rows := make([]summaryHoldingDTO, 0, len(summary.Holdings))
	for _, row := range summary.Holdings {
		rows = append(rows, summaryHoldingDTO{
			holdingDTO:   toHoldingDTO(row.Holding),
			CurrentPrice: row.CurrentPrice,
			CurrentValue: row.CurrentValue,
			GainLoss:     row.GainLoss,
			GainLossPct:  row.GainLossPct,
		})
	}

	s.writeJSON(w, http.StatusOK, summaryResponse{
		TotalInvested:    summary.TotalInvested,
		CurrentValue:     summary.TotalCurrentValue,
		TotalGainLoss:    summary.TotalGainLoss,
		TotalGainLossPct: summary.TotalGainLossPct,
		Holdings:         rows,
	})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.portfolio.WalletBalance(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, walletResponse{Balance: wallet.Balance})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet, err := s.portfolio.Deposit(r.Context(), req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, depositResponse{
		Message: "Funds added successfully",
		Balance: wallet.Balance,
		Added:   req.Amount,
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	quote := s.prices.AdHocQuote(r.Context(), mux.Vars(r)["symbol"])
	s.writeJSON(w, http.StatusOK, priceResponse{
		Symbol: quote.Symbol,
		Price:  quote.Price,
		Source: string(quote.Basis),
	})
}

func (s *Server) handleSuggestPrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	resp := suggestResponse{Symbol: symbol}
	if price, ok := s.prices.SuggestedPrice(symbol); ok {
		resp.SuggestedPrice = &price
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.Errorw("health check failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Errorw("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps domain sentinel errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidHolding):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		s.writeError(w, http.StatusBadRequest, "insufficient wallet balance")
	case errors.Is(err, domain.ErrHoldingNotFound):
		s.writeError(w, http.StatusNotFound, "investment not found")
	default:
		s.log.Errorw("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
