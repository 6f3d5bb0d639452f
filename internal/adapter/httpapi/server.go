// Package httpapi exposes the portfolio application over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nivesh-app/nivesh-backend/internal/domain"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/dashboard"
	"github.com/nivesh-app/nivesh-backend/internal/usecase/portfolio"
)

// PriceService is the pricing surface the standalone price endpoints need.
type PriceService interface {
	AdHocQuote(ctx context.Context, symbol string) domain.PriceQuote
	SuggestedPrice(symbol string) (decimal.Decimal, bool)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	portfolio *portfolio.PortfolioService
	dashboard *dashboard.DashboardService
	prices    PriceService
	db        Pinger
	log       *zap.SugaredLogger
	origins   []string
}

func NewServer(
	portfolioSvc *portfolio.PortfolioService,
	dashboardSvc *dashboard.DashboardService,
	prices PriceService,
	db Pinger,
	log *zap.SugaredLogger,
	allowedOrigins []string,
) *Server {
	// The browser client expects monetary fields as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	return &Server{
		portfolio: portfolioSvc,
		dashboard: dashboardSvc,
		prices:    prices,
		db:        db,
		log:       log,
		origins:   allowedOrigins,
	}
}

// Handler builds the routed handler with CORS, logging and recovery applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/portfolio", s.handleListPortfolio).Methods(http.MethodGet)
	r.HandleFunc("/api/portfolio", s.handleBuy).Methods(http.MethodPost)
	r.HandleFunc("/api/portfolio/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/portfolio/sell/{id}", s.handleSell).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet", s.handleWallet).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/add", s.handleDeposit).Methods(http.MethodPost)
	r.HandleFunc("/api/price/{symbol}", s.handlePrice).Methods(http.MethodGet)
	r.HandleFunc("/api/suggest-price/{symbol}", s.handleSuggestPrice).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(s.withRecovery(s.withRequestLog(r)))
}
