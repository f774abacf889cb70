// Package server exposes a small operational HTTP API next to the bot so
// balances and positions can be scraped without talking to Telegram.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rudder-lab/rudder-trading/internal/logger"
	"github.com/rudder-lab/rudder-trading/internal/trader"
	"github.com/rudder-lab/rudder-trading/internal/version"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"go.uber.org/zap"
)

// Server serves the operational API. Construct with New, then Start and
// Stop around the service lifetime.
type Server struct {
	trader     *trader.Trader
	log        *logger.Logger
	httpServer *http.Server
	listener   net.Listener
}

// New creates a Server reading from the given trader.
func New(t *trader.Trader, log *logger.Logger) *Server {
	return &Server{
		trader:     t,
		log:        log,
		httpServer: nil,
		listener:   nil,
	}
}

// Start binds the listener and serves in the background. An empty address
// picks a free port, which tests rely on.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}

	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	router.HandleFunc("/api/v1/balance", s.handleBalance).Methods("GET")
	router.HandleFunc("/api/v1/positions", s.handlePositions).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.log.Error("Ops server error", zap.Error(err))
		}
	}()

	s.log.Info("Ops server listening", zap.String("address", s.Address()))

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	response := map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.trader.Balance(r.Context())
	if err != nil {
		s.log.Error("Balance request failed", zap.Error(err))
		http.Error(w, "failed to fetch balance from exchange", http.StatusBadGateway)

		return
	}

	type balanceResponse struct {
		Total     string `json:"total"`
		Available string `json:"available"`
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Total:     balance.Total.String(),
		Available: balance.Available.String(),
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.trader.Positions(r.Context())
	if err != nil {
		s.log.Error("Positions request failed", zap.Error(err))
		http.Error(w, "failed to fetch positions from exchange", http.StatusBadGateway)

		return
	}

	type positionResponse struct {
		Symbol        string `json:"symbol"`
		Direction     string `json:"direction"`
		Amount        string `json:"amount"`
		EntryPrice    string `json:"entry_price"`
		UnrealizedPnL string `json:"unrealized_pnl"`
		Leverage      int    `json:"leverage"`
	}

	response := make([]positionResponse, 0, len(positions))
	for _, position := range positions {
		response = append(response, positionResponse{
			Symbol:        position.Symbol,
			Direction:     string(position.Side()),
			Amount:        position.Amount.Abs().String(),
			EntryPrice:    position.EntryPrice.String(),
			UnrealizedPnL: position.UnrealizedPnL.String(),
			Leverage:      position.Leverage,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
