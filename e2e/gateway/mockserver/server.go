// Package mockserver provides a mock Binance USDT margined futures server
// for end to end tests. It implements the REST endpoints the futures gateway
// uses and keeps enough position state to answer follow up queries.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Order types and sides as they appear on the wire.
const (
	OrderTypeMarket           = "MARKET"
	OrderTypeStopMarket       = "STOP_MARKET"
	OrderTypeTakeProfitMarket = "TAKE_PROFIT_MARKET"

	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"
)

// Endpoint names accepted by SetEndpointFailure.
const (
	EndpointLeverage     = "leverage"
	EndpointAccount      = "account"
	EndpointPositionRisk = "positionRisk"
	EndpointTickerPrice  = "tickerPrice"
)

// FuturesOrder records one order received by the server.
type FuturesOrder struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Side          string
	Type          string
	Quantity      float64
	StopPrice     float64
	ReduceOnly    bool
	WorkingType   string
}

// position tracks the net position for a symbol.
type position struct {
	amount     float64
	entryPrice float64
}

// ServerConfig holds configuration for the mock server.
type ServerConfig struct {
	// TotalBalance is the reported wallet balance in USDT.
	TotalBalance float64
	// AvailableBalance is the reported free balance in USDT. Zero means
	// equal to TotalBalance.
	AvailableBalance float64
	// Prices maps symbol to the current mark price.
	Prices map[string]float64
}

// MockFuturesServer provides a mock futures REST API for testing.
type MockFuturesServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	totalBalance     float64
	availableBalance float64
	prices           map[string]float64
	leverages        map[string]int
	positions        map[string]*position
	orders           []*FuturesOrder
	orderIDSeq       int64

	failedEndpoints map[string]bool
	failNextOrder   map[string]int
}

// NewMockFuturesServer creates a new mock futures server.
func NewMockFuturesServer(config ServerConfig) *MockFuturesServer {
	available := config.AvailableBalance
	if available == 0 {
		available = config.TotalBalance
	}

	prices := make(map[string]float64, len(config.Prices))
	for symbol, price := range config.Prices {
		prices[symbol] = price
	}

	return &MockFuturesServer{
		mu:               sync.RWMutex{},
		httpServer:       nil,
		listener:         nil,
		totalBalance:     config.TotalBalance,
		availableBalance: available,
		prices:           prices,
		leverages:        make(map[string]int),
		positions:        make(map[string]*position),
		orders:           make([]*FuturesOrder, 0),
		orderIDSeq:       1000,
		failedEndpoints:  make(map[string]bool),
		failNextOrder:    make(map[string]int),
	}
}

// Start starts the mock server on the given address.
// If address is empty or ":0", a random available port is used.
func (s *MockFuturesServer) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/fapi/v1/leverage", s.handleChangeLeverage).Methods("POST")
	router.HandleFunc("/fapi/v1/order", s.handleCreateOrder).Methods("POST")
	// The client library has moved the read endpoints across API versions
	// over time, so every version is answered by the same handler.
	router.HandleFunc("/fapi/v2/account", s.handleAccount).Methods("GET")
	router.HandleFunc("/fapi/v3/account", s.handleAccount).Methods("GET")
	router.HandleFunc("/fapi/v2/positionRisk", s.handlePositionRisk).Methods("GET")
	router.HandleFunc("/fapi/v3/positionRisk", s.handlePositionRisk).Methods("GET")
	router.HandleFunc("/fapi/v1/ticker/price", s.handleTickerPrice).Methods("GET")
	router.HandleFunc("/fapi/v2/ticker/price", s.handleTickerPrice).Methods("GET")

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the mock server.
func (s *MockFuturesServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *MockFuturesServer) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *MockFuturesServer) BaseURL() string {
	return "http://" + s.Address()
}

// SetPrice sets the current price for a symbol.
func (s *MockFuturesServer) SetPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[symbol] = price
}

// Leverage returns the leverage configured for a symbol.
func (s *MockFuturesServer) Leverage(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.leverages[symbol]
}

// Orders returns a copy of all orders received so far.
func (s *MockFuturesServer) Orders() []FuturesOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]FuturesOrder, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, *order)
	}

	return orders
}

// PositionAmount returns the net position amount for a symbol.
func (s *MockFuturesServer) PositionAmount(symbol string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.positions[symbol]; ok {
		return p.amount
	}

	return 0
}

// SetEndpointFailure makes every call to the named endpoint fail until
// cleared again.
func (s *MockFuturesServer) SetEndpointFailure(endpoint string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failedEndpoints[endpoint] = fail
}

// FailNextOrder makes the next order of the given type fail. An empty type
// matches any order.
func (s *MockFuturesServer) FailNextOrder(orderType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failNextOrder[orderType]++
}

// writeAPIError responds with a Binance style error payload.
func writeAPIError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code": -1000,
		"msg":  message,
	})
}

func (s *MockFuturesServer) handleChangeLeverage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeAPIError(w, "failed to parse form")
		return
	}

	symbol := r.FormValue("symbol")
	leverageStr := r.FormValue("leverage")

	if symbol == "" || leverageStr == "" {
		writeAPIError(w, "missing required parameters")
		return
	}

	leverage, err := strconv.Atoi(leverageStr)
	if err != nil || leverage < 1 || leverage > 125 {
		writeAPIError(w, "invalid leverage")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failedEndpoints[EndpointLeverage] {
		writeAPIError(w, "injected leverage failure")
		return
	}

	s.leverages[symbol] = leverage

	response := map[string]interface{}{
		"leverage":         leverage,
		"maxNotionalValue": "1000000",
		"symbol":           symbol,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *MockFuturesServer) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeAPIError(w, "failed to parse form")
		return
	}

	symbol := r.FormValue("symbol")
	side := r.FormValue("side")
	orderType := r.FormValue("type")
	quantityStr := r.FormValue("quantity")

	if symbol == "" || side == "" || orderType == "" || quantityStr == "" {
		writeAPIError(w, "missing required parameters")
		return
	}

	quantity, err := strconv.ParseFloat(quantityStr, 64)
	if err != nil || quantity <= 0 {
		writeAPIError(w, "invalid quantity")
		return
	}

	var stopPrice float64
	if stopPriceStr := r.FormValue("stopPrice"); stopPriceStr != "" {
		stopPrice, err = strconv.ParseFloat(stopPriceStr, 64)
		if err != nil {
			writeAPIError(w, "invalid stopPrice")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextOrder[orderType] > 0 {
		s.failNextOrder[orderType]--
		writeAPIError(w, "injected order failure")
		return
	}

	if s.failNextOrder[""] > 0 {
		s.failNextOrder[""]--
		writeAPIError(w, "injected order failure")
		return
	}

	price, ok := s.prices[symbol]
	if !ok {
		writeAPIError(w, "no price available for symbol")
		return
	}

	clientOrderID := r.FormValue("newClientOrderId")
	if clientOrderID == "" {
		clientOrderID = uuid.New().String()
	}

	s.orderIDSeq++
	order := &FuturesOrder{
		OrderID:       s.orderIDSeq,
		ClientOrderID: clientOrderID,
		Symbol:        symbol,
		Side:          side,
		Type:          orderType,
		Quantity:      quantity,
		StopPrice:     stopPrice,
		ReduceOnly:    r.FormValue("reduceOnly") == "true",
		WorkingType:   r.FormValue("workingType"),
	}
	s.orders = append(s.orders, order)

	status := "NEW"
	executedQty := 0.0
	if orderType == OrderTypeMarket {
		status = "FILLED"
		executedQty = quantity
		s.fill(symbol, side, quantity, price)
	}

	response := map[string]interface{}{
		"orderId":       order.OrderID,
		"clientOrderId": clientOrderID,
		"symbol":        symbol,
		"status":        status,
		"price":         "0",
		"avgPrice":      strconv.FormatFloat(price, 'f', 8, 64),
		"origQty":       strconv.FormatFloat(quantity, 'f', 8, 64),
		"executedQty":   strconv.FormatFloat(executedQty, 'f', 8, 64),
		"cumQty":        strconv.FormatFloat(executedQty, 'f', 8, 64),
		"cumQuote":      strconv.FormatFloat(executedQty*price, 'f', 8, 64),
		"timeInForce":   "GTC",
		"type":          orderType,
		"reduceOnly":    order.ReduceOnly,
		"side":          side,
		"stopPrice":     strconv.FormatFloat(stopPrice, 'f', 8, 64),
		"workingType":   order.WorkingType,
		"updateTime":    time.Now().UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// fill applies a market execution to the net position for a symbol.
func (s *MockFuturesServer) fill(symbol, side string, quantity, price float64) {
	signed := quantity
	if side == OrderSideSell {
		signed = -quantity
	}

	p, ok := s.positions[symbol]
	if !ok {
		s.positions[symbol] = &position{amount: signed, entryPrice: price}
		return
	}

	next := p.amount + signed
	switch {
	case p.amount == 0 || (p.amount > 0) == (signed > 0):
		// Opening or increasing: weighted average entry.
		total := p.amount + signed
		p.entryPrice = (p.entryPrice*p.amount + price*signed) / total
		p.amount = total
	case (next > 0) != (p.amount > 0) && next != 0:
		// Flipped through zero: the remainder opens at the fill price.
		p.amount = next
		p.entryPrice = price
	default:
		// Reduced or closed: entry price unchanged.
		p.amount = next
	}
}

func (s *MockFuturesServer) handleAccount(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failedEndpoints[EndpointAccount] {
		writeAPIError(w, "injected account failure")
		return
	}

	response := map[string]interface{}{
		"totalWalletBalance": strconv.FormatFloat(s.totalBalance, 'f', 8, 64),
		"availableBalance":   strconv.FormatFloat(s.availableBalance, 'f', 8, 64),
		"totalUnrealizedProfit": strconv.FormatFloat(
			s.totalUnrealizedLocked(), 'f', 8, 64),
		"assets":    []interface{}{},
		"positions": []interface{}{},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// totalUnrealizedLocked sums unrealized profit across positions. Callers
// must hold at least a read lock.
func (s *MockFuturesServer) totalUnrealizedLocked() float64 {
	total := 0.0
	for symbol, p := range s.positions {
		if price, ok := s.prices[symbol]; ok {
			total += (price - p.entryPrice) * p.amount
		}
	}

	return total
}

func (s *MockFuturesServer) handlePositionRisk(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failedEndpoints[EndpointPositionRisk] {
		writeAPIError(w, "injected position risk failure")
		return
	}

	symbolFilter := r.URL.Query().Get("symbol")

	response := make([]map[string]interface{}, 0, len(s.positions))
	for symbol, p := range s.positions {
		if symbolFilter != "" && symbol != symbolFilter {
			continue
		}

		price := s.prices[symbol]
		leverage := s.leverages[symbol]
		if leverage == 0 {
			leverage = 20
		}

		response = append(response, map[string]interface{}{
			"symbol":           symbol,
			"positionAmt":      strconv.FormatFloat(p.amount, 'f', 8, 64),
			"entryPrice":       strconv.FormatFloat(p.entryPrice, 'f', 8, 64),
			"markPrice":        strconv.FormatFloat(price, 'f', 8, 64),
			"unRealizedProfit": strconv.FormatFloat((price-p.entryPrice)*p.amount, 'f', 8, 64),
			"liquidationPrice": "0",
			"leverage":         strconv.Itoa(leverage),
			"maxNotionalValue": "1000000",
			"marginType":       "cross",
			"isolatedMargin":   "0.00000000",
			"isAutoAddMargin":  "false",
			"positionSide":     "BOTH",
			"updateTime":       time.Now().UnixMilli(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *MockFuturesServer) handleTickerPrice(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failedEndpoints[EndpointTickerPrice] {
		writeAPIError(w, "injected ticker failure")
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol != "" {
		price, ok := s.prices[symbol]
		if !ok {
			writeAPIError(w, "unknown symbol")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"symbol": symbol,
			"price":  strconv.FormatFloat(price, 'f', 8, 64),
			"time":   time.Now().UnixMilli(),
		})

		return
	}

	response := make([]map[string]interface{}, 0, len(s.prices))
	for sym, price := range s.prices {
		response = append(response, map[string]interface{}{
			"symbol": sym,
			"price":  strconv.FormatFloat(price, 'f', 8, 64),
			"time":   time.Now().UnixMilli(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
