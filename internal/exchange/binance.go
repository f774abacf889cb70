package exchange

import (
	"context"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/google/uuid"
	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

// clientOrderPrefix marks orders placed by this service so they can be told
// apart from manual ones on the exchange.
const clientOrderPrefix = "rudder-"

// Service interfaces for mocking the Binance futures API

// ChangeLeverageService interface for setting symbol leverage.
type ChangeLeverageService interface {
	Symbol(symbol string) ChangeLeverageService
	Leverage(leverage int) ChangeLeverageService
	Do(ctx context.Context) (*futures.SymbolLeverage, error)
}

// CreateOrderService interface for creating orders.
type CreateOrderService interface {
	Symbol(symbol string) CreateOrderService
	Side(side futures.SideType) CreateOrderService
	Type(orderType futures.OrderType) CreateOrderService
	Quantity(quantity string) CreateOrderService
	StopPrice(price string) CreateOrderService
	ReduceOnly(reduceOnly bool) CreateOrderService
	WorkingType(workingType futures.WorkingType) CreateOrderService
	NewClientOrderID(id string) CreateOrderService
	Do(ctx context.Context) (*futures.CreateOrderResponse, error)
}

// GetAccountService interface for getting account info.
type GetAccountService interface {
	Do(ctx context.Context) (*futures.Account, error)
}

// PositionRiskService interface for listing position risk.
type PositionRiskService interface {
	Do(ctx context.Context) ([]*futures.PositionRisk, error)
}

// ListPricesService interface for reading ticker prices.
type ListPricesService interface {
	Symbol(symbol string) ListPricesService
	Do(ctx context.Context) ([]*futures.SymbolPrice, error)
}

// FuturesClient interface abstracts the Binance futures client for testing.
type FuturesClient interface {
	NewChangeLeverageService() ChangeLeverageService
	NewCreateOrderService() CreateOrderService
	NewGetAccountService() GetAccountService
	NewGetPositionRiskService() PositionRiskService
	NewListPricesService() ListPricesService
}

// realFuturesClient wraps the actual futures.Client.
type realFuturesClient struct {
	client *futures.Client
}

func (r *realFuturesClient) NewChangeLeverageService() ChangeLeverageService {
	return &realChangeLeverageService{service: r.client.NewChangeLeverageService()}
}

func (r *realFuturesClient) NewCreateOrderService() CreateOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realFuturesClient) NewGetAccountService() GetAccountService {
	return &realGetAccountService{service: r.client.NewGetAccountService()}
}

func (r *realFuturesClient) NewGetPositionRiskService() PositionRiskService {
	return &realPositionRiskService{service: r.client.NewGetPositionRiskService()}
}

func (r *realFuturesClient) NewListPricesService() ListPricesService {
	return &realListPricesService{service: r.client.NewListPricesService()}
}

// Real service wrappers

type realChangeLeverageService struct {
	service *futures.ChangeLeverageService
}

func (s *realChangeLeverageService) Symbol(symbol string) ChangeLeverageService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realChangeLeverageService) Leverage(leverage int) ChangeLeverageService {
	s.service = s.service.Leverage(leverage)

	return s
}

func (s *realChangeLeverageService) Do(ctx context.Context) (*futures.SymbolLeverage, error) {
	return s.service.Do(ctx)
}

type realCreateOrderService struct {
	service *futures.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) CreateOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side futures.SideType) CreateOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType futures.OrderType) CreateOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) CreateOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) StopPrice(price string) CreateOrderService {
	s.service = s.service.StopPrice(price)

	return s
}

func (s *realCreateOrderService) ReduceOnly(reduceOnly bool) CreateOrderService {
	s.service = s.service.ReduceOnly(reduceOnly)

	return s
}

func (s *realCreateOrderService) WorkingType(workingType futures.WorkingType) CreateOrderService {
	s.service = s.service.WorkingType(workingType)

	return s
}

func (s *realCreateOrderService) NewClientOrderID(id string) CreateOrderService {
	s.service = s.service.NewClientOrderID(id)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*futures.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realGetAccountService struct {
	service *futures.GetAccountService
}

func (s *realGetAccountService) Do(ctx context.Context) (*futures.Account, error) {
	return s.service.Do(ctx)
}

type realPositionRiskService struct {
	service *futures.GetPositionRiskService
}

func (s *realPositionRiskService) Do(ctx context.Context) ([]*futures.PositionRisk, error) {
	return s.service.Do(ctx)
}

type realListPricesService struct {
	service *futures.ListPricesService
}

func (s *realListPricesService) Symbol(symbol string) ListPricesService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realListPricesService) Do(ctx context.Context) ([]*futures.SymbolPrice, error) {
	return s.service.Do(ctx)
}

// FuturesGateway implements Gateway against the Binance USDT margined
// futures API. It is stateless - every call is answered from the exchange.
type FuturesGateway struct {
	client FuturesClient
}

// NewFuturesGateway creates a gateway for the Binance futures API.
// If config.Testnet is true, requests go to the futures testnet. A non empty
// config.BaseURL takes precedence over Testnet.
func NewFuturesGateway(config BinanceConfig) (*FuturesGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Testnet {
		futures.UseTestnet = true
	}

	client := binance.NewFuturesClient(config.APIKey, config.SecretKey)

	// Set custom base URL if provided (takes precedence over Testnet)
	if config.BaseURL != "" {
		client.BaseURL = config.BaseURL
	}

	return &FuturesGateway{client: &realFuturesClient{client: client}}, nil
}

// newFuturesGatewayWithClient creates a gateway with a custom client.
// This is used for testing with mock services.
func newFuturesGatewayWithClient(client FuturesClient) *FuturesGateway {
	return &FuturesGateway{client: client}
}

// SetLeverage sets the margin multiplier for a symbol.
func (g *FuturesGateway) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	_, err := g.client.NewChangeLeverageService().
		Symbol(symbol).
		Leverage(leverage).
		Do(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeGateway, err, "failed to set leverage %dx on %s", leverage, symbol)
	}

	return nil
}

// PlaceMarketOrder opens or reduces a position at the market price.
func (g *FuturesGateway) PlaceMarketOrder(ctx context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal) (types.OrderRef, error) {
	binanceSide, err := mapOrderSide(side)
	if err != nil {
		return types.OrderRef{}, err
	}

	res, err := g.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binanceSide).
		Type(futures.OrderTypeMarket).
		Quantity(quantity.String()).
		NewClientOrderID(newClientOrderID()).
		Do(ctx)
	if err != nil {
		return types.OrderRef{}, errors.Wrapf(errors.ErrCodeGateway, err, "failed to place market %s order on %s", side, symbol)
	}

	return orderRefFromResponse(res), nil
}

// PlaceConditionalOrder places a STOP_MARKET or TAKE_PROFIT_MARKET order
// that reduces the position when the mark price crosses triggerPrice.
func (g *FuturesGateway) PlaceConditionalOrder(ctx context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal, triggerPrice decimal.Decimal, kind types.ConditionalKind) (types.OrderRef, error) {
	binanceSide, err := mapOrderSide(side)
	if err != nil {
		return types.OrderRef{}, err
	}

	orderType, err := mapConditionalKind(kind)
	if err != nil {
		return types.OrderRef{}, err
	}

	res, err := g.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binanceSide).
		Type(orderType).
		Quantity(quantity.String()).
		StopPrice(triggerPrice.String()).
		ReduceOnly(true).
		WorkingType(futures.WorkingTypeMarkPrice).
		NewClientOrderID(newClientOrderID()).
		Do(ctx)
	if err != nil {
		return types.OrderRef{}, errors.Wrapf(errors.ErrCodeGateway, err, "failed to place %s order on %s", kind, symbol)
	}

	return orderRefFromResponse(res), nil
}

// AccountBalance returns the total and available balance in the quote
// currency.
func (g *FuturesGateway) AccountBalance(ctx context.Context) (types.Balance, error) {
	account, err := g.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return types.Balance{}, errors.Wrap(errors.ErrCodeGateway, "failed to get account info", err)
	}

	total, err := decimal.NewFromString(account.TotalWalletBalance)
	if err != nil {
		return types.Balance{}, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
			"unparsable total wallet balance %q", account.TotalWalletBalance)
	}

	available, err := decimal.NewFromString(account.AvailableBalance)
	if err != nil {
		return types.Balance{}, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
			"unparsable available balance %q", account.AvailableBalance)
	}

	return types.Balance{Total: total, Available: available}, nil
}

// OpenPositions returns every position with a non zero amount, preserving
// the order the exchange reports them in.
func (g *FuturesGateway) OpenPositions(ctx context.Context) ([]types.Position, error) {
	risks, err := g.client.NewGetPositionRiskService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGateway, "failed to get positions", err)
	}

	positions := make([]types.Position, 0, len(risks))

	for _, risk := range risks {
		amount, err := decimal.NewFromString(risk.PositionAmt)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
				"unparsable position amount %q for %s", risk.PositionAmt, risk.Symbol)
		}

		if amount.IsZero() {
			continue
		}

		entryPrice, err := decimal.NewFromString(risk.EntryPrice)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
				"unparsable entry price %q for %s", risk.EntryPrice, risk.Symbol)
		}

		unrealized, err := decimal.NewFromString(risk.UnRealizedProfit)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
				"unparsable unrealized profit %q for %s", risk.UnRealizedProfit, risk.Symbol)
		}

		leverage, err := strconv.Atoi(risk.Leverage)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
				"unparsable leverage %q for %s", risk.Leverage, risk.Symbol)
		}

		positions = append(positions, types.Position{
			Symbol:        risk.Symbol,
			Amount:        amount,
			EntryPrice:    entryPrice,
			UnrealizedPnL: unrealized,
			Leverage:      leverage,
		})
	}

	return positions, nil
}

// LastPrice returns the latest traded price for a symbol.
func (g *FuturesGateway) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := g.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(errors.ErrCodeGateway, err, "failed to get price for %s", symbol)
	}

	for _, price := range prices {
		if price.Symbol != symbol {
			continue
		}

		value, err := decimal.NewFromString(price.Price)
		if err != nil {
			return decimal.Decimal{}, errors.Wrapf(errors.ErrCodeGatewayBadResponse, err,
				"unparsable price %q for %s", price.Price, symbol)
		}

		return value, nil
	}

	return decimal.Decimal{}, errors.Newf(errors.ErrCodeGatewayBadResponse, "no price returned for %s", symbol)
}

// Helper functions

// mapOrderSide maps our order side to the Binance side type.
func mapOrderSide(side types.OrderSide) (futures.SideType, error) {
	switch side {
	case types.OrderSideBuy:
		return futures.SideTypeBuy, nil
	case types.OrderSideSell:
		return futures.SideTypeSell, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", side)
	}
}

// mapConditionalKind maps a conditional kind to the Binance order type.
func mapConditionalKind(kind types.ConditionalKind) (futures.OrderType, error) {
	switch kind {
	case types.ConditionalStopLoss:
		return futures.OrderTypeStopMarket, nil
	case types.ConditionalTakeProfit:
		return futures.OrderTypeTakeProfitMarket, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unsupported conditional kind: %s", kind)
	}
}

func orderRefFromResponse(res *futures.CreateOrderResponse) types.OrderRef {
	return types.OrderRef{
		OrderID:       res.OrderID,
		ClientOrderID: res.ClientOrderID,
		Symbol:        res.Symbol,
	}
}

// newClientOrderID tags every order this service places. Binance caps
// client order ids at 36 characters.
func newClientOrderID() string {
	return clientOrderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// Ensure FuturesGateway implements Gateway.
var _ Gateway = (*FuturesGateway)(nil)
