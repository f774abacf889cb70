// Package exchange talks to the derivatives exchange on behalf of the
// trading core. Gateway is the only surface the rest of the service depends
// on; implementations cover the Binance USDT margined futures API and an in
// memory paper variant for dry runs.
package exchange

import (
	"context"

	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/shopspring/decimal"
)

// Gateway is the capability contract the trade orchestrator depends on.
// Every call is a single network request. Failures carry a gateway error
// code and are never retried at this layer; the caller decides what a
// failure means for the rest of its run.
type Gateway interface {
	// SetLeverage sets the margin multiplier for a symbol.
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	// PlaceMarketOrder opens or reduces a position at the market price.
	PlaceMarketOrder(ctx context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal) (types.OrderRef, error)
	// PlaceConditionalOrder places a stop loss or take profit order that
	// fires at triggerPrice and reduces the position on the given side.
	PlaceConditionalOrder(ctx context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal, triggerPrice decimal.Decimal, kind types.ConditionalKind) (types.OrderRef, error)
	// AccountBalance returns the total and available balance in the quote
	// currency.
	AccountBalance(ctx context.Context) (types.Balance, error)
	// OpenPositions returns all positions with a non zero amount, in the
	// order the exchange reports them.
	OpenPositions(ctx context.Context) ([]types.Position, error)
	// LastPrice returns the latest traded price for a symbol.
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
