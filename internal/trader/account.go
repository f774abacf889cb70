package trader

import (
	"context"

	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/shopspring/decimal"
)

// Balance returns the account balance from the exchange.
func (t *Trader) Balance(ctx context.Context) (types.Balance, error) {
	return t.gateway.AccountBalance(ctx)
}

// Positions returns all open positions from the exchange.
func (t *Trader) Positions(ctx context.Context) ([]types.Position, error) {
	return t.gateway.OpenPositions(ctx)
}

// LastPrice returns the latest traded price for a symbol.
func (t *Trader) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return t.gateway.LastPrice(ctx, symbol)
}
