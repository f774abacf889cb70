package exchange

import (
	"context"
	"sync"

	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

// defaultPaperBalance is the starting quote balance when none is configured.
var defaultPaperBalance = decimal.NewFromInt(10000)

// PaperConfig seeds the paper gateway. Amounts are plain floats so the
// config file stays readable; they are converted to decimals on
// construction.
type PaperConfig struct {
	// StartingBalance is the initial quote balance. Zero means 10000.
	StartingBalance float64 `yaml:"starting_balance" json:"starting_balance"`
	// Prices is the static price book, symbol to price. Orders on symbols
	// without a seeded price are rejected.
	Prices map[string]float64 `yaml:"prices" json:"prices"`
}

// paperPosition tracks one symbol's simulated position.
type paperPosition struct {
	amount     decimal.Decimal
	entryPrice decimal.Decimal
	leverage   int
}

// PaperGateway is an in memory Gateway used for dry runs and local testing.
// Market orders fill immediately at the seeded paper price and realized P&L
// is settled into the balance. Conditional orders are accepted and recorded
// but never trigger; paper mode does not simulate fills of resting orders.
type PaperGateway struct {
	mu sync.Mutex

	nextOrderID  int64
	balance      decimal.Decimal
	prices       map[string]decimal.Decimal
	leverage     map[string]int
	symbols      []string
	positions    map[string]*paperPosition
	conditionals []types.OrderRef
}

// NewPaperGateway creates a paper gateway seeded from cfg.
func NewPaperGateway(cfg PaperConfig) *PaperGateway {
	balance := decimal.NewFromFloat(cfg.StartingBalance)
	if balance.IsZero() {
		balance = defaultPaperBalance
	}

	prices := make(map[string]decimal.Decimal, len(cfg.Prices))
	for symbol, price := range cfg.Prices {
		prices[symbol] = decimal.NewFromFloat(price)
	}

	return &PaperGateway{
		nextOrderID:  0,
		balance:      balance,
		prices:       prices,
		leverage:     make(map[string]int),
		symbols:      nil,
		positions:    make(map[string]*paperPosition),
		conditionals: nil,
	}
}

// SetPrice moves the paper market for a symbol.
func (p *PaperGateway) SetPrice(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prices[symbol] = price
}

// SetLeverage stores the leverage for a symbol, rejecting values the real
// exchange would reject.
func (p *PaperGateway) SetLeverage(_ context.Context, symbol string, leverage int) error {
	if leverage < types.MinLeverage || leverage > types.MaxLeverage {
		return errors.Newf(errors.ErrCodeGateway, "leverage %d outside [%d, %d]",
			leverage, types.MinLeverage, types.MaxLeverage)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.leverage[symbol] = leverage

	return nil
}

// PlaceMarketOrder fills immediately at the seeded price.
func (p *PaperGateway) PlaceMarketOrder(_ context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal) (types.OrderRef, error) {
	if side != types.OrderSideBuy && side != types.OrderSideSell {
		return types.OrderRef{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", side)
	}

	if !quantity.IsPositive() {
		return types.OrderRef{}, errors.New(errors.ErrCodeGateway, "quantity must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.prices[symbol]
	if !ok {
		return types.OrderRef{}, errors.Newf(errors.ErrCodeGateway, "no paper price seeded for %s", symbol)
	}

	p.fill(symbol, side, quantity, price)

	return p.newOrderRef(symbol), nil
}

// PlaceConditionalOrder records the order without ever triggering it.
func (p *PaperGateway) PlaceConditionalOrder(_ context.Context, symbol string, side types.OrderSide, quantity decimal.Decimal, triggerPrice decimal.Decimal, kind types.ConditionalKind) (types.OrderRef, error) {
	if side != types.OrderSideBuy && side != types.OrderSideSell {
		return types.OrderRef{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported order side: %s", side)
	}

	if kind != types.ConditionalStopLoss && kind != types.ConditionalTakeProfit {
		return types.OrderRef{}, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported conditional kind: %s", kind)
	}

	if !quantity.IsPositive() || !triggerPrice.IsPositive() {
		return types.OrderRef{}, errors.New(errors.ErrCodeGateway, "quantity and trigger price must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ref := p.newOrderRef(symbol)
	p.conditionals = append(p.conditionals, ref)

	return ref, nil
}

// AccountBalance reports the settled balance and what is left after the
// margin locked by open positions.
func (p *PaperGateway) AccountBalance(_ context.Context) (types.Balance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	marginUsed := decimal.Zero

	for _, symbol := range p.symbols {
		position := p.positions[symbol]
		if position.amount.IsZero() {
			continue
		}

		leverage := position.leverage
		if leverage == 0 {
			leverage = 1
		}

		notional := position.amount.Abs().Mul(position.entryPrice)
		marginUsed = marginUsed.Add(notional.Div(decimal.NewFromInt(int64(leverage))))
	}

	return types.Balance{
		Total:     p.balance,
		Available: p.balance.Sub(marginUsed),
	}, nil
}

// OpenPositions lists non zero positions in the order they were opened.
func (p *PaperGateway) OpenPositions(_ context.Context) ([]types.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	positions := make([]types.Position, 0, len(p.symbols))

	for _, symbol := range p.symbols {
		position := p.positions[symbol]
		if position.amount.IsZero() {
			continue
		}

		unrealized := decimal.Zero
		if price, ok := p.prices[symbol]; ok {
			unrealized = price.Sub(position.entryPrice).Mul(position.amount)
		}

		positions = append(positions, types.Position{
			Symbol:        symbol,
			Amount:        position.amount,
			EntryPrice:    position.entryPrice,
			UnrealizedPnL: unrealized,
			Leverage:      position.leverage,
		})
	}

	return positions, nil
}

// LastPrice returns the seeded price for a symbol.
func (p *PaperGateway) LastPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.prices[symbol]
	if !ok {
		return decimal.Decimal{}, errors.Newf(errors.ErrCodeGateway, "no paper price seeded for %s", symbol)
	}

	return price, nil
}

// fill applies a market fill to the symbol's position. Reducing fills settle
// realized P&L into the balance; fills beyond the open amount flip the
// position to the other side at the fill price.
func (p *PaperGateway) fill(symbol string, side types.OrderSide, quantity, price decimal.Decimal) {
	position, ok := p.positions[symbol]
	if !ok {
		position = &paperPosition{
			amount:     decimal.Zero,
			entryPrice: decimal.Zero,
			leverage:   p.leverage[symbol],
		}
		p.positions[symbol] = position
		p.symbols = append(p.symbols, symbol)
	}

	position.leverage = p.leverage[symbol]

	signed := quantity
	if side == types.OrderSideSell {
		signed = quantity.Neg()
	}

	switch {
	case position.amount.IsZero():
		position.amount = signed
		position.entryPrice = price
	case position.amount.Sign() == signed.Sign():
		// Increase: weighted average entry price.
		oldNotional := position.entryPrice.Mul(position.amount.Abs())
		newNotional := price.Mul(quantity)
		total := position.amount.Abs().Add(quantity)
		position.entryPrice = oldNotional.Add(newNotional).Div(total)
		position.amount = position.amount.Add(signed)
	case quantity.LessThanOrEqual(position.amount.Abs()):
		// Reduce: settle realized P&L on the closed part.
		closed := signed.Neg()
		p.balance = p.balance.Add(price.Sub(position.entryPrice).Mul(closed))
		position.amount = position.amount.Add(signed)

		if position.amount.IsZero() {
			position.entryPrice = decimal.Zero
		}
	default:
		// Flip: close everything, open the remainder on the other side.
		p.balance = p.balance.Add(price.Sub(position.entryPrice).Mul(position.amount))
		position.amount = position.amount.Add(signed)
		position.entryPrice = price
	}
}

func (p *PaperGateway) newOrderRef(symbol string) types.OrderRef {
	p.nextOrderID++

	return types.OrderRef{
		OrderID:       p.nextOrderID,
		ClientOrderID: newClientOrderID(),
		Symbol:        symbol,
	}
}

// Ensure PaperGateway implements Gateway.
var _ Gateway = (*PaperGateway)(nil)
