package types

import "github.com/shopspring/decimal"

// Balance represents the account balance in the quote currency.
type Balance struct {
	// Total is the wallet balance excluding unrealized P&L
	Total decimal.Decimal `json:"total" yaml:"total"`
	// Available is the amount free to open new positions
	Available decimal.Decimal `json:"available" yaml:"available"`
}

// Position represents an open futures position as reported by the exchange.
// Positions with a zero amount never surface; the gateway filters them out.
type Position struct {
	// Symbol is the instrument identifier
	Symbol string `json:"symbol" yaml:"symbol"`
	// Amount is the signed position size; negative means short
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	// EntryPrice is the average entry price of the position
	EntryPrice decimal.Decimal `json:"entry_price" yaml:"entry_price"`
	// UnrealizedPnL is the unrealized profit or loss at the mark price
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	// Leverage is the margin multiplier currently set for the symbol
	Leverage int `json:"leverage" yaml:"leverage"`
}

// Side returns the position direction derived from the sign of Amount.
func (p Position) Side() Direction {
	if p.Amount.IsNegative() {
		return DirectionShort
	}

	return DirectionLong
}
