package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

type Direction string

type OrderSide string

type ConditionalKind string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	ConditionalStopLoss   ConditionalKind = "STOP_LOSS"
	ConditionalTakeProfit ConditionalKind = "TAKE_PROFIT"
)

// Leverage bounds accepted on USDT margined futures.
const (
	MinLeverage = 1
	MaxLeverage = 125
)

// TradeIntent is a validated trade request produced by the command parser.
// It is immutable once built and consumed by exactly one execution run.
type TradeIntent struct {
	// Symbol is the uppercased instrument identifier, e.g. BTCUSDT.
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	// Direction is the position direction to open.
	Direction Direction `yaml:"direction" json:"direction" validate:"required,oneof=LONG SHORT"`
	// Leverage is the margin multiplier applied before the entry order.
	Leverage int `yaml:"leverage" json:"leverage" validate:"min=1,max=125"`
	// Quantity is the order size in the instrument's base unit.
	Quantity decimal.Decimal `yaml:"quantity" json:"quantity"`
	// StopLoss is the stop loss trigger price. Can be None if not set.
	StopLoss optional.Option[decimal.Decimal] `yaml:"stop_loss" json:"stop_loss"`
	// TakeProfit is the take profit trigger price. Can be None if not set.
	TakeProfit optional.Option[decimal.Decimal] `yaml:"take_profit" json:"take_profit"`
	// Hold suppresses all conditional orders even when StopLoss or
	// TakeProfit carries a price.
	Hold bool `yaml:"hold" json:"hold"`
}

// EntrySide returns the order side that opens the position.
func (ti *TradeIntent) EntrySide() OrderSide {
	if ti.Direction == DirectionShort {
		return OrderSideSell
	}

	return OrderSideBuy
}

// ClosingSide returns the order side that reduces the position, used by the
// conditional orders attached to the entry.
func (ti *TradeIntent) ClosingSide() OrderSide {
	if ti.Direction == DirectionShort {
		return OrderSideBuy
	}

	return OrderSideSell
}

// Validate validates the TradeIntent struct. Decimal fields are checked by
// hand since validator cannot inspect decimal.Decimal values.
func (ti *TradeIntent) Validate() error {
	validate := validator.New()
	if err := validate.Struct(ti); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidIntent, "invalid trade intent", err)
	}

	if !ti.Quantity.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidIntent, "quantity must be positive, got %s", ti.Quantity)
	}

	if ti.StopLoss.IsSome() && !ti.StopLoss.Unwrap().IsPositive() {
		return errors.New(errors.ErrCodeInvalidIntent, "stop loss price must be positive")
	}

	if ti.TakeProfit.IsSome() && !ti.TakeProfit.Unwrap().IsPositive() {
		return errors.New(errors.ErrCodeInvalidIntent, "take profit price must be positive")
	}

	return nil
}
