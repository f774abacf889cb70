package types

import (
	"github.com/moznion/go-optional"
)

// OrderRef identifies an order accepted by the exchange.
type OrderRef struct {
	// OrderID is the exchange assigned order identifier.
	OrderID int64 `yaml:"order_id" json:"order_id"`
	// ClientOrderID is the identifier this service tagged the order with.
	ClientOrderID string `yaml:"client_order_id" json:"client_order_id"`
	// Symbol is the instrument the order was placed on.
	Symbol string `yaml:"symbol" json:"symbol"`
}

// ExecutionOutcome reports what a single execution run actually placed.
// The entry order is always present; conditional orders appear only when
// they were requested, not suppressed, and accepted by the exchange.
type ExecutionOutcome struct {
	Entry OrderRef `yaml:"entry" json:"entry"`
	// StopLoss is the placed stop loss order. Can be None if not placed.
	StopLoss optional.Option[OrderRef] `yaml:"stop_loss" json:"stop_loss"`
	// TakeProfit is the placed take profit order. Can be None if not placed.
	TakeProfit optional.Option[OrderRef] `yaml:"take_profit" json:"take_profit"`
	// ConditionalErr aggregates conditional order placement failures. The
	// entry already executed, so these are reported instead of failing the
	// run.
	ConditionalErr error `yaml:"-" json:"-"`
}

// PartiallyFailed reports whether the entry filled but at least one
// requested conditional order could not be placed.
func (o *ExecutionOutcome) PartiallyFailed() bool {
	return o.ConditionalErr != nil
}
