// Package trader turns validated trade intents into orders on the exchange.
// It owns the execution sequence and nothing else: no parsing, no transport,
// no retries. Callers hand it a TradeIntent and get back an ExecutionOutcome
// describing every order that was placed.
package trader

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/moznion/go-optional"
	"github.com/rudder-lab/rudder-trading/internal/exchange"
	"github.com/rudder-lab/rudder-trading/internal/logger"
	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"go.uber.org/zap"
)

// Trader executes trade intents against a Gateway in a fixed order:
// leverage first, then the entry market order, then the protective orders.
// The same instance is safe for concurrent use as long as the underlying
// gateway is.
type Trader struct {
	gateway exchange.Gateway
	log     *logger.Logger
}

// NewTrader creates a Trader bound to the given gateway.
func NewTrader(gateway exchange.Gateway, log *logger.Logger) *Trader {
	return &Trader{
		gateway: gateway,
		log:     log,
	}
}

// Execute runs the intent against the exchange. A leverage or entry failure
// aborts the run before any later step and is returned as the error. Failures
// of the stop loss or take profit orders do not fail the trade: the position
// is already open by then, so they are collected on the outcome instead and
// the caller decides how to report them. Both protective orders are always
// attempted; a stop loss failure does not skip the take profit.
func (t *Trader) Execute(ctx context.Context, intent types.TradeIntent) (*types.ExecutionOutcome, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	if err := t.gateway.SetLeverage(ctx, intent.Symbol, intent.Leverage); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeLeverageFailed, err,
			"failed to set %dx leverage on %s", intent.Leverage, intent.Symbol)
	}

	t.log.Info("Leverage set",
		zap.String("symbol", intent.Symbol),
		zap.Int("leverage", intent.Leverage))

	entry, err := t.gateway.PlaceMarketOrder(ctx, intent.Symbol, intent.EntrySide(), intent.Quantity)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeEntryOrderFailed, err,
			"failed to open %s position on %s", intent.Direction, intent.Symbol)
	}

	t.log.Info("Entry order placed",
		zap.String("symbol", intent.Symbol),
		zap.String("direction", string(intent.Direction)),
		zap.String("quantity", intent.Quantity.String()),
		zap.Int64("orderId", entry.OrderID))

	outcome := &types.ExecutionOutcome{
		Entry:          entry,
		StopLoss:       nil,
		TakeProfit:     nil,
		ConditionalErr: nil,
	}

	if intent.Hold {
		t.log.Info("Hold requested, skipping protective orders",
			zap.String("symbol", intent.Symbol))

		return outcome, nil
	}

	var condErr *multierror.Error

	if intent.StopLoss.IsSome() {
		ref, err := t.gateway.PlaceConditionalOrder(ctx, intent.Symbol, intent.ClosingSide(),
			intent.Quantity, intent.StopLoss.Unwrap(), types.ConditionalStopLoss)
		if err != nil {
			condErr = multierror.Append(condErr, errors.Wrapf(errors.ErrCodeConditionalOrderFailed, err,
				"failed to place stop loss on %s", intent.Symbol))

			t.log.Error("Stop loss order failed",
				zap.String("symbol", intent.Symbol),
				zap.Error(err))
		} else {
			outcome.StopLoss = optional.Some(ref)

			t.log.Info("Stop loss order placed",
				zap.String("symbol", intent.Symbol),
				zap.String("trigger", intent.StopLoss.Unwrap().String()),
				zap.Int64("orderId", ref.OrderID))
		}
	}

	if intent.TakeProfit.IsSome() {
		ref, err := t.gateway.PlaceConditionalOrder(ctx, intent.Symbol, intent.ClosingSide(),
			intent.Quantity, intent.TakeProfit.Unwrap(), types.ConditionalTakeProfit)
		if err != nil {
			condErr = multierror.Append(condErr, errors.Wrapf(errors.ErrCodeConditionalOrderFailed, err,
				"failed to place take profit on %s", intent.Symbol))

			t.log.Error("Take profit order failed",
				zap.String("symbol", intent.Symbol),
				zap.Error(err))
		} else {
			outcome.TakeProfit = optional.Some(ref)

			t.log.Info("Take profit order placed",
				zap.String("symbol", intent.Symbol),
				zap.String("trigger", intent.TakeProfit.Unwrap().String()),
				zap.Int64("orderId", ref.OrderID))
		}
	}

	outcome.ConditionalErr = condErr.ErrorOrNil()

	return outcome, nil
}
