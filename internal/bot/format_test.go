package bot

import (
	stderrors "errors"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantContains []string
	}{
		{
			name:         "parse failure appends usage",
			err:          errors.New(errors.ErrCodeInvalidLeverage, "leverage must be between 1 and 125"),
			wantContains: []string{"leverage must be between 1 and 125", usageText},
		},
		{
			name:         "execution failure without usage",
			err:          errors.New(errors.ErrCodeEntryOrderFailed, "failed to open LONG position on BTCUSDT"),
			wantContains: []string{"failed to open LONG position on BTCUSDT"},
		},
		{
			name:         "plain error",
			err:          stderrors.New("something odd"),
			wantContains: []string{"something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatError(tt.err)
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestFormatErrorNoUsageOnExecutionFailure(t *testing.T) {
	err := errors.New(errors.ErrCodeEntryOrderFailed, "failed to open LONG position on BTCUSDT")
	assert.NotContains(t, formatError(err), usageText)
}

func TestFormatBalance(t *testing.T) {
	balance := types.Balance{
		Total:     decimal.RequireFromString("1234.56"),
		Available: decimal.RequireFromString("1000"),
	}

	got := formatBalance(balance)
	assert.Contains(t, got, "Total: 1234.56 USDT")
	assert.Contains(t, got, "Available: 1000 USDT")
}

func TestFormatPositions(t *testing.T) {
	assert.Equal(t, "No open positions.", formatPositions(nil))

	positions := []types.Position{
		{
			Symbol:        "BTCUSDT",
			Amount:        decimal.RequireFromString("0.5"),
			EntryPrice:    decimal.RequireFromString("40000"),
			UnrealizedPnL: decimal.RequireFromString("250"),
			Leverage:      20,
		},
		{
			Symbol:        "ETHUSDT",
			Amount:        decimal.RequireFromString("-2"),
			EntryPrice:    decimal.RequireFromString("3000"),
			UnrealizedPnL: decimal.RequireFromString("-15.5"),
			Leverage:      5,
		},
	}

	got := formatPositions(positions)
	assert.Contains(t, got, "BTCUSDT LONG 0.5 @ 40000, PnL 250, 20x")
	assert.Contains(t, got, "ETHUSDT SHORT 2 @ 3000, PnL -15.5, 5x")
}

func TestFormatOutcome(t *testing.T) {
	intent := types.TradeIntent{
		Symbol:     "BTCUSDT",
		Direction:  types.DirectionLong,
		Leverage:   20,
		Quantity:   decimal.RequireFromString("0.01"),
		StopLoss:   optional.Some(decimal.RequireFromString("42000")),
		TakeProfit: optional.Some(decimal.RequireFromString("45000")),
		Hold:       false,
	}
	outcome := &types.ExecutionOutcome{
		Entry:          types.OrderRef{OrderID: 1, ClientOrderID: "rudder-a", Symbol: "BTCUSDT"},
		StopLoss:       optional.Some(types.OrderRef{OrderID: 2, ClientOrderID: "rudder-b", Symbol: "BTCUSDT"}),
		TakeProfit:     optional.Some(types.OrderRef{OrderID: 3, ClientOrderID: "rudder-c", Symbol: "BTCUSDT"}),
		ConditionalErr: nil,
	}

	got := formatOutcome(intent, outcome)
	assert.Contains(t, got, "Opened LONG BTCUSDT 20x 0.01")
	assert.Contains(t, got, "Entry order 1")
	assert.Contains(t, got, "Stop loss armed at 42000 (order 2)")
	assert.Contains(t, got, "Take profit armed at 45000 (order 3)")
	assert.NotContains(t, got, "Warning")
}

func TestFormatOutcomeHold(t *testing.T) {
	intent := types.TradeIntent{
		Symbol:     "ETHUSDT",
		Direction:  types.DirectionShort,
		Leverage:   5,
		Quantity:   decimal.RequireFromString("1.5"),
		StopLoss:   nil,
		TakeProfit: nil,
		Hold:       true,
	}
	outcome := &types.ExecutionOutcome{
		Entry:          types.OrderRef{OrderID: 7, ClientOrderID: "rudder-d", Symbol: "ETHUSDT"},
		StopLoss:       nil,
		TakeProfit:     nil,
		ConditionalErr: nil,
	}

	got := formatOutcome(intent, outcome)
	assert.Contains(t, got, "Opened SHORT ETHUSDT 5x 1.5")
	assert.Contains(t, got, "Holding without protective orders.")
}

func TestFormatOutcomePartialFailure(t *testing.T) {
	intent := types.TradeIntent{
		Symbol:     "BTCUSDT",
		Direction:  types.DirectionLong,
		Leverage:   10,
		Quantity:   decimal.RequireFromString("0.1"),
		StopLoss:   optional.Some(decimal.RequireFromString("39000")),
		TakeProfit: optional.Some(decimal.RequireFromString("45000")),
		Hold:       false,
	}
	outcome := &types.ExecutionOutcome{
		Entry:          types.OrderRef{OrderID: 1, ClientOrderID: "rudder-a", Symbol: "BTCUSDT"},
		StopLoss:       nil,
		TakeProfit:     optional.Some(types.OrderRef{OrderID: 3, ClientOrderID: "rudder-c", Symbol: "BTCUSDT"}),
		ConditionalErr: errors.New(errors.ErrCodeConditionalOrderFailed, "failed to place stop loss on BTCUSDT"),
	}

	got := formatOutcome(intent, outcome)
	assert.Contains(t, got, "Take profit armed at 45000")
	assert.NotContains(t, got, "Stop loss armed")
	assert.Contains(t, got, "not fully protected")
	assert.Contains(t, got, "failed to place stop loss on BTCUSDT")
}
