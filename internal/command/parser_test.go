package command

import (
	"testing"

	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMandatoryTokenCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "   \t  "},
		{name: "one token", input: "BUY"},
		{name: "two tokens", input: "BUY BTCUSDT"},
		{name: "three tokens", input: "BUY BTCUSDT 20x"},
		{name: "three garbage tokens", input: "foo bar baz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInsufficientParameters))
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantDirection types.Direction
		wantCode      errors.ErrorCode
	}{
		{name: "BUY maps to long", input: "BUY BTCUSDT 20x 0.01", wantDirection: types.DirectionLong},
		{name: "SELL maps to short", input: "SELL BTCUSDT 20x 0.01", wantDirection: types.DirectionShort},
		{name: "lowercase buy", input: "buy BTCUSDT 20x 0.01", wantDirection: types.DirectionLong},
		{name: "mixed case sell", input: "SeLl BTCUSDT 20x 0.01", wantDirection: types.DirectionShort},
		{name: "LONG is not a direction", input: "LONG BTCUSDT 20x 0.01", wantCode: errors.ErrCodeInvalidDirection},
		{name: "misspelled direction", input: "BUYY BTCUSDT 20x 0.01", wantCode: errors.ErrCodeInvalidDirection},
		{name: "direction checked before leverage", input: "HODL BTCUSDT 0x nope", wantCode: errors.ErrCodeInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := Parse(tt.input)
			if tt.wantCode != 0 {
				assert.True(t, errors.HasCode(err, tt.wantCode))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDirection, intent.Direction)
		})
	}
}

func TestParseSymbolUppercased(t *testing.T) {
	intent, err := Parse("buy btcusdt 20x 0.01")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", intent.Symbol)
}

func TestParseLeverage(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLeverage int
		wantCode     errors.ErrorCode
	}{
		{name: "lower bound", input: "BUY BTCUSDT 1x 0.01", wantLeverage: 1},
		{name: "upper bound", input: "BUY BTCUSDT 125x 0.01", wantLeverage: 125},
		{name: "uppercase X", input: "BUY BTCUSDT 20X 0.01", wantLeverage: 20},
		{name: "zero rejected", input: "BUY BTCUSDT 0x 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "above maximum rejected", input: "BUY BTCUSDT 126x 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "negative rejected", input: "BUY BTCUSDT -5x 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "missing x suffix", input: "BUY BTCUSDT 20 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "bare x", input: "BUY BTCUSDT x 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "non numeric", input: "BUY BTCUSDT abcx 0.01", wantCode: errors.ErrCodeInvalidLeverage},
		{name: "fractional leverage", input: "BUY BTCUSDT 2.5x 0.01", wantCode: errors.ErrCodeInvalidLeverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := Parse(tt.input)
			if tt.wantCode != 0 {
				assert.True(t, errors.HasCode(err, tt.wantCode))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLeverage, intent.Leverage)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantQuantity string
		wantCode     errors.ErrorCode
	}{
		{name: "fractional quantity", input: "BUY BTCUSDT 20x 0.01", wantQuantity: "0.01"},
		{name: "integer quantity", input: "BUY BTCUSDT 20x 3", wantQuantity: "3"},
		{name: "zero rejected", input: "BUY BTCUSDT 20x 0", wantCode: errors.ErrCodeInvalidQuantity},
		{name: "negative rejected", input: "BUY BTCUSDT 20x -1", wantCode: errors.ErrCodeInvalidQuantity},
		{name: "non numeric rejected", input: "BUY BTCUSDT 20x lots", wantCode: errors.ErrCodeInvalidQuantity},
		{name: "lone dot rejected", input: "BUY BTCUSDT 20x .", wantCode: errors.ErrCodeInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := Parse(tt.input)
			if tt.wantCode != 0 {
				assert.True(t, errors.HasCode(err, tt.wantCode))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantQuantity, intent.Quantity.String())
		})
	}
}

func TestParseOptions(t *testing.T) {
	t.Run("stop loss and take profit", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 20x 0.01 SL=42000 TP=45000")
		require.NoError(t, err)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "42000", intent.StopLoss.Unwrap().String())
		require.True(t, intent.TakeProfit.IsSome())
		assert.Equal(t, "45000", intent.TakeProfit.Unwrap().String())
		assert.False(t, intent.Hold)
	})

	t.Run("absent by default", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 20x 0.01")
		require.NoError(t, err)
		assert.True(t, intent.StopLoss.IsNone())
		assert.True(t, intent.TakeProfit.IsNone())
		assert.False(t, intent.Hold)
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 5x 1 SL=100 SL=200")
		require.NoError(t, err)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "200", intent.StopLoss.Unwrap().String())
	})

	t.Run("malformed value keeps earlier one", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 5x 1 SL=100 SL=abc")
		require.NoError(t, err)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "100", intent.StopLoss.Unwrap().String())
	})

	t.Run("malformed value alone is ignored", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 5x 1 SL=oops TP=")
		require.NoError(t, err)
		assert.True(t, intent.StopLoss.IsNone())
		assert.True(t, intent.TakeProfit.IsNone())
	})

	t.Run("non positive prices are ignored", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 5x 1 SL=-5 TP=0")
		require.NoError(t, err)
		assert.True(t, intent.StopLoss.IsNone())
		assert.True(t, intent.TakeProfit.IsNone())
	})

	t.Run("unknown tokens are ignored", func(t *testing.T) {
		intent, err := Parse("BUY BTCUSDT 5x 1 TRAILING=2 yolo SL=100")
		require.NoError(t, err)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "100", intent.StopLoss.Unwrap().String())
	})

	t.Run("lowercase keys accepted", func(t *testing.T) {
		intent, err := Parse("buy btcusdt 5x 1 sl=100 tp=200 hold")
		require.NoError(t, err)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "100", intent.StopLoss.Unwrap().String())
		require.True(t, intent.TakeProfit.IsSome())
		assert.Equal(t, "200", intent.TakeProfit.Unwrap().String())
		assert.True(t, intent.Hold)
	})

	t.Run("hold keeps supplied prices", func(t *testing.T) {
		intent, err := Parse("SELL ETHUSDT 10x 0.1 SL=100 TP=200 HOLD")
		require.NoError(t, err)
		assert.True(t, intent.Hold)
		require.True(t, intent.StopLoss.IsSome())
		assert.Equal(t, "100", intent.StopLoss.Unwrap().String())
		require.True(t, intent.TakeProfit.IsSome())
		assert.Equal(t, "200", intent.TakeProfit.Unwrap().String())
	})
}

func TestParseFullCommand(t *testing.T) {
	intent, err := Parse("BUY BTCUSDT 20x 0.01 SL=42000 TP=45000")
	require.NoError(t, err)

	assert.Equal(t, types.DirectionLong, intent.Direction)
	assert.Equal(t, "BTCUSDT", intent.Symbol)
	assert.Equal(t, 20, intent.Leverage)
	assert.Equal(t, "0.01", intent.Quantity.String())
	assert.Equal(t, "42000", intent.StopLoss.Unwrap().String())
	assert.Equal(t, "45000", intent.TakeProfit.Unwrap().String())
	assert.False(t, intent.Hold)
	assert.NoError(t, intent.Validate())

	assert.Equal(t, types.OrderSideBuy, intent.EntrySide())
	assert.Equal(t, types.OrderSideSell, intent.ClosingSide())
}

func TestParseIsPure(t *testing.T) {
	// Parsing the same input twice yields identical intents.
	first, err := Parse("SELL ETHUSDT 10x 0.1 HOLD")
	require.NoError(t, err)

	second, err := Parse("SELL ETHUSDT 10x 0.1 HOLD")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
