// Package command turns raw operator text into validated trade intents.
package command

import (
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

// minTokens is the number of mandatory tokens: direction, symbol, leverage
// and quantity.
const minTokens = 4

const (
	stopLossKey   = "SL="
	takeProfitKey = "TP="
	holdKeyword   = "HOLD"
)

// Parse interprets one command line of the form
//
//	<direction> <symbol> <leverage>x <quantity> [SL=<price>] [TP=<price>] [HOLD]
//
// Keywords are case insensitive and tokens are split on any whitespace.
// Trailing options may appear in any order and the last occurrence of a key
// wins. Malformed option values and unknown trailing tokens are tolerated so
// newer clients can add options without breaking older deployments; changing
// that leniency would change which commands are accepted.
//
// Parse is pure: it never talks to the exchange, logs or replies. Failures
// carry one of the parse error codes so the caller can report the reason.
func Parse(raw string) (types.TradeIntent, error) {
	tokens := strings.Fields(raw)
	if len(tokens) < minTokens {
		return types.TradeIntent{}, errors.Newf(errors.ErrCodeInsufficientParameters,
			"expected at least %d parameters, got %d", minTokens, len(tokens))
	}

	direction, err := parseDirection(tokens[0])
	if err != nil {
		return types.TradeIntent{}, err
	}

	leverage, err := parseLeverage(tokens[2])
	if err != nil {
		return types.TradeIntent{}, err
	}

	quantity, err := parseQuantity(tokens[3])
	if err != nil {
		return types.TradeIntent{}, err
	}

	stopLoss := optional.None[decimal.Decimal]()
	takeProfit := optional.None[decimal.Decimal]()
	hold := false

	for _, token := range tokens[minTokens:] {
		upper := strings.ToUpper(token)

		switch {
		case upper == holdKeyword:
			hold = true
		case strings.HasPrefix(upper, stopLossKey):
			if price, ok := parsePrice(token[len(stopLossKey):]); ok {
				stopLoss = optional.Some(price)
			}
		case strings.HasPrefix(upper, takeProfitKey):
			if price, ok := parsePrice(token[len(takeProfitKey):]); ok {
				takeProfit = optional.Some(price)
			}
		}
	}

	return types.TradeIntent{
		Symbol:     strings.ToUpper(tokens[1]),
		Direction:  direction,
		Leverage:   leverage,
		Quantity:   quantity,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Hold:       hold,
	}, nil
}

// parseDirection maps BUY to a long position and SELL to a short one.
func parseDirection(token string) (types.Direction, error) {
	switch strings.ToUpper(token) {
	case "BUY":
		return types.DirectionLong, nil
	case "SELL":
		return types.DirectionShort, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidDirection,
			"direction must be BUY or SELL, got %q", token)
	}
}

// parseLeverage accepts an integer with a trailing x, e.g. 20x.
func parseLeverage(token string) (int, error) {
	if !strings.HasSuffix(strings.ToLower(token), "x") {
		return 0, errors.Newf(errors.ErrCodeInvalidLeverage,
			"leverage must be an integer followed by x, got %q", token)
	}

	value, err := strconv.Atoi(token[:len(token)-1])
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidLeverage, err,
			"leverage must be an integer followed by x, got %q", token)
	}

	if value < types.MinLeverage || value > types.MaxLeverage {
		return 0, errors.Newf(errors.ErrCodeInvalidLeverage,
			"leverage %d outside [%d, %d]", value, types.MinLeverage, types.MaxLeverage)
	}

	return value, nil
}

func parseQuantity(token string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(errors.ErrCodeInvalidQuantity, err,
			"quantity must be a positive number, got %q", token)
	}

	if !value.IsPositive() {
		return decimal.Decimal{}, errors.Newf(errors.ErrCodeInvalidQuantity,
			"quantity must be positive, got %s", value)
	}

	return value, nil
}

// parsePrice reads an option value. Non positive prices are treated the same
// as unparsable ones: the option is dropped.
func parsePrice(value string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(value)
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, false
	}

	return price, true
}
