package bot

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rudder-lab/rudder-trading/internal/types"
	"github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
)

const usageText = "Usage: BUY BTCUSDT 20x 0.01 [SL=42000] [TP=45000] [HOLD]"

const helpText = `Send a trade command:
  BUY BTCUSDT 20x 0.01 SL=42000 TP=45000
  SELL ETHUSDT 5x 1.5 HOLD

BUY opens a long, SELL opens a short. Leverage is 1x to 125x and the
quantity is in base asset units. SL and TP arm reduce only protective
orders, HOLD skips them.

Other commands:
  /balance    account balance
  /positions  open positions
  /price <symbol>  last traded price
  /help       this message`

// formatError renders an error for chat. Parse failures get the usage line
// appended since the sender is one typo away from a valid command.
func formatError(err error) string {
	message := err.Error()

	var terr *errors.Error
	if stderrors.As(err, &terr) {
		message = terr.Message
	}

	if errors.IsParseFailure(err) {
		return fmt.Sprintf("%s\n%s", message, usageText)
	}

	return message
}

func formatBalance(balance types.Balance) string {
	return fmt.Sprintf("Balance\nTotal: %s USDT\nAvailable: %s USDT",
		balance.Total.String(), balance.Available.String())
}

func formatPositions(positions []types.Position) string {
	if len(positions) == 0 {
		return "No open positions."
	}

	var sb strings.Builder

	sb.WriteString("Open positions:")

	for _, position := range positions {
		sb.WriteString(fmt.Sprintf("\n%s %s %s @ %s, PnL %s, %dx",
			position.Symbol,
			position.Side(),
			position.Amount.Abs().String(),
			position.EntryPrice.String(),
			position.UnrealizedPnL.String(),
			position.Leverage))
	}

	return sb.String()
}

func formatPrice(symbol string, price decimal.Decimal) string {
	return fmt.Sprintf("%s: %s", symbol, price.String())
}

// formatOutcome summarizes what was placed for a trade command, including a
// warning when a protective order could not be armed.
func formatOutcome(intent types.TradeIntent, outcome *types.ExecutionOutcome) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Opened %s %s %dx %s\nEntry order %d",
		intent.Direction,
		intent.Symbol,
		intent.Leverage,
		intent.Quantity.String(),
		outcome.Entry.OrderID))

	if intent.Hold {
		sb.WriteString("\nHolding without protective orders.")

		return sb.String()
	}

	if outcome.StopLoss.IsSome() {
		sb.WriteString(fmt.Sprintf("\nStop loss armed at %s (order %d)",
			intent.StopLoss.Unwrap().String(), outcome.StopLoss.Unwrap().OrderID))
	}

	if outcome.TakeProfit.IsSome() {
		sb.WriteString(fmt.Sprintf("\nTake profit armed at %s (order %d)",
			intent.TakeProfit.Unwrap().String(), outcome.TakeProfit.Unwrap().OrderID))
	}

	if outcome.PartiallyFailed() {
		sb.WriteString(fmt.Sprintf("\nWarning: position is open but not fully protected:\n%v",
			outcome.ConditionalErr))
	}

	return sb.String()
}
