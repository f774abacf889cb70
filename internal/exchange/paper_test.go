package exchange

import (
	"context"
	"testing"

	"github.com/rudder-lab/rudder-trading/internal/types"
	rerrors "github.com/rudder-lab/rudder-trading/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaperGatewayTestSuite struct {
	suite.Suite

	gateway *PaperGateway
}

func TestPaperGatewaySuite(t *testing.T) {
	suite.Run(t, new(PaperGatewayTestSuite))
}

func (suite *PaperGatewayTestSuite) SetupTest() {
	suite.gateway = NewPaperGateway(PaperConfig{
		StartingBalance: 10000,
		Prices: map[string]float64{
			"BTCUSDT": 40000,
			"ETHUSDT": 3000,
		},
	})
}

func (suite *PaperGatewayTestSuite) TestSetLeverage() {
	suite.NoError(suite.gateway.SetLeverage(context.Background(), "BTCUSDT", 20))

	err := suite.gateway.SetLeverage(context.Background(), "BTCUSDT", 126)
	suite.Error(err)
	suite.True(rerrors.HasCode(err, rerrors.ErrCodeGateway))

	err = suite.gateway.SetLeverage(context.Background(), "BTCUSDT", 0)
	suite.Error(err)
}

func (suite *PaperGatewayTestSuite) TestMarketOrderOpensPosition() {
	suite.NoError(suite.gateway.SetLeverage(context.Background(), "BTCUSDT", 10))

	ref, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromFloat(0.5))
	suite.NoError(err)
	suite.NotZero(ref.OrderID)
	suite.Equal("BTCUSDT", ref.Symbol)
	suite.NotEmpty(ref.ClientOrderID)

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 1)
	suite.Equal("BTCUSDT", positions[0].Symbol)
	suite.Equal("0.5", positions[0].Amount.String())
	suite.Equal("40000", positions[0].EntryPrice.String())
	suite.Equal(10, positions[0].Leverage)
}

func (suite *PaperGatewayTestSuite) TestMarketOrderUnknownSymbol() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "DOGEUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.Error(err)
	suite.True(rerrors.HasCode(err, rerrors.ErrCodeGateway))
}

func (suite *PaperGatewayTestSuite) TestShortPositionAndUnrealizedPnL() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "ETHUSDT", types.OrderSideSell, decimal.NewFromInt(2))
	suite.NoError(err)

	suite.gateway.SetPrice("ETHUSDT", decimal.NewFromInt(2900))

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 1)
	suite.Equal("-2", positions[0].Amount.String())
	suite.Equal(types.DirectionShort, positions[0].Side())
	// Short 2 @ 3000, price 2900: +200 unrealized
	suite.Equal("200", positions[0].UnrealizedPnL.String())
}

func (suite *PaperGatewayTestSuite) TestReducingFillSettlesRealizedPnL() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	suite.gateway.SetPrice("BTCUSDT", decimal.NewFromInt(41000))

	_, err = suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideSell, decimal.NewFromInt(1))
	suite.NoError(err)

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Empty(positions)

	balance, err := suite.gateway.AccountBalance(context.Background())
	suite.NoError(err)
	// 10000 starting + 1000 realized
	suite.Equal("11000", balance.Total.String())
	suite.Equal("11000", balance.Available.String())
}

func (suite *PaperGatewayTestSuite) TestAvailableBalanceSubtractsMargin() {
	suite.NoError(suite.gateway.SetLeverage(context.Background(), "BTCUSDT", 10))

	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	balance, err := suite.gateway.AccountBalance(context.Background())
	suite.NoError(err)
	suite.Equal("10000", balance.Total.String())
	// 40000 notional at 10x locks 4000 margin
	suite.Equal("6000", balance.Available.String())
}

func (suite *PaperGatewayTestSuite) TestConditionalOrderRecordedNotTriggered() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	ref, err := suite.gateway.PlaceConditionalOrder(context.Background(), "BTCUSDT", types.OrderSideSell,
		decimal.NewFromInt(1), decimal.NewFromInt(39000), types.ConditionalStopLoss)
	suite.NoError(err)
	suite.NotZero(ref.OrderID)

	// Crossing the trigger does not close the position; paper mode never
	// simulates conditional fills.
	suite.gateway.SetPrice("BTCUSDT", decimal.NewFromInt(38000))

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 1)
	suite.Equal("1", positions[0].Amount.String())
}

func (suite *PaperGatewayTestSuite) TestConditionalOrderRejectsBadInput() {
	_, err := suite.gateway.PlaceConditionalOrder(context.Background(), "BTCUSDT", types.OrderSideSell,
		decimal.NewFromInt(1), decimal.Zero, types.ConditionalStopLoss)
	suite.Error(err)

	_, err = suite.gateway.PlaceConditionalOrder(context.Background(), "BTCUSDT", types.OrderSideSell,
		decimal.NewFromInt(1), decimal.NewFromInt(39000), types.ConditionalKind("TRAILING"))
	suite.Error(err)
	suite.True(rerrors.HasCode(err, rerrors.ErrCodeInvalidParameter))
}

func (suite *PaperGatewayTestSuite) TestPositionsPreserveOpenOrder() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "ETHUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	_, err = suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 2)
	suite.Equal("ETHUSDT", positions[0].Symbol)
	suite.Equal("BTCUSDT", positions[1].Symbol)
}

func (suite *PaperGatewayTestSuite) TestIncreasingFillAveragesEntry() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	suite.gateway.SetPrice("BTCUSDT", decimal.NewFromInt(42000))

	_, err = suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 1)
	suite.Equal("2", positions[0].Amount.String())
	suite.Equal("41000", positions[0].EntryPrice.String())
}

func (suite *PaperGatewayTestSuite) TestFlipThroughZero() {
	_, err := suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideBuy, decimal.NewFromInt(1))
	suite.NoError(err)

	suite.gateway.SetPrice("BTCUSDT", decimal.NewFromInt(41000))

	// Sell 3 against a long 1: close the long, open a short 2.
	_, err = suite.gateway.PlaceMarketOrder(context.Background(), "BTCUSDT", types.OrderSideSell, decimal.NewFromInt(3))
	suite.NoError(err)

	positions, err := suite.gateway.OpenPositions(context.Background())
	suite.NoError(err)
	suite.Len(positions, 1)
	suite.Equal("-2", positions[0].Amount.String())
	suite.Equal("41000", positions[0].EntryPrice.String())

	balance, err := suite.gateway.AccountBalance(context.Background())
	suite.NoError(err)
	suite.Equal("11000", balance.Total.String())
}

func (suite *PaperGatewayTestSuite) TestDefaultStartingBalance() {
	gateway := NewPaperGateway(PaperConfig{})

	balance, err := gateway.AccountBalance(context.Background())
	suite.NoError(err)
	suite.Equal("10000", balance.Total.String())
}

func (suite *PaperGatewayTestSuite) TestLastPrice() {
	price, err := suite.gateway.LastPrice(context.Background(), "BTCUSDT")
	suite.NoError(err)
	suite.Equal("40000", price.String())

	_, err = suite.gateway.LastPrice(context.Background(), "DOGEUSDT")
	suite.Error(err)
}
