package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/engine"
)

func TestUnknownSymbol(t *testing.T) {
	eng := engine.New("AAPL")

	_, _, err := eng.Submit("ZZZZ", common.Buy, common.LimitOrder, 100, 10, "x")
	assert.ErrorIs(t, err, engine.ErrUnknownSymbol)

	_, err = eng.Cancel("ZZZZ", 1)
	assert.ErrorIs(t, err, engine.ErrUnknownSymbol)
}

func TestSubmitAndCancelRoundTrip(t *testing.T) {
	eng := engine.New("AAPL")

	order, reports, err := eng.Submit("AAPL", common.Buy, common.LimitOrder, 100, 10, "alice")
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Equal(t, common.StatusNew, order.Status)

	ok, err := eng.Cancel("AAPL", order.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = eng.Cancel("AAPL", order.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCrossingAcrossSymbolsIsIndependent(t *testing.T) {
	eng := engine.New("AAPL", "MSFT")

	eng.Submit("AAPL", common.Sell, common.LimitOrder, 100, 10, "m")
	_, reports, err := eng.Submit("MSFT", common.Buy, common.LimitOrder, 100, 10, "taker")
	require.NoError(t, err)
	assert.Empty(t, reports, "AAPL liquidity must not satisfy an MSFT order")

	assert.Equal(t, 100.0, eng.Book("AAPL").BestAsk())
	assert.Equal(t, 100.0, eng.Book("MSFT").BestBid())
}
