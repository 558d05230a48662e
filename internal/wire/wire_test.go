package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/wire"
)

func TestDecodeOrderNewDualTypeKey(t *testing.T) {
	line := []byte(`{"type":"ORDER_NEW","ticker":"AAPL","side":"BUY","type":"LIMIT","price":150.5,"quantity":10}`)

	msgType, req, err := wire.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "ORDER_NEW", msgType)

	order, ok := req.(*wire.OrderNewRequest)
	require.True(t, ok)
	assert.Equal(t, "AAPL", order.Ticker)
	assert.Equal(t, common.Buy, order.Side)
	assert.Equal(t, common.LimitOrder, order.Type)
	assert.Equal(t, 150.5, order.Price)
	assert.Equal(t, uint64(10), order.Quantity)
}

func TestDecodeOrderNewMarket(t *testing.T) {
	line := []byte(`{"type":"ORDER_NEW","ticker":"TSLA","side":"SELL","type":"MARKET","price":0,"quantity":5}`)

	_, req, err := wire.Decode(line)
	require.NoError(t, err)

	order, ok := req.(*wire.OrderNewRequest)
	require.True(t, ok)
	assert.Equal(t, common.Sell, order.Side)
	assert.Equal(t, common.MarketOrder, order.Type)
}

func TestDecodeOrderCancel(t *testing.T) {
	line := []byte(`{"type":"ORDER_CANCEL","ticker":"AAPL","order_id":42}`)

	msgType, req, err := wire.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "ORDER_CANCEL", msgType)

	cancel, ok := req.(*wire.OrderCancelRequest)
	require.True(t, ok)
	assert.Equal(t, "AAPL", cancel.Ticker)
	assert.Equal(t, uint64(42), cancel.OrderID)
}

func TestDecodeUnknownMessageTypeIsIgnoredNotErrored(t *testing.T) {
	line := []byte(`{"type":"HEARTBEAT"}`)

	msgType, req, err := wire.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "HEARTBEAT", msgType)
	assert.Nil(t, req)
}

func TestDecodeMalformedInput(t *testing.T) {
	_, _, err := wire.Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeInvalidSide(t *testing.T) {
	line := []byte(`{"type":"ORDER_NEW","ticker":"AAPL","side":"SIDEWAYS","type":"LIMIT","price":1,"quantity":1}`)
	_, _, err := wire.Decode(line)
	assert.ErrorIs(t, err, wire.ErrMalformed)
}

func TestEncodeAppendsNewline(t *testing.T) {
	frame, err := wire.Encode(wire.ErrorMessage{Type: "ERROR", Message: "boom"})
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), frame[len(frame)-1])
	assert.Contains(t, string(frame), `"message":"boom"`)
}
