package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmarkets/matchengine/internal/hub"
	"github.com/kestrelmarkets/matchengine/internal/wire"
)

type fakeSender struct {
	id     string
	frames [][]byte
	accept bool
}

func (f *fakeSender) ID() string { return f.id }

func (f *fakeSender) TrySend(frame []byte) bool {
	if !f.accept {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func TestBroadcastFansOutToEverySession(t *testing.T) {
	h := hub.New()
	a := &fakeSender{id: "a", accept: true}
	b := &fakeSender{id: "b", accept: true}
	h.Add(a)
	h.Add(b)

	h.Broadcast(wire.MarketData{Type: "MARKET_DATA", Ticker: "AAPL", Bid: 99, Ask: 101})

	require.Len(t, a.frames, 1)
	require.Len(t, b.frames, 1)
	assert.Equal(t, a.frames[0], b.frames[0])
	assert.Contains(t, string(a.frames[0]), "AAPL")
}

func TestBroadcastSkipsBusySessionWithoutBlockingOthers(t *testing.T) {
	h := hub.New()
	slow := &fakeSender{id: "slow", accept: false}
	fast := &fakeSender{id: "fast", accept: true}
	h.Add(slow)
	h.Add(fast)

	h.Broadcast(wire.MarketData{Type: "MARKET_DATA", Ticker: "MSFT"})

	assert.Empty(t, slow.frames)
	require.Len(t, fast.frames, 1)
}

func TestRemoveDropsSessionFromTable(t *testing.T) {
	h := hub.New()
	a := &fakeSender{id: "a", accept: true}
	h.Add(a)
	assert.Equal(t, 1, h.Len())

	h.Remove("a")
	assert.Equal(t, 0, h.Len())

	h.Broadcast(wire.MarketData{Type: "MARKET_DATA", Ticker: "AAPL"})
	assert.Empty(t, a.frames)
}
