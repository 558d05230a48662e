package wire

import "encoding/json"

// MarketData is the outbound MARKET_DATA frame. Open/high/low and volume
// are carried but never populated by this server — they exist for
// client-side compatibility with a fuller feed.
type MarketData struct {
	Type      string  `json:"type"`
	Ticker    string  `json:"ticker"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Last      float64 `json:"last"`
	BidSize   uint64  `json:"bid_size"`
	AskSize   uint64  `json:"ask_size"`
	LastSize  uint64  `json:"last_size"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Volume    uint64  `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// ExecutionReport is the outbound EXECUTION_REPORT frame.
type ExecutionReport struct {
	Type      string  `json:"type"`
	OrderID   uint64  `json:"order_id"`
	MatchID   uint64  `json:"match_id"`
	Price     float64 `json:"price"`
	Quantity  uint64  `json:"quantity"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
}

// ErrorMessage is the outbound ERROR frame.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Encode marshals v and appends the newline that terminates every frame
// on the wire.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
