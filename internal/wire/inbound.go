// Package wire implements the newline-terminated JSON line protocol:
// decoding inbound ORDER_NEW/ORDER_CANCEL requests and encoding outbound
// MARKET_DATA/EXECUTION_REPORT/ERROR frames.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kestrelmarkets/matchengine/internal/common"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformed          = errors.New("malformed message")
)

// OrderNewRequest is the decoded form of an ORDER_NEW frame.
type OrderNewRequest struct {
	Ticker   string
	Side     common.Side
	Type     common.OrderType
	Price    float64
	Quantity uint64
}

// OrderCancelRequest is the decoded form of an ORDER_CANCEL frame.
type OrderCancelRequest struct {
	Ticker  string
	OrderID uint64
}

// Decode parses one line of the inbound protocol. It returns either an
// *OrderNewRequest or an *OrderCancelRequest; any other message type is
// ignored at this layer and returns (msgType, nil, nil).
func Decode(line []byte) (msgType string, req any, err error) {
	msgType, orderTypeStr, fields, err := splitDualType(line)
	if err != nil {
		return "", nil, err
	}

	switch msgType {
	case "ORDER_NEW":
		r, err := decodeOrderNew(orderTypeStr, fields)
		return msgType, r, err
	case "ORDER_CANCEL":
		r, err := decodeOrderCancel(fields)
		return msgType, r, err
	default:
		return msgType, nil, nil
	}
}

func decodeOrderNew(orderTypeStr string, fields map[string]json.RawMessage) (*OrderNewRequest, error) {
	var ticker, sideStr string
	var price float64
	var qty uint64

	if raw, ok := fields["ticker"]; ok {
		if err := json.Unmarshal(raw, &ticker); err != nil {
			return nil, fmt.Errorf("%w: ticker: %v", ErrMalformed, err)
		}
	}
	if raw, ok := fields["side"]; ok {
		if err := json.Unmarshal(raw, &sideStr); err != nil {
			return nil, fmt.Errorf("%w: side: %v", ErrMalformed, err)
		}
	}
	if raw, ok := fields["price"]; ok {
		if err := json.Unmarshal(raw, &price); err != nil {
			return nil, fmt.Errorf("%w: price: %v", ErrMalformed, err)
		}
	}
	if raw, ok := fields["quantity"]; ok {
		if err := json.Unmarshal(raw, &qty); err != nil {
			return nil, fmt.Errorf("%w: quantity: %v", ErrMalformed, err)
		}
	}

	if len(ticker) == 0 || len(ticker) > common.MaxSymbolLen {
		return nil, fmt.Errorf("%w: ticker length", ErrMalformed)
	}

	side, err := parseSide(sideStr)
	if err != nil {
		return nil, err
	}
	orderType, err := parseOrderType(orderTypeStr)
	if err != nil {
		return nil, err
	}

	return &OrderNewRequest{
		Ticker:   ticker,
		Side:     side,
		Type:     orderType,
		Price:    price,
		Quantity: qty,
	}, nil
}

func decodeOrderCancel(fields map[string]json.RawMessage) (*OrderCancelRequest, error) {
	var ticker string
	var orderID uint64

	if raw, ok := fields["ticker"]; ok {
		if err := json.Unmarshal(raw, &ticker); err != nil {
			return nil, fmt.Errorf("%w: ticker: %v", ErrMalformed, err)
		}
	}
	if raw, ok := fields["order_id"]; ok {
		if err := json.Unmarshal(raw, &orderID); err != nil {
			return nil, fmt.Errorf("%w: order_id: %v", ErrMalformed, err)
		}
	}

	return &OrderCancelRequest{Ticker: ticker, OrderID: orderID}, nil
}

func parseSide(s string) (common.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return common.Buy, nil
	case "SELL":
		return common.Sell, nil
	default:
		return 0, fmt.Errorf("%w: side %q", ErrMalformed, s)
	}
}

func parseOrderType(s string) (common.OrderType, error) {
	switch strings.ToUpper(s) {
	case "LIMIT":
		return common.LimitOrder, nil
	case "MARKET":
		return common.MarketOrder, nil
	default:
		return 0, fmt.Errorf("%w: order type %q", ErrMalformed, s)
	}
}

// splitDualType walks the JSON object's tokens in document order rather
// than unmarshaling into a map or struct directly. Both approaches lose
// information here: a struct with two fields tagged "type" leaves both
// unset as ambiguous, and a plain map[string]any silently overwrites the
// first "type" value with the second. Spec.md §6/§9 requires keeping
// both — the first "type" key is the envelope's message type
// (ORDER_NEW/ORDER_CANCEL), the second, present only on ORDER_NEW, is the
// order type (LIMIT/MARKET) — matching the source's
// cJSON_GetObjectItem("type") resolving to whichever "type" member exists
// in the parsed document, which for a duplicate-keyed object is the last
// one parsed.
func splitDualType(line []byte) (msgType, orderType string, fields map[string]json.RawMessage, err error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	tok, err := dec.Token()
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", "", nil, fmt.Errorf("%w: expected object", ErrMalformed)
	}

	fields = make(map[string]json.RawMessage)
	typeSeen := 0

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return "", "", nil, fmt.Errorf("%w: non-string key", ErrMalformed)
		}

		if key == "type" {
			var v string
			if err := dec.Decode(&v); err != nil {
				return "", "", nil, fmt.Errorf("%w: type: %v", ErrMalformed, err)
			}
			typeSeen++
			if typeSeen == 1 {
				msgType = v
			} else {
				orderType = v
			}
			continue
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", "", nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
		}
		fields[key] = raw
	}

	if typeSeen == 0 {
		return "", "", nil, fmt.Errorf("%w: missing type", ErrUnknownMessageType)
	}
	return msgType, orderType, fields, nil
}
