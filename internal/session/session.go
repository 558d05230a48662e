// Package session implements session dispatch: decoding inbound frames on
// one connection, routing ORDER_NEW/ORDER_CANCEL to the matching engine,
// and writing outbound reports and broadcast market data back without
// letting a slow peer block the rest of the system.
package session

import (
	"bufio"
	"bytes"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/kestrelmarkets/matchengine/internal/common"
	"github.com/kestrelmarkets/matchengine/internal/wire"
)

// outboundBufferSize bounds how many frames may queue for a slow reader
// before Session.TrySend starts reporting failure.
const outboundBufferSize = 256

// Engine is the subset of engine.Engine a session needs.
type Engine interface {
	Submit(symbol string, side common.Side, typ common.OrderType, price float64, qty uint64, owner string) (*common.Order, common.MatchResult, error)
	Cancel(symbol string, orderID uint64) (bool, error)
}

// Session owns one accepted connection. It implements hub.Sender so the
// broadcast hub can address it directly.
type Session struct {
	id     string
	conn   net.Conn
	engine Engine
	out    chan []byte
}

// New wraps conn as a session dispatching against engine.
func New(conn net.Conn, eng Engine) *Session {
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		engine: eng,
		out:    make(chan []byte, outboundBufferSize),
	}
}

// ID uniquely identifies this session in the broadcast hub's table.
func (s *Session) ID() string { return s.id }

// TrySend enqueues frame for delivery without blocking. It returns false
// if the session's outbound buffer is full — a slow or wedged peer must
// never stall the caller.
func (s *Session) TrySend(frame []byte) bool {
	select {
	case s.out <- frame:
		return true
	default:
		return false
	}
}

// WriteLoop drains the outbound buffer onto the connection until t dies
// or a write fails (the connection is assumed dead at that point).
func (s *Session) WriteLoop(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case frame := <-s.out:
			if _, err := s.conn.Write(frame); err != nil {
				log.Error().Err(err).Str("session", s.id).Msg("session write failed")
				return nil
			}
		}
	}
}

// ReadLoop scans newline-framed JSON off the connection and dispatches
// each message until EOF, a read error, or t dies.
func (s *Session) ReadLoop(t *tomb.Tomb) error {
	// Close the connection when t starts dying so a Scan blocked on an idle
	// peer returns instead of holding up shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-t.Dying():
			_ = s.conn.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		s.handleLine(line)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("session read error")
	}
	return nil
}

func (s *Session) handleLine(line []byte) {
	_, req, err := wire.Decode(line)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	switch r := req.(type) {
	case *wire.OrderNewRequest:
		s.handleOrderNew(r)
	case *wire.OrderCancelRequest:
		s.handleOrderCancel(r)
	default:
		// Every other message type is ignored at this layer.
	}
}

func (s *Session) handleOrderNew(r *wire.OrderNewRequest) {
	_, reports, err := s.engine.Submit(r.Ticker, r.Side, r.Type, r.Price, r.Quantity, s.id)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	for _, report := range reports {
		s.sendExecutionReport(report)
	}
}

func (s *Session) handleOrderCancel(r *wire.OrderCancelRequest) {
	ok, err := s.engine.Cancel(r.Ticker, r.OrderID)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	if !ok {
		s.sendError("Order not found")
	}
}

func (s *Session) sendExecutionReport(report common.ExecutionReport) {
	frame, err := wire.Encode(wire.ExecutionReport{
		Type:      "EXECUTION_REPORT",
		OrderID:   report.OrderID,
		MatchID:   report.CounterID,
		Price:     report.Price,
		Quantity:  report.Quantity,
		Status:    report.Status.String(),
		Timestamp: report.Timestamp,
	})
	if err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("failed to encode execution report")
		return
	}
	s.TrySend(frame)
}

func (s *Session) sendError(message string) {
	frame, err := wire.Encode(wire.ErrorMessage{Type: "ERROR", Message: message})
	if err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("failed to encode error message")
		return
	}
	s.TrySend(frame)
}
