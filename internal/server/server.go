// Package server implements the TCP acceptor: a non-blocking listener
// that hands each accepted connection to its own session, supervised by
// the same tomb the simulation driver runs under.
package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/kestrelmarkets/matchengine/internal/hub"
	"github.com/kestrelmarkets/matchengine/internal/session"
)

// MaxSessions bounds concurrently connected clients. A connection accepted
// beyond this limit is closed immediately; existing sessions are
// unaffected.
const MaxSessions = 1024

var ErrBindFailed = errors.New("unable to bind listener")

// Server accepts TCP connections on address:port and dispatches each to a
// new session.Session.
type Server struct {
	address string
	port    int
	engine  session.Engine
	hub     *hub.Hub
}

// New constructs a server. engine and h are shared across every session it
// accepts.
func New(address string, port int, engine session.Engine, h *hub.Hub) *Server {
	return &Server{address: address, port: port, engine: engine, hub: h}
}

// Run listens and accepts connections until t is dying. It is meant to be
// started with t.Go.
func (s *Server) Run(t *tomb.Tomb) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return fmt.Errorf("%w: %v", ErrBindFailed, err)
	}

	t.Go(func() error {
		<-t.Dying()
		return ln.Close()
	})

	log.Info().Str("address", ln.Addr().String()).Msg("server listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-t.Dying():
				return nil
			default:
				log.Error().Err(err).Msg("error accepting connection")
				continue
			}
		}

		if s.hub.Len() >= MaxSessions {
			log.Warn().Str("address", conn.RemoteAddr().String()).Msg("rejecting connection: too many clients")
			_ = conn.Close()
			continue
		}

		s.acceptSession(t, conn)
	}
}

func (s *Server) acceptSession(t *tomb.Tomb, conn net.Conn) {
	sess := session.New(conn, s.engine)
	s.hub.Add(sess)

	log.Info().Str("address", conn.RemoteAddr().String()).Str("session", sess.ID()).Msg("client connected")

	t.Go(func() error {
		defer func() {
			s.hub.Remove(sess.ID())
			_ = conn.Close()
		}()
		return sess.ReadLoop(t)
	})
	t.Go(func() error {
		return sess.WriteLoop(t)
	})
}
