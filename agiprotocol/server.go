package agiprotocol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"
)

// Handler serves one FastAGI session.
//
// The connection is closed when ServeAGI returns. The context is canceled
// when the server shuts down, which also closes the connection so that a
// blocked command fails.
type Handler interface {
	ServeAGI(ctx context.Context, s *Session) error
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(ctx context.Context, s *Session) error

// ServeAGI calls f(ctx, s).
func (f HandlerFunc) ServeAGI(ctx context.Context, s *Session) error {
	return f(ctx, s)
}

// Server accepts FastAGI connections and runs Handler for each session.
type Server struct {
	// Addr is the listen address, ":4573" if empty.
	Addr string

	// Network is the listen network, "tcp" if empty.
	Network string

	Handler Handler

	// Config is used for every session. Its Logger also receives the
	// server's own records.
	Config Config

	wg sync.WaitGroup
}

// ListenAndServe listens on Addr and serves connections until ctx is
// canceled.
func (srv *Server) ListenAndServe(ctx context.Context) error {
	network, addr := srv.Network, srv.Addr
	if network == "" {
		network = "tcp"
	}
	if addr == "" {
		addr = DefaultListenAddr("")
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, addr)
	if err != nil {
		return NewConnectionError("failed to listen", err)
	}
	return srv.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled or ln fails. It
// closes ln, waits for the running sessions to end and returns nil after a
// cancellation.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	if srv.Handler == nil {
		return errors.New("agiprotocol: server has no handler")
	}
	cfg := srv.Config.withDefaults()
	log := cfg.Logger

	defer srv.wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	log.Info("fastagi server listening", "addr", ln.Addr().String())

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("fastagi server stopped", "addr", ln.Addr().String())
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				delay = min(max(2*delay, 5*time.Millisecond), time.Second)
				log.Warn("accept failed, retrying", "error", err, "delay", delay)
				time.Sleep(delay)
				continue
			}
			ln.Close()
			return fmt.Errorf("accept: %w", err)
		}
		delay = 0

		srv.wg.Add(1)
		go srv.serveConn(ctx, conn, cfg)
	}
}

func (srv *Server) serveConn(ctx context.Context, conn net.Conn, cfg Config) {
	defer srv.wg.Done()
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	cfg.Logger = cfg.Logger.With("remote", conn.RemoteAddr().String())
	s, err := Open(conn, cfg)
	if err != nil {
		cfg.Logger.Warn("fastagi session rejected", "error", err)
		return
	}

	log := s.Logger()
	log.Info("fastagi session", "request", s.Env().Request, "script", s.Env().Script())

	defer func() {
		if r := recover(); r != nil {
			log.Error("fastagi handler panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if err := srv.Handler.ServeAGI(ctx, s); err != nil && !IsClosed(err) {
		log.Warn("fastagi handler failed", "error", err)
		return
	}
	log.Debug("fastagi session done")
}
