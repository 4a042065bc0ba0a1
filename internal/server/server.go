package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/state"
)

// Config holds the server configuration
type Config struct {
	// Addr is the listen address, host:port
	Addr    string
	Address string // Device address shown in the status
}

// Server serves status, metrics and the event stream for one session.
type Server struct {
	config     *Config
	hub        *hub
	handler    http.Handler
	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup

	mu     sync.RWMutex
	status Status
}

// New creates a server. registry may be nil.
func New(config *Config, registry *prometheus.Registry) *Server {
	s := &Server{
		config: config,
		hub:    newHub(),
		status: Status{Address: config.Address, Updated: time.Now()},
	}
	s.handler = s.routes(registry)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logging.Info("Status server listening", zap.String("addr", listener.Addr().String()))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Status server failed", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound listen address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	logging.Info("Shutting down status server...")

	// Hijacked WebSocket connections are not tracked by http.Server.
	s.hub.close()

	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
		_ = s.httpServer.Close()
	}
	return err
}

// Status returns a copy of the current snapshot.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	return s.hub.count()
}

// update applies fn to the snapshot and pushes the result.
func (s *Server) update(eventType string, fn func(*Status)) {
	s.mu.Lock()
	fn(&s.status)
	s.status.Updated = time.Now()
	snapshot := s.status
	s.mu.Unlock()

	s.hub.broadcast(Event{Type: eventType, Status: snapshot})
}

func (s *Server) Connected(address string) {
	s.update(EventConnected, func(st *Status) {
		st.Address = address
		st.Connected = true
	})
}

func (s *Server) ConnectFailed(string, error) {}

func (s *Server) Disconnected(string, error) {
	s.update(EventDisconnected, func(st *Status) {
		st.Connected = false
		st.Kind = ""
	})
}

func (s *Server) Identified(_ string, kind string) {
	s.update(EventIdentified, func(st *Status) {
		st.Kind = kind
	})
}

func (s *Server) Sent(*command.Request) {}

func (s *Server) Rejected(string, error) {}

func (s *Server) Segment(state.SegmentResult) {}

func (s *Server) Reported(_, kind string, report *state.Report) {
	s.update(EventReport, func(st *Status) {
		st.Kind = kind
		st.applyReport(report)
	})
}
