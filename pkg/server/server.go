package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bancod/bancod/pkg/engine"
	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/metrics"
	"github.com/bancod/bancod/pkg/protocol"
)

// maxRequestBytes bounds a single request line.
const maxRequestBytes = 64 << 10

// Config holds server configuration
type Config struct {
	Engine *engine.Engine
	// ReadTimeout bounds how long a handler waits for the request
	// line. Zero means no timeout.
	ReadTimeout time.Duration
}

// Server accepts client connections and serves one request per
// connection: read a line, execute, write the response, close. Each
// accepted connection runs in its own goroutine; in-flight handlers
// are drained on Stop.
type Server struct {
	engine      *engine.Engine
	readTimeout time.Duration
	logger      zerolog.Logger

	mu       sync.Mutex
	listener net.Listener

	wg sync.WaitGroup
}

// NewServer creates a server for the given engine.
func NewServer(cfg *Config) *Server {
	return &Server{
		engine:      cfg.Engine,
		readTimeout: cfg.ReadTimeout,
		logger:      log.WithComponent("server"),
	}
}

// Listen binds the listening socket.
func (s *Server) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
	s.logger.Info().Str("addr", l.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until the listener is closed.
func (s *Server) Serve() error {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l == nil {
		return errors.New("server not listening, call Listen first")
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error().Err(err).Msg("accept failed")
			continue
		}
		metrics.ConnectionsTotal.Inc()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Start binds the address and serves until Stop.
func (s *Server) Start(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// Stop closes the listener and waits for in-flight handlers to finish.
func (s *Server) Stop() {
	s.mu.Lock()
	l := s.listener
	s.listener = nil
	s.mu.Unlock()
	if l != nil {
		l.Close()
	}
	s.wg.Wait()
	s.logger.Info().Msg("stopped")
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	if s.readTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	reader := bufio.NewReader(io.LimitReader(conn, maxRequestBytes))
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		s.logger.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("failed to read request")
		return
	}

	req, err := protocol.ParseRequest(line)
	if err != nil {
		metrics.MalformedRequests.Inc()
		s.logger.Warn().Str("remote", conn.RemoteAddr().String()).Msg("malformed request")
		s.write(conn, protocol.FormatMalformed())
		return
	}

	s.write(conn, s.execute(req))
}

// execute runs the request through the engine with panic containment:
// nothing thrown inside an executor may cross the wire as anything but
// a RESULT error frame.
func (s *Server) execute(req protocol.Request) (response string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("query", req.QueryType).Interface("panic", r).Msg("executor panicked")
			metrics.QueriesTotal.WithLabelValues(req.QueryType, "error").Inc()
			response = protocol.FormatError(req.TxID, fmt.Sprintf("Error interno del worker: %v", r))
		}
	}()

	timer := metrics.NewTimer()
	msg, err := s.engine.Execute(req.QueryType, req.Params)
	timer.ObserveDurationVec(metrics.QueryDuration, req.QueryType)

	if err != nil {
		metrics.QueriesTotal.WithLabelValues(req.QueryType, "error").Inc()
		return protocol.FormatError(req.TxID, err.Error())
	}
	metrics.QueriesTotal.WithLabelValues(req.QueryType, "success").Inc()
	return protocol.FormatSuccess(req.TxID, msg)
}

func (s *Server) write(conn net.Conn, response string) {
	if _, err := conn.Write([]byte(response + "\n")); err != nil {
		s.logger.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("failed to write response")
	}
}
