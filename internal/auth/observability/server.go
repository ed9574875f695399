package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"authgate/pkg/logger"
)

const (
	LogServerStarted = "observability server started"
	LogServerStopped = "observability server stopped"
	LogNotReady      = "readiness check failed"
	ErrServerStart   = "failed to start observability server"
	ErrServerServe   = "observability server error"
	ErrServerStop    = "failed to stop observability server"

	readinessTimeout = 2 * time.Second
)

// ErrAlreadyRunning - повторный Start.
var ErrAlreadyRunning = errors.New("observability server already running")

// ReadinessChecker возвращает ошибку, если зависимость недоступна.
type ReadinessChecker func(ctx context.Context) error

// Server отдает /metrics, /healthz/liveness и /healthz/readiness.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	checks     []ReadinessChecker
	running    atomic.Bool
}

// NewServer создает сервер с собственным реестром метрик.
func NewServer(addr string, checks ...ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(registry),
		checks:   checks,
	}
}

// Metrics возвращает метрики для записи событий.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Registry возвращает реестр для дополнительных коллекторов.
func (s *Server) Registry() prometheus.Registerer {
	return s.registry
}

// Start начинает обслуживание в отдельной горутине.
func (s *Server) Start(ctx context.Context) error {
	log := logger.Log(ctx)

	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		log.Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, ErrServerServe, zap.Error(err))
		}
	}()

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
	return nil
}

// Stop останавливает сервер. Повторный вызов ничего не делает.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return fmt.Errorf("%s: %w", ErrServerStop, err)
	}

	logger.Log(ctx).Info(ctx, LogServerStopped)
	return nil
}

// Addr возвращает фактический адрес или пустую строку до Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	for _, check := range s.checks {
		if err := check(ctx); err != nil {
			logger.Log(ctx).Warn(ctx, LogNotReady, zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready\n"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
