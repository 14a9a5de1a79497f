package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	devconsolemodel "github.com/hitesh22rana/devconsole/internal/model/devconsole"
	loggerpkg "github.com/hitesh22rana/devconsole/internal/pkg/logger"
	svcpkg "github.com/hitesh22rana/devconsole/internal/pkg/svc"
	"github.com/hitesh22rana/devconsole/internal/pkg/transport"
	devconsolerepo "github.com/hitesh22rana/devconsole/internal/repository/devconsole"
	devconsolesvc "github.com/hitesh22rana/devconsole/internal/service/devconsole"
	"github.com/hitesh22rana/devconsole/internal/service/export"
)

// Console provides the console state operations.
type Console interface {
	Filters(ctx context.Context) devconsolemodel.Filters
	SetFilter(ctx context.Context, req *devconsolesvc.SetFilterRequest) error
	ResetFilters(ctx context.Context)
	FilteredEvents(ctx context.Context) []devconsolemodel.LogEvent
	FilteredWorkflows(ctx context.Context) []*devconsolemodel.Workflow
	GetWorkflow(ctx context.Context, req *devconsolesvc.GetWorkflowRequest) (*devconsolemodel.Workflow, error)
	ClearAll(ctx context.Context)
	SelectEvent(ctx context.Context, req *devconsolesvc.SelectEventRequest) error
	SelectWorkflow(ctx context.Context, req *devconsolesvc.SelectWorkflowRequest) error
	ClearSelection(ctx context.Context)
	Selection(ctx context.Context) *devconsolesvc.Selection
	Connection(ctx context.Context) devconsolerepo.Connection
	Stats(ctx context.Context) devconsolerepo.Stats
}

// Exporter serializes and delivers the filtered views.
type Exporter interface {
	Write(ctx context.Context, w io.Writer, req *export.Request) error
	WriteFile(ctx context.Context, path string, req *export.Request) (string, error)
	Post(ctx context.Context, url string, req *export.Request) error
}

// Transport is the stream connection owned by the console.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
	State() transport.State
	Attempt() int
	Stats() transport.Stats
}

// Config represents the configuration of the HTTP server.
type Config struct {
	Host              string
	Port              int
	RequestTimeout    time.Duration
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestBodyLimit  int64
	AllowedOrigin     string
}

// Server implements the HTTP server.
type Server struct {
	logger     *zap.Logger
	tp         trace.Tracer
	cfg        *Config
	console    Console
	exporter   Exporter
	transport  Transport
	httpServer *http.Server
}

// New creates a new HTTP server.
func New(ctx context.Context, cfg *Config, console Console, exporter Exporter, transport Transport) *Server {
	srv := &Server{
		logger:    loggerpkg.FromContext(ctx).Named("server"),
		tp:        otel.Tracer(svcpkg.Info().GetName()),
		cfg:       cfg,
		console:   console,
		exporter:  exporter,
		transport: transport,
	}

	router := http.NewServeMux()
	srv.registerRoutes(router)

	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           srv.withOtelMiddleware(srv.withCORSMiddleware(srv.withCompressionMiddleware(router))),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return loggerpkg.WithLogger(context.WithoutCancel(ctx), srv.logger)
		},
	}

	return srv
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerRoutes registers the HTTP routes.
func (s *Server) registerRoutes(router *http.ServeMux) {
	router.HandleFunc("GET /healthz", s.handleHealthz)

	router.HandleFunc("GET /logs", s.withRequestTimeoutMiddleware(s.handleListLogs))
	router.HandleFunc("GET /workflows", s.withRequestTimeoutMiddleware(s.handleListWorkflows))
	router.HandleFunc("GET /workflows/{workflow_id}", s.withRequestTimeoutMiddleware(s.handleGetWorkflow))

	router.HandleFunc("GET /filters", s.withRequestTimeoutMiddleware(s.handleGetFilters))
	router.HandleFunc(
		"PUT /filters/{field}",
		s.withRequestBodyLimitMiddleware(
			s.withRequestTimeoutMiddleware(
				s.handleSetFilter,
			),
		),
	)
	router.HandleFunc("DELETE /filters", s.withRequestTimeoutMiddleware(s.handleResetFilters))

	router.HandleFunc("POST /clear", s.withRequestTimeoutMiddleware(s.handleClearAll))

	router.HandleFunc("GET /selection", s.withRequestTimeoutMiddleware(s.handleGetSelection))
	router.HandleFunc("PUT /selection/event/{event_id}", s.withRequestTimeoutMiddleware(s.handleSelectEvent))
	router.HandleFunc("PUT /selection/workflow/{workflow_id}", s.withRequestTimeoutMiddleware(s.handleSelectWorkflow))
	router.HandleFunc("DELETE /selection", s.withRequestTimeoutMiddleware(s.handleClearSelection))

	router.HandleFunc("GET /connection", s.withRequestTimeoutMiddleware(s.handleGetConnection))
	router.HandleFunc("POST /connect", s.withRequestTimeoutMiddleware(s.handleConnect))
	router.HandleFunc("POST /disconnect", s.handleDisconnect)

	router.HandleFunc("GET /export", s.withRequestTimeoutMiddleware(s.handleExport))
	router.HandleFunc(
		"POST /export",
		s.withRequestBodyLimitMiddleware(
			s.handleDeliverExport,
		),
	)

	router.HandleFunc("GET /stats", s.withRequestTimeoutMiddleware(s.handleStats))
}

// Start serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown failed", zap.Error(err))
		return err
	}

	s.logger.Info("server gracefully stopped")
	return nil
}
