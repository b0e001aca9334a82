package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/relay/internal/api/http"
	"github.com/GriffinCanCode/relay/internal/api/middleware"
	"github.com/GriffinCanCode/relay/internal/domain/relay"
	"github.com/GriffinCanCode/relay/internal/infrastructure/config"
	"github.com/GriffinCanCode/relay/internal/infrastructure/logging"
	"github.com/GriffinCanCode/relay/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/relay/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/relay/internal/infrastructure/tracing"
	httpclient "github.com/GriffinCanCode/relay/internal/providers/http/client"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	dispatcher *httpclient.Client
	tracer     *tracing.Tracer
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing relay",
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("dispatch_timeout", cfg.Dispatch.Timeout.Std()),
		zap.Bool("follow_redirects", cfg.Dispatch.FollowRedirects),
		zap.Int64("max_body_bytes", cfg.Dispatch.MaxBodyBytes),
		zap.Bool("breaker", cfg.Breaker.Enabled),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("relay", logger.Logger)

	dispatcher := httpclient.NewClient(httpclient.OptionsFromConfig(cfg.Dispatch))
	if cfg.Breaker.Enabled {
		breakerLog := logger.Named("breaker")
		dispatcher.WithBreaker(cfg.Breaker, func(host string, from, to resilience.State) {
			metrics.RecordBreakerTransition(from.String(), to.String())
			breakerLog.Warn("Circuit breaker state changed",
				zap.String("host", host),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
	}

	svc := relay.NewService(dispatcher, logger).
		WithMetrics(metrics).
		WithTracer(tracer)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.CORS)))

	handlers := api.NewHandlers(svc, metrics, cfg.Server.MaxPayloadBytes).
		WithBreakerStates(dispatcher.BreakerStates)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/proxy", handlers.Proxy)

	logger.Info("Relay initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: router,
		},
		dispatcher: dispatcher,
		tracer:     tracer,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until Shutdown
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting calls and waits for in-flight ones, bounded by
// ctx, then releases the dispatcher and tracer
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown incomplete", zap.Error(err))
	}

	s.Close()
	return err
}

// Close releases resources without waiting for in-flight calls
func (s *Server) Close() {
	s.dispatcher.Close()
	s.tracer.Close()
	s.logger.Sync()
}
