package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/config"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-showcase-api/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "product-showcase-api"

// Server represents the HTTP server
type Server struct {
	router        *chi.Mux
	config        *config.ServerConfig
	otlp          *config.OTLPConfig
	handler       *handler.SlotHandler
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	srv           *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	otlp *config.OTLPConfig,
	handler *handler.SlotHandler,
	logger *slog.Logger,
	meterProvider metric.MeterProvider,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		config:        cfg,
		otlp:          otlp,
		handler:       handler,
		logger:        logger,
		meterProvider: meterProvider,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.meterProvider.Meter(meterName)
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))

	if s.otlp.DurationMsMetric {
		s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
	}
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/slots", func(r chi.Router) {
		r.Get("/", s.handler.ListSlots)

		r.Route("/{slot}", func(r chi.Router) {
			r.Get("/", s.handler.GetSlot)
			r.Post("/edit", s.handler.RequestEdit)
			r.Post("/select", s.handler.SelectField)
			r.Put("/input", s.handler.TypeText)
			r.Post("/keyboard", s.handler.PushKeyboard)
			r.Post("/save", s.handler.Save)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus endpoint backed by the OpenTelemetry prometheus reader
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp, which records the standard
// http.server.* metrics and a span per request
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.meterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
