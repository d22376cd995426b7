// Package api serves the expense pipeline over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/stt"
)

const (
	serviceName       = "SaveMoney API"
	defaultMaxUpload  = 25 << 20
	defaultReqTimeout = 90 * time.Second
)

// Processor turns free text into a finalized record.
type Processor interface {
	Process(ctx context.Context, text string) model.ExpenseRecord
}

// Journal keeps a local copy of saved records.
type Journal interface {
	SaveExpense(ctx context.Context, rec model.ExpenseRecord) (int64, error)
	MarkSynced(ctx context.Context, id, ledgerID int64) error
}

// Metrics is the subset of the collector set the server reports to.
type Metrics interface {
	ObserveHTTP(route, code string)
	Handler() http.Handler
}

// Options configures a Server. Processor and Ledger are required.
type Options struct {
	Processor      Processor
	Transcriber    stt.Transcriber
	Ledger         sheets.Store
	Journal        Journal
	Metrics        Metrics
	Logger         *slog.Logger
	Version        string
	AllowedOrigins []string
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Clock          func() time.Time
}

// Server exposes the REST API.
type Server struct {
	processor   Processor
	transcriber stt.Transcriber
	ledger      sheets.Store
	journal     Journal
	metrics     Metrics
	logger      *slog.Logger
	now         func() time.Time
	version     string
	origins     []string
	maxUpload   int64
	timeout     time.Duration
}

// NewServer creates a server from opts.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Ledger == nil {
		opts.Ledger = sheets.NewMemoryStore(opts.Logger)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultReqTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	return &Server{
		processor:   opts.Processor,
		transcriber: opts.Transcriber,
		ledger:      opts.Ledger,
		journal:     opts.Journal,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Clock,
		version:     opts.Version,
		origins:     opts.AllowedOrigins,
		maxUpload:   opts.MaxUploadBytes,
		timeout:     opts.RequestTimeout,
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/audio/transcribe", s.handleTranscribe)
		r.Post("/expenses/parse", s.handleParse)
		r.Post("/expenses", s.handleSave)
		r.Get("/expenses", s.handleList)
		r.Get("/sheets/test", s.handleSheetsTest)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		MaxAge:         300,
	})
	return c.Handler(r)
}

// observe logs each request and counts it by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if s.metrics != nil {
			s.metrics.ObserveHTTP(route, strconv.Itoa(status))
		}
		s.logger.Debug("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start))
	})
}
