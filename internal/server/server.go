// Package server exposes the analyzer as a small browser UI and a JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/metrics"
	"ecommerce-keyword-report/pkg/logger"
)

// Options tunes the HTTP surface. DataRoot and AllowedHosts restrict the
// sources a request may name; empty values leave them unrestricted.
type Options struct {
	Addr         string
	UploadLimit  int64
	PreviewRows  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DataRoot     string
	AllowedHosts []string
	Presets      []Preset
}

type Server struct {
	an       *analyzer.Analyzer
	log      *logger.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	trans    ut.Translator
	opts     Options
	router   chi.Router
}

func New(an *analyzer.Analyzer, log *logger.Logger, m *metrics.Metrics, opts Options) *Server {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 10
	}
	if opts.UploadLimit <= 0 {
		opts.UploadLimit = 32 << 20
	}
	s := &Server{an: an, log: log, metrics: m, opts: opts}
	s.validate, s.trans = newValidator()
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLog)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/", s.handleIndex)
	r.Post("/preview", s.handlePreviewForm)
	r.Post("/analyze", s.handleAnalyzeForm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/preview", s.handlePreviewAPI)
		r.Post("/analyze", s.handleAnalyzeAPI)
		r.Get("/rules", s.handleRulesAPI)
	})
	return r
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("server listening on %s", s.opts.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Infof("bye")
	return nil
}

func newValidator() (*validator.Validate, ut.Translator) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonTagName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	return v, trans
}
