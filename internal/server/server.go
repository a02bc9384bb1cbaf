// Package server exposes the dashboard over HTTP.
//
// A request for /years/{year} is the year-selection event: it runs the
// controller, refreshes the page's year control and redirects back to the page.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/rewired-gh/salesdash/internal/logger"
	"github.com/rewired-gh/salesdash/internal/render"
	"github.com/rewired-gh/salesdash/internal/view"
)

// selectRateLimit caps year selections per client IP per minute. Each one hits the backend.
const selectRateLimit = 60

// contentSecurityPolicy allows the inline chart script and the Chart.js CDN.
const contentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'"

// AfterSelect runs after a selection has been applied to the page.
type AfterSelect func(ctx context.Context)

// Server serves one dashboard page.
type Server struct {
	controller  *view.Controller
	page        *render.Page
	png         *render.PNGExporter
	afterSelect AfterSelect
	router      chi.Router
}

// New builds the router. png and afterSelect may be nil.
func New(controller *view.Controller, page *render.Page, png *render.PNGExporter, afterSelect AfterSelect) *Server {
	s := &Server{
		controller:  controller,
		page:        page,
		png:         png,
		afterSelect: afterSelect,
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(secureMiddleware.Handler)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.With(httprate.Limit(selectRateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
		Get("/years/{year}", s.handleSelectYear)
	r.Get("/charts/{canvas}", s.handleChartSpec)
	r.Get("/charts/{canvas}/png", s.handleChartPNG)
	r.Get("/export.xlsx", s.handleExport)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.WriteHTML(w); err != nil {
		logger.Error("Failed to write page: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSelectYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}

	if err := s.controller.SelectYear(r.Context(), year); err != nil {
		if errors.Is(err, view.ErrYearOutOfRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("Selection of %d failed: %v", year, err)
		http.Error(w, "selection failed", http.StatusInternalServerError)
		return
	}
	s.page.SyncSelection(s.controller)

	if s.afterSelect != nil {
		s.afterSelect(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleChartSpec(w http.ResponseWriter, r *http.Request) {
	canvas := s.page.Canvas(chi.URLParam(r, "canvas"))
	if canvas == nil || canvas.Spec() == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(canvas.Spec()); err != nil {
		logger.Warn("Failed to encode chart spec: %v", err)
	}
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	canvas := s.page.Canvas(chi.URLParam(r, "canvas"))
	if s.png == nil || canvas == nil || canvas.Spec() == nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := s.png.Render(&buf, canvas.Spec()); err != nil {
		logger.Warn("Failed to render %s: %v", canvas.Name(), err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.page.WriteXLSX(&buf); err != nil {
		logger.Warn("Failed to export workbook: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	_, _ = buf.WriteTo(w)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%v) [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}
