package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/matzehuels/timeruler/pkg/observability"
)

// Handler returns the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range s.middleware() {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/ruler.svg", s.handleSVG)

	r.Route("/api", func(r chi.Router) {
		r.Get("/timeline", s.handleTimeline)
		r.Get("/years", s.handleYears)
		r.Get("/layout", s.handleLayout)

		r.Route("/views", func(r chi.Router) {
			r.Post("/", s.handleCreateView)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetView)
				r.Delete("/", s.handleDeleteView)
				r.Post("/click", s.handleClick)
				r.Post("/hover", s.handleHover)
				r.Delete("/hover", s.handleLeave)
				r.Get("/summary", s.handleSummary)
			})
		})
	})

	return r
}

func (s *Server) middleware() []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'",
		IsDevelopment:         false,
	})

	mws := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Timeout(s.cfg.RequestTimeout),
		secureMiddleware.Handler,
	}
	if s.cfg.RateLimit > 0 {
		mws = append(mws, httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
	}
	return mws
}

// requestLogger logs each request and reports it to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
		observability.HTTP().OnRequestServed(r.Context(), r.Method, route, status, elapsed)
	})
}
