package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Screens     *ScreenHandler
	Diagnostics *DiagnosticsHandler
	// Metrics serves GET /metrics when set.
	Metrics    http.Handler
	Observer   RequestObserver
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}
	if cfg.Observer != nil {
		r.Use(ObserveRequests(cfg.Observer))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	if cfg.Screens != nil {
		screens := cfg.Screens
		r.Route("/screens", func(r chi.Router) {
			r.Post("/", screens.Create)
			r.Route("/{screenID}", func(r chi.Router) {
				r.Use(withScreenID)
				r.Get("/", screens.Get)
				r.Delete("/", screens.Delete)
				r.Post("/month/next", screens.NextMonth)
				r.Post("/month/prev", screens.PrevMonth)
				r.Post("/date", screens.SelectDate)
				r.Post("/time", screens.SelectTime)
				r.Post("/confirm", screens.Confirm)
				r.Post("/acknowledgement", screens.Acknowledge)
				r.Post("/tabs/{tab}", screens.PressTab)
			})
		})
	}

	if cfg.Diagnostics != nil {
		r.Get("/diagnostics", cfg.Diagnostics.List)
	}

	return r
}
