package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Probe checks one dependency for the health endpoint.
type Probe func(ctx context.Context) error

// RouterOptions wires the API surface.
type RouterOptions struct {
	Service *Handlers
	Probes  map[string]Probe
	Logger  *slog.Logger
}

// Router builds the HTTP API.
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r.Get("/healthz", healthHandler(opts.Probes, log))

	if opts.Service != nil {
		r.Route("/notifications", func(n chi.Router) {
			n.Get("/", opts.Service.List)
			n.Post("/", opts.Service.Create)
			n.Get("/unread-count", opts.Service.UnreadCount)
			n.Post("/read-all", opts.Service.MarkAllRead)
			n.Post("/{id}/read", opts.Service.MarkRead)
		})
	}

	return r
}

func healthHandler(probes map[string]Probe, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		checks := make(map[string]string, len(probes))

		for name, probe := range probes {
			if err := probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "health probe failed",
					slog.String("probe", name), slog.Any("error", err))
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		writeJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": checks,
		})
	}
}
