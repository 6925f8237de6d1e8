package webservices

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapstyle/styling"
)

// NewRouter mounts the info and styling services under /api/.
func NewRouter(logger *logpkg.Logger, styler *styling.Styler, tracer *tracing.Tracer) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracer))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", NewInfoService(logger, styler))
		r.Mount("/styles", NewStyleService(logger, styler))
	})

	return router
}
