package router

import (
	"net/http"

	"pet-shop-platform/internal/middleware"
	"pet-shop-platform/internal/platform/logger"
	"pet-shop-platform/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Common son las opciones compartidas por los cuatro routers.
type Common struct {
	CORSOrigins []string // vacío = "*"

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	Log logger.Logger
}

// newBase arma el chi.Mux con el stack de middlewares común y /health.
func newBase(service string, c Common) (*chi.Mux, logger.Logger) {
	log := c.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"service": service})

	origins := c.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.Trace(service))
	r.Use(middleware.AuthContext(c.AuthVerifier))
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r, log
}
