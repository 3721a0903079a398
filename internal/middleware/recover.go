package middleware

import (
	"net/http"
	"runtime/debug"

	"pet-shop-platform/internal/platform/logger"
)

// Recover reemplaza a chimw.Recoverer para que el panic quede en el logger
// estructurado del servicio y el cliente reciba JSON.
func Recover(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"panic": rec,
					"path":  r.URL.Path,
					"stack": string(debug.Stack()),
				})

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Error interno del servidor"}`))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
