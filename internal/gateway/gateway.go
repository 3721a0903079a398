package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"pet-shop-platform/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	RootMessage = "API Gateway Se esta ejecutando"

	imageNotFoundMessage = "Imagen no encontrada en el microservicio Pets"
	imageErrorMessage    = "Error interno al obtener la imagen"
	defaultImageType     = "image/jpeg"
)

// Upstream es un servicio detrás del gateway.
type Upstream struct {
	Prefix string // p. ej. /api/products
	URL    string // p. ej. http://localhost:4000/api/products

	// mensaje de la respuesta 500 cuando el servicio no responde
	ErrorMessage string
}

type Options struct {
	Upstreams []Upstream

	// base de /uploads/* en el servicio de mascotas
	UploadsURL string

	// carpeta servida en /images/*; vacío = sin imágenes de productos
	ImagesDir string

	// opcional, para tests
	Transport http.RoundTripper
	Log       logger.Logger
}

// Mount registra las rutas del gateway sobre r.
func Mount(r chi.Router, opts Options) error {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(RootMessage))
	})

	for _, up := range opts.Upstreams {
		target, err := parseTarget(up.URL)
		if err != nil {
			return fmt.Errorf("upstream %s: %w", up.Prefix, err)
		}
		prefix := strings.TrimRight(up.Prefix, "/")
		h := serviceProxy(prefix, target, up.ErrorMessage, opts)
		r.Handle(prefix, h)
		r.Handle(prefix+"/*", h)
	}

	if opts.UploadsURL != "" {
		target, err := parseTarget(opts.UploadsURL)
		if err != nil {
			return fmt.Errorf("uploads: %w", err)
		}
		r.Handle("/uploads/*", uploadsProxy(target, opts))
	}

	if opts.ImagesDir != "" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(opts.ImagesDir)))
		r.Handle("/images/*", fs)
	}
	return nil
}

func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", raw)
	}
	return u, nil
}

// rewriteTo mueve el path de entrada (sin prefix) debajo del path del target.
func rewriteTo(prefix string, target *url.URL) func(*httputil.ProxyRequest) {
	return func(pr *httputil.ProxyRequest) {
		rest := strings.TrimPrefix(pr.In.URL.Path, prefix)
		if rest != "" && !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}

		pr.Out.URL.Scheme = target.Scheme
		pr.Out.URL.Host = target.Host
		pr.Out.URL.Path = target.Path + rest
		pr.Out.URL.RawPath = ""
		pr.Out.Host = target.Host
		pr.SetXForwarded()

		otel.GetTextMapPropagator().Inject(pr.Out.Context(), propagation.HeaderCarrier(pr.Out.Header))
	}
}

func serviceProxy(prefix string, target *url.URL, errMsg string, opts Options) http.Handler {
	if errMsg == "" {
		errMsg = "Error al comunicarse con el servicio"
	}
	log := opts.Log.With(map[string]any{"upstream": target.String()})

	return &httputil.ReverseProxy{
		Rewrite:   rewriteTo(prefix, target),
		Transport: opts.Transport,
		ModifyResponse: func(resp *http.Response) error {
			dropCORS(resp.Header)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("upstream request failed", map[string]any{
				"err":    err,
				"method": r.Method,
				"path":   r.URL.Path,
			})
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errMsg})
		},
	}
}

func uploadsProxy(target *url.URL, opts Options) http.Handler {
	log := opts.Log.With(map[string]any{"upstream": target.String()})

	return &httputil.ReverseProxy{
		Rewrite:   rewriteTo("/uploads", target),
		Transport: opts.Transport,
		ModifyResponse: func(resp *http.Response) error {
			dropCORS(resp.Header)
			if resp.StatusCode >= http.StatusBadRequest {
				replaceBody(resp, imageNotFoundMessage)
				return nil
			}
			if resp.Header.Get("Content-Type") == "" {
				resp.Header.Set("Content-Type", defaultImageType)
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("image proxy failed", map[string]any{"err": err, "path": r.URL.Path})
			http.Error(w, imageErrorMessage, http.StatusInternalServerError)
		},
	}
}

// dropCORS quita los headers CORS del servicio; los pone el gateway.
func dropCORS(h http.Header) {
	for k := range h {
		if strings.HasPrefix(k, "Access-Control-") {
			h.Del(k)
		}
	}
}

func replaceBody(resp *http.Response, msg string) {
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(strings.NewReader(msg))
	resp.ContentLength = int64(len(msg))
	resp.Header.Set("Content-Length", strconv.Itoa(len(msg)))
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
