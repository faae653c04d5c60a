package preview

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/microcosm-cc/bluemonday"
)

const maxBodyBytes = 1 << 20

// Server exposes the application over loopback HTTP and serves rendered
// previews from an opaque origin.
type Server struct {
	backend  Backend
	logger   Logger
	previews *ring
	policy   *bluemonday.Policy
	index    *template.Template
	router   *chi.Mux
}

func NewServer(backend Backend, logger Logger, keep int) *Server {
	s := &Server{
		backend:  backend,
		logger:   logger,
		previews: newRing(keep),
		policy:   bluemonday.UGCPolicy(),
		index:    template.Must(template.New("index").Parse(indexHTML)),
	}
	s.setupRouter()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://127.0.0.1:*", "http://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/preview/{token}", s.handlePreview)

	r.Route("/api", func(r chi.Router) {
		r.Get("/challenges", s.handleListChallenges)
		r.Get("/challenges/{id}", s.handleGetChallenge)
		r.Get("/progress", s.handleProgress)

		// Writes need a JSON content type so browsers preflight them, and
		// never come from a preview frame or another site.
		r.Group(func(r chi.Router) {
			r.Use(rejectForeignOrigin)
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/challenges/{id}/submit", s.handleSubmit)
			r.Post("/run", s.handleRun)
		})
	})

	s.router = r
}

// rejectForeignOrigin refuses requests from sandboxed frames, whose origin
// is "null", and anything the browser marks as cross-site.
func rejectForeignOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") == "null" || r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			respondError(w, http.StatusForbidden, "forbidden_origin", "request origin not allowed", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Info("http.request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		}()
		next.ServeHTTP(ww, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info("preview.listen", map[string]any{"addr": ln.Addr().String()})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>webdojo preview</title>
<style>
body { font-family: sans-serif; margin: 0; }
header { padding: 8px 12px; background: #0a7a3d; color: #fff; }
iframe { width: 100%; height: calc(100vh - 40px); border: 0; }
</style>
</head>
<body>
<header>webdojo preview{{if .Token}} &middot; {{.Token}}{{end}}</header>
{{if .Token}}<iframe sandbox="allow-scripts" referrerpolicy="no-referrer" src="/preview/{{.Token}}"></iframe>
{{else}}<p style="padding: 12px">Nothing rendered yet. Use <code>webdojo run</code> or POST /api/run.</p>
{{end}}</body>
</html>
`
