package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/galaxygen/pkg/buildinfo"
	"github.com/matzehuels/galaxygen/pkg/errors"
	"github.com/matzehuels/galaxygen/pkg/galaxy"
	"github.com/matzehuels/galaxygen/pkg/observability"
	"github.com/matzehuels/galaxygen/pkg/pipeline"
	"github.com/matzehuels/galaxygen/pkg/settings"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origins []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render galaxies over HTTP",
		Long: `Serve galaxies over HTTP.

Endpoints:
  GET  /healthz       liveness probe
  GET  /api/types     configured galaxy types
  GET  /api/galaxy    render with query parameters size, arms, stars, type, seed, format
  POST /api/galaxy    render with a JSON body of the same fields

Seeded requests are cached, and concurrent identical requests share one
render. Size and star count are capped by the [server] settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Settings.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, origins, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, "+settings.Default().Server.Addr+")")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", []string{"*"}, "allowed CORS origins")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe listens until ctx is canceled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, addr string, origins []string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := newServer(runner, c.Settings, c.Logger)
	done := make(chan struct{})
	defer close(done)
	go srv.limiter.run(done)

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	settings *settings.Settings
	logger   *log.Logger
	limiter  *rateLimiter
	timeout  time.Duration
	group    singleflight.Group
}

func newServer(runner *pipeline.Runner, s *settings.Settings, logger *log.Logger) *server {
	timeout := s.Server.Timeout.Duration
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &server{
		runner:   runner,
		settings: s,
		logger:   logger,
		limiter:  newRateLimiter(s.Server.RequestRate, s.Server.RequestBurst, logger),
		timeout:  timeout,
	}
}

func (s *server) routes(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Galaxy-Seed", "X-Galaxy-Stars", "X-Cache"},
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/types", s.handleTypes)
		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware)
			r.Get("/galaxy", s.handleGalaxyQuery)
			r.Post("/galaxy", s.handleGalaxyJSON)
		})
	})
	return r
}

// observe reports every request to the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type typeInfo struct {
	Name    string         `json:"name"`
	Profile galaxy.Profile `json:"profile"`
}

func (s *server) handleTypes(w http.ResponseWriter, r *http.Request) {
	names := s.settings.ProfileNames()
	out := make([]typeInfo, len(names))
	for i, n := range names {
		out[i] = typeInfo{Name: n, Profile: s.settings.GalaxyTypes[n]}
	}
	writeJSON(w, http.StatusOK, out)
}

// galaxyRequest is the body of POST /api/galaxy. Missing fields take the
// [parameters] defaults.
type galaxyRequest struct {
	Size    int    `json:"size"`
	Arms    int    `json:"arms"`
	Stars   int    `json:"stars"`
	Type    string `json:"type"`
	Seed    uint64 `json:"seed"`
	Format  string `json:"format"`
	Refresh bool   `json:"refresh"`
}

func (s *server) defaults() galaxyRequest {
	p := s.settings.Parameters
	return galaxyRequest{Size: p.Size, Arms: p.Arms, Stars: p.Stars, Type: p.Type, Format: pipeline.FormatPNG}
}

func (s *server) handleGalaxyQuery(w http.ResponseWriter, r *http.Request) {
	req := s.defaults()
	q := r.URL.Query()

	ints := []struct {
		name string
		dst  *int
	}{{"size", &req.Size}, {"arms", &req.Arms}, {"stars", &req.Stars}}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v))
				return
			}
			*p.dst = n
		}
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v))
			return
		}
		req.Seed = n
	}
	if v := q.Get("type"); v != "" {
		req.Type = v
	}
	if v := q.Get("format"); v != "" {
		req.Format = strings.ToLower(v)
	}
	req.Refresh = q.Get("refresh") == "true"

	s.serveGalaxy(w, r, req)
}

func (s *server) handleGalaxyJSON(w http.ResponseWriter, r *http.Request) {
	req := s.defaults()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	s.serveGalaxy(w, r, req)
}

// serveGalaxy renders one format. Identical seeded requests in flight at
// the same time share a single render, which runs detached from any one
// client's cancellation.
func (s *server) serveGalaxy(w http.ResponseWriter, r *http.Request, req galaxyRequest) {
	opts := pipeline.Options{
		Size:     req.Size,
		Arms:     req.Arms,
		Stars:    req.Stars,
		Type:     req.Type,
		Seed:     req.Seed,
		Formats:  []string{req.Format},
		Refresh:  req.Refresh,
		MaxSize:  s.settings.Server.MaxSize,
		MaxStars: s.settings.Server.MaxStars,
		Settings: s.settings,
		Logger:   s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, r, err)
		return
	}

	render := func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.timeout)
		defer cancel()
		return s.runner.Generate(ctx, opts)
	}

	var (
		v   any
		err error
	)
	if opts.Seeded() && !opts.Refresh {
		key := fmt.Sprintf("%s:%d", opts.Parameters(), opts.Seed) + ":" + req.Format
		v, err, _ = s.group.Do(key, render)
	} else {
		v, err = render()
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res := v.(*pipeline.Result)
	cacheStatus := "MISS"
	if res.CacheHit {
		cacheStatus = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[req.Format])
	h.Set("X-Galaxy-Seed", strconv.FormatUint(res.Seed, 10))
	h.Set("X-Galaxy-Stars", strconv.Itoa(res.Stats.Placed))
	h.Set("X-Cache", cacheStatus)
	if req.Format == pipeline.FormatZip {
		h.Set("Content-Disposition", `attachment; filename="`+pipeline.FileNames[req.Format]+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[req.Format])
}

// fail maps coded errors to HTTP statuses and writes a JSON error body.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case strings.HasPrefix(string(errors.GetCode(err)), "INVALID_"):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
