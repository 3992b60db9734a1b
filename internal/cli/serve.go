package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridmerge/pkg/buildinfo"
	"github.com/matzehuels/gridmerge/pkg/cache"
	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/observability"
	"github.com/matzehuels/gridmerge/pkg/pipeline"
)

const (
	// headerRequestID carries the request id in both directions.
	headerRequestID = "X-Request-ID"

	// defaultMaxBody bounds request bodies (bytes).
	defaultMaxBody = 64 << 20

	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serverOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the merge pipeline over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  POST /v1/merge?strategy=&mode=&format=&title=
      Body: a Tecplot file. Response: the merged grid in the requested
      format. Errors are JSON objects with code, message and request_id.

  GET /healthz
      Liveness probe.

Every response carries an X-Request-ID header; a request id sent by the
client is kept. With --cache-dir, rendered results are stored on disk and
repeated requests are answered from the cache (X-Cache: hit).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir, ttl := c.config.cache(cmd)
			opts.Cache, opts.CacheTTL = cache.NewNullCache(), ttl
			if dir != "" {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				opts.Cache = fc
			}
			defer opts.Cache.Close()
			return serve(ctx, c.config.addr(cmd), newServer(loggerFromContext(ctx), c.config, opts))
		},
	}

	cmd.Flags().String("addr", DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&opts.MaxBody, "max-body", defaultMaxBody, "maximum request body in bytes")
	cmd.Flags().String("cache-dir", "", "directory for cached results (disabled when empty)")
	cmd.Flags().Duration("cache-ttl", 0, "lifetime of cached results (0 keeps them forever)")

	return cmd
}

// serve runs h on addr until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, addr string, h http.Handler) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serverOptions tunes the HTTP adapter. Zero values select the defaults:
// a 64 MiB body limit and no caching.
type serverOptions struct {
	MaxBody  int64
	Cache    cache.Cache
	CacheTTL time.Duration
}

// server holds the handlers of the HTTP adapter.
type server struct {
	logger *log.Logger
	config *Config
	opts   serverOptions
}

// newServer builds the router. cfg supplies defaults for query parameters
// the client leaves out.
func newServer(logger *log.Logger, cfg *Config, opts serverOptions) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	s := &server{logger: logger, config: cfg, opts: opts}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Post("/v1/merge", s.merge)
	return r
}

type requestIDKey struct{}

// requestID assigns every request an id, echoes it in the response and
// attaches a logger carrying it to the request context.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		ctx = withLogger(ctx, s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, elapsed)
		loggerFromContext(ctx).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond))
	})
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	body := buildinfo.Fields()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

// merge runs the pipeline on the request body.
func (s *server) merge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	q := r.URL.Query()
	opts := s.config.queryOptions(q.Get("strategy"), q.Get("mode"), q.Get("format"), q.Get("title"))
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "scale %q is not a number", v))
			return
		}
		opts.Scale = scale
	}
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	input, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := cache.ResultKey(input, opts.Strategy, opts.Format, opts.Mode, opts.Title, opts.Scale, opts.Labels, opts.ZoneColors)
	if res, ok := s.cached(ctx, key); ok {
		logger.Debug("cache hit", "key", key)
		s.writeResult(w, opts.ContentType(), "hit", res)
		return
	}

	var buf bytes.Buffer
	res, err := pipeline.NewRunner(logger).Execute(ctx, opts, &buf, pipeline.Source{Path: "request", Reader: bytes.NewReader(input)})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := cachedResult{Body: buf.Bytes(), Stats: res.Stats}
	if data, err := json.Marshal(out); err == nil {
		if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	s.writeResult(w, opts.ContentType(), "miss", out)
}

// cachedResult is the cache entry of one rendered merge.
type cachedResult struct {
	Body  []byte         `json:"body"`
	Stats pipeline.Stats `json:"stats"`
}

func (s *server) cached(ctx context.Context, key string) (cachedResult, bool) {
	var res cachedResult
	data, ok, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		loggerFromContext(ctx).Warn("cache read failed", "err", err)
		return res, false
	}
	if !ok || json.Unmarshal(data, &res) != nil {
		return res, false
	}
	return res, true
}

func (s *server) writeResult(w http.ResponseWriter, contentType, cacheStatus string, res cachedResult) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Cache", cacheStatus)
	h.Set("X-Grid-Zones", strconv.Itoa(res.Stats.Zones))
	h.Set("X-Grid-Nodes", strconv.Itoa(res.Stats.NodeCount))
	h.Set("X-Grid-Edges", strconv.Itoa(res.Stats.EdgeCount))
	h.Set("X-Grid-Faces", strconv.Itoa(res.Stats.FaceCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}

// errorBody is the JSON error response.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("merge failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: msg, RequestID: requestIDFrom(r.Context())})
}

// statusFor maps pipeline errors to HTTP statuses: malformed requests are
// 400, well-formed input the merge cannot accept is 422.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidInput, errs.ErrCodeUnknownMergeStrategy:
		return http.StatusBadRequest
	case errs.ErrCodeInvalidConnectivity, errs.ErrCodePreconditionViolation:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.Canceled) {
		return 499 // client closed request
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
