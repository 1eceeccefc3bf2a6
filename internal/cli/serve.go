package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	ierrors "github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/observability"
	"github.com/inkscene/inkscene/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noCache   bool
	redisAddr string
}

// serveCommand creates the serve command, which runs the preview server.
// The server accepts inline scenes over HTTP and returns rendered artifacts,
// sharing the same pipeline (and cache keys) as the CLI.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scene preview server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), opts.noCache, opts.redisAddr)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr:              opts.addr,
				Handler:           newRouter(runner),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			c.Logger.Infof("Preview server listening on %s", opts.addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for a shared artifact cache")

	return cmd
}

// newRouter builds the chi router for the preview server.
func newRouter(runner *pipeline.Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Post("/v1/render", handleRender(runner))

	return r
}

// requestID assigns a fresh UUID to each request and echoes it in the
// response headers so clients can correlate logs.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// requestIDCtxKey is the context key type for request ids.
type requestIDCtxKey int

const requestIDKey requestIDCtxKey = 0

// RequestIDFromContext returns the request id assigned by the server, or an
// empty string. Hook implementations use this to correlate events.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// observe emits HTTP hook events around each request.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// renderResponse is the envelope for POST /v1/render.
type renderResponse struct {
	SceneHash string                     `json:"scene_hash"`
	CacheHit  bool                       `json:"cache_hit"`
	Artifacts map[string]json.RawMessage `json:"artifacts"`
}

// handleRender renders an inline scene. The request body is a JSON-encoded
// pipeline.Options with scene_data carrying the TOML source.
func handleRender(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts pipeline.Options
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeError(w, r, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "decode request body"))
			return
		}
		// The server never reads local files on behalf of clients.
		opts.ScenePath = ""

		result, err := runner.Execute(r.Context(), opts)
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := renderResponse{
			SceneHash: result.SceneHash,
			CacheHit:  result.CacheInfo.RenderHit,
			Artifacts: make(map[string]json.RawMessage, len(result.Artifacts)),
		}
		for format, data := range result.Artifacts {
			if format == pipeline.FormatJSON {
				resp.Artifacts[format] = json.RawMessage(data)
				continue
			}
			quoted, err := json.Marshal(string(data))
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp.Artifacts[format] = quoted
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps engine error codes to HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	status := http.StatusInternalServerError
	switch ierrors.GetCode(err) {
	case ierrors.ErrCodeInvalidInput, ierrors.ErrCodeInvalidScene, ierrors.ErrCodeInvalidFormat,
		ierrors.ErrCodeInvalidStyle, ierrors.ErrCodeInvalidLinkShape, ierrors.ErrCodeCyclicResolution,
		ierrors.ErrCodeUnknownAnchor, ierrors.ErrCodeUnknownShape, ierrors.ErrCodeUnknownFrame,
		ierrors.ErrCodeNonFiniteGeometry, ierrors.ErrCodeRemovedReference:
		status = http.StatusBadRequest
	case ierrors.ErrCodeNotFound, ierrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case ierrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}

	var resp errorResponse
	resp.Error.Code = string(ierrors.GetCode(err))
	if resp.Error.Code == "" {
		resp.Error.Code = string(ierrors.ErrCodeInternal)
	}
	resp.Error.Message = ierrors.UserMessage(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
