package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkscene/inkscene/pkg/cache"
	"github.com/inkscene/inkscene/pkg/errors"
	"github.com/inkscene/inkscene/pkg/observability"
	"github.com/inkscene/inkscene/pkg/render"
	"github.com/inkscene/inkscene/pkg/scene"
	"github.com/inkscene/inkscene/pkg/scenefile"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it stores no
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	result := &Result{}

	loadStart := time.Now()
	data, canvas, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.SceneHash = cache.Hash(data)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ShapeCount = len(canvas.Shapes())
	result.Stats.LinkCount = len(canvas.Links())

	logger.Info("loaded scene",
		"shapes", result.Stats.ShapeCount,
		"links", result.Stats.LinkCount,
		"duration", result.Stats.LoadTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, canvas, result.SceneHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and builds the scene, returning both the raw source (for cache
// keys) and the canvas.
func (r *Runner) Load(ctx context.Context, opts Options) ([]byte, *scene.Canvas, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	name := opts.ScenePath
	if name == "" {
		name = "<inline>"
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, name)

	data := opts.SceneData
	if opts.ScenePath != "" {
		var err error
		data, err = os.ReadFile(opts.ScenePath)
		if err != nil {
			loadErr := errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", opts.ScenePath)
			observability.Pipeline().OnLoadComplete(ctx, name, 0, time.Since(start), loadErr)
			return nil, nil, loadErr
		}
	}

	canvas, err := scenefile.Parse(data)
	observability.Pipeline().OnLoadComplete(ctx, name, shapeCount(canvas), time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return data, canvas, nil
}

// RenderWithCacheInfo renders all requested formats with caching and reports
// whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, canvas *scene.Canvas, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache.
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		allCached := true
		for _, format := range opts.Formats {
			key := r.Keyer.RenderKey(sceneHash, opts.renderKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "render")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := r.renderAll(canvas, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.RenderKey(sceneHash, opts.renderKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, canvas *scene.Canvas, sceneHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, canvas, sceneHash, opts)
	return artifacts, err
}

func (r *Runner) renderAll(canvas *scene.Canvas, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			var svgOpts []render.SVGOption
			if opts.Background != "" {
				svgOpts = append(svgOpts, render.WithBackground(opts.Background))
			}
			if opts.SurfaceOutlines {
				svgOpts = append(svgOpts, render.WithSurfaceOutlines())
			}
			data, err = render.RenderSVG(canvas, svgOpts...)
		case FormatJSON:
			var jsonOpts []render.JSONOption
			if opts.Anchors {
				jsonOpts = append(jsonOpts, render.WithJSONAnchors())
			}
			data, err = render.RenderJSON(canvas, jsonOpts...)
		default:
			err = errors.New(errors.ErrCodeUnsupported, "unknown format %q", format)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func shapeCount(c *scene.Canvas) int {
	if c == nil {
		return 0
	}
	return len(c.Shapes())
}
