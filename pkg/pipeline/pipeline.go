// Package pipeline provides the load → build → render pipeline for inkscene.
//
// This package implements the complete scene pipeline shared by the CLI and
// the preview server. By centralizing this logic, both entry points behave
// identically: same defaults, same caching, same error codes.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Load: Read and decode a TOML scene file into a canvas
//  2. Render: Resolve all bindings and links and emit output documents
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScenePath: "scene.toml",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkscene/inkscene/pkg/cache"
	"github.com/inkscene/inkscene/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the scene pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options. Exactly one of ScenePath and SceneData must be set;
	// SceneData carries inline TOML, as the preview server receives it.
	ScenePath string `json:"scene_path,omitempty"`
	SceneData []byte `json:"scene_data,omitempty"`

	// Render options
	Formats         []string `json:"formats,omitempty"`
	Background      string   `json:"background,omitempty"`
	SurfaceOutlines bool     `json:"surface_outlines,omitempty"`
	Anchors         bool     `json:"anchors,omitempty"` // include anchors in JSON export
	Refresh         bool     `json:"refresh,omitempty"` // bypass the cache

	// Runtime options (not serialized). A non-nil Logger overrides the
	// runner's logger for this execution.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.ScenePath == "" && len(o.SceneData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene_path or scene_data is required")
	}
	if o.ScenePath != "" && len(o.SceneData) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene_path and scene_data are mutually exclusive")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput,
				"invalid format %q (must be one of: svg, json)", f)
		}
	}
	return nil
}

// renderKeyOpts returns the cache key options for one output format.
func (o *Options) renderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:          format,
		Background:      o.Background,
		SurfaceOutlines: o.SurfaceOutlines,
		Anchors:         o.Anchors,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// SceneHash is the content hash of the scene source.
	SceneHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShapeCount int
	LinkCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}
