// Package cache provides caching for rendered scene documents.
//
// Rendering a scene is deterministic, so a rendered artifact can be cached
// under a key derived from the scene file's content hash plus the render
// options. The package offers three backends behind one interface:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for the preview server
//   - NullCache: disables caching
//
// Keys are produced by a [Keyer] so the key scheme stays in one place;
// [ScopedKeyer] adds a namespace prefix when several projects share a
// backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTL values per key type.
const (
	// TTLRender is how long rendered artifacts stay cached. Renders are
	// cheap to redo, so this is mostly about keeping the backend bounded.
	TTLRender = 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts carries the render options that affect output bytes. Two
// renders with equal scene content and equal options produce identical
// documents, so these fields are the entire key surface.
type RenderKeyOpts struct {
	Format          string `json:"format"` // "svg" or "json"
	Background      string `json:"background,omitempty"`
	SurfaceOutlines bool   `json:"surface_outlines,omitempty"`
	Anchors         bool   `json:"anchors,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// SceneKey derives a key for raw scene content.
	SceneKey(content []byte) string

	// RenderKey derives a key for a rendered artifact from the scene
	// content hash and the render options.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey returns scene:hash(content).
func (k *DefaultKeyer) SceneKey(content []byte) string {
	return "scene:" + Hash(content)
}

// RenderKey returns render:hash(sceneHash, opts).
func (k *DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return hashKey("render", sceneHash, opts)
}

// Hash returns the hex sha256 digest of data. Scene content hashes and every
// cache key build on this.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives a prefix:digest key from arbitrary components. Components
// are serialized to JSON first so option structs key by value.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
