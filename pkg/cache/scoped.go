package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. Useful
// when several projects or users share one cache backend.
//
// Example usage:
//
//	// Project-specific keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "proj:gallery:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SceneKey generates a prefixed key for scene content.
func (k *ScopedKeyer) SceneKey(content []byte) string {
	return k.prefix + k.inner.SceneKey(content)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
