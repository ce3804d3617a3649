package cache

// ScopedKeyer wraps a Keyer with a prefix so that entries written by one
// build never satisfy reads from another. Generator changes alter the
// pixels a seed produces, so the CLI and server scope keys by version.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.4.0:")
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

// GalaxyKey generates a prefixed galaxy key.
func (k *ScopedKeyer) GalaxyKey(opts GalaxyKeyOpts) string {
	return k.prefix + k.inner.GalaxyKey(opts)
}

// ArtifactKey derives the artifact key from an already prefixed galaxy
// key, so the prefix is not repeated.
func (k *ScopedKeyer) ArtifactKey(galaxyKey, format string) string {
	return k.inner.ArtifactKey(galaxyKey, format)
}
