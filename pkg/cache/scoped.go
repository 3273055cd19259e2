package cache

// ScopedKeyer wraps a Keyer with a prefix so several preview servers, or
// several data sets served by one server, can share a backend.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "timeruler:")
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

// DataKey generates a prefixed key for timeline caching.
func (k *ScopedKeyer) DataKey(opts DataKeyOpts) string {
	return k.prefix + k.inner.DataKey(opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dataHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
