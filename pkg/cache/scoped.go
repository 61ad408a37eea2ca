package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Deployments that serve several workspaces from one Redis instance
// give each workspace its own namespace.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:acme:")
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

// ReportKey generates a prefixed key for audit report caching.
func (k *ScopedKeyer) ReportKey(layoutHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(layoutHash, opts)
}

// RouteKey generates a prefixed key for escape route caching.
func (k *ScopedKeyer) RouteKey(layoutHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(layoutHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
