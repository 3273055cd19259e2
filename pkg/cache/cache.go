// Package cache stores pipeline results between runs.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: hash-sharded JSON files for CLI use (~/.cache/timeruler)
//   - [RedisCache]: shared cache for preview servers
//
// # Keys
//
// A [Keyer] derives deterministic keys for each pipeline stage. Keys hash
// every option that affects the stored bytes, so changing the magnifier peak
// or an output format never returns a stale artifact:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(dataHash, cache.LayoutKeyOpts{Peak: 6, Window: 5})
//
// Use [NewScopedKeyer] to namespace keys when several tenants share a backend.
package cache

import (
	"context"
	"time"
)

// TTLs for each pipeline stage.
const (
	// TTLData is how long generated timelines are kept. Only seeded runs are cached.
	TTLData = 7 * 24 * time.Hour

	// TTLLayout is how long computed layouts are kept.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long rendered outputs are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// DataKey identifies a generated timeline.
	DataKey(opts DataKeyOpts) string

	// LayoutKey identifies a layout computed from the timeline with the given hash.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DataKeyOpts are the inputs that determine a generated timeline.
type DataKeyOpts struct {
	Start            string  `json:"start"`
	End              string  `json:"end"`
	Seed             uint64  `json:"seed"`
	BaseProbability  float64 `json:"base_probability"`
	WeekendFactor    float64 `json:"weekend_factor"`
	HolidayFactor    float64 `json:"holiday_factor"`
	ClusterFactor    float64 `json:"cluster_factor"`
	PhotoProbability float64 `json:"photo_probability"`
	MaxEntries       int     `json:"max_entries"`
}

// LayoutKeyOpts are the inputs that determine a layout.
type LayoutKeyOpts struct {
	Focus       string  `json:"focus"`
	Hovered     string  `json:"hovered"`
	Current     string  `json:"current"`
	Peak        float64 `json:"peak"`
	Window      int     `json:"window"`
	BaseHeight  float64 `json:"base_height"`
	Gap         float64 `json:"gap"`
	TopOffset   float64 `json:"top_offset"`
	Today       string  `json:"today"`
	RecentDays  int     `json:"recent_days"`
	CurrentYear int     `json:"current_year"`
	YearSpacing float64 `json:"year_spacing"`
}

// ArtifactKeyOpts are the inputs that determine a rendered output.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	IndexLabels bool   `json:"index_labels"`
	Tooltips    bool   `json:"tooltips"`
	Width       int    `json:"width"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DataKey implements Keyer.
func (DefaultKeyer) DataKey(opts DataKeyOpts) string {
	return hashKey("data", opts)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
