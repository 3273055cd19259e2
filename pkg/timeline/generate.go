package timeline

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/timeruler/pkg/errors"
)

// Default generation policies.
const (
	DefaultBaseProbability  = 0.7
	DefaultWeekendFactor    = 0.9
	DefaultHolidayFactor    = 1.2
	DefaultClusterFactor    = 1.3
	DefaultPhotoProbability = 0.9
	DefaultMaxEntries       = 5
)

// photoWeights is the cumulative distribution of photo counts 1..10 on days with photos.
var photoWeights = [MaxPhotoCount]float64{0.05, 0.10, 0.15, 0.25, 0.40, 0.55, 0.70, 0.80, 0.90, 1.0}

// GeneratorOptions tunes the activity policies. Zero fields take the defaults.
type GeneratorOptions struct {
	BaseProbability  float64 `json:"base_probability,omitempty"`
	WeekendFactor    float64 `json:"weekend_factor,omitempty"`
	HolidayFactor    float64 `json:"holiday_factor,omitempty"`
	ClusterFactor    float64 `json:"cluster_factor,omitempty"`
	PhotoProbability float64 `json:"photo_probability,omitempty"`
	MaxEntries       int     `json:"max_entries,omitempty"`
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o GeneratorOptions) WithDefaults() GeneratorOptions {
	if o.BaseProbability == 0 {
		o.BaseProbability = DefaultBaseProbability
	}
	if o.WeekendFactor == 0 {
		o.WeekendFactor = DefaultWeekendFactor
	}
	if o.HolidayFactor == 0 {
		o.HolidayFactor = DefaultHolidayFactor
	}
	if o.ClusterFactor == 0 {
		o.ClusterFactor = DefaultClusterFactor
	}
	if o.PhotoProbability == 0 {
		o.PhotoProbability = DefaultPhotoProbability
	}
	if o.MaxEntries == 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	return o
}

// Generator produces synthetic timeline data.
//
// A Generator is not safe for concurrent use; create one per goroutine.
type Generator struct {
	rng  *rand.Rand
	seed uint64
	opts GeneratorOptions
}

// NewGenerator returns a generator seeded with seed. A zero seed picks a
// random one, so output differs between runs; any other seed is repeatable.
func NewGenerator(seed uint64, opts GeneratorOptions) *Generator {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		seed: seed,
		opts: opts.WithDefaults(),
	}
}

// Seed returns the effective seed.
func (g *Generator) Seed() uint64 { return g.seed }

// Generate produces one entry per day in [start, end], ascending.
func (g *Generator) Generate(start, end Date) (Data, error) {
	if start.IsZero() || end.IsZero() {
		return Data{}, errors.New(errors.ErrCodeInvalidRange, "start and end dates are required")
	}
	if end.Before(start) {
		return Data{}, errors.New(errors.ErrCodeInvalidRange, "end date %s is before start date %s", end, start)
	}

	total := DaysInRange(start, end)
	entries := make([]Entry, total)
	prevActive := false
	for i := range entries {
		day := start.AddDays(i)
		entries[i] = g.day(day, prevActive)
		prevActive = entries[i].Active()
	}

	return Data{
		Entries:   entries,
		StartDate: start,
		EndDate:   end,
		TotalDays: total,
	}, nil
}

func (g *Generator) day(date Date, prevActive bool) Entry {
	p := g.opts.BaseProbability
	if date.IsWeekend() {
		p *= g.opts.WeekendFactor
	}
	if IsHoliday(date) {
		p *= g.opts.HolidayFactor
	}
	if prevActive {
		p *= g.opts.ClusterFactor
	}
	if g.rng.Float64() >= p {
		return NewEntry(date, 0, 0)
	}

	entryCount := g.rng.IntN(g.opts.MaxEntries) + 1
	photoCount := 0
	if g.rng.Float64() < g.opts.PhotoProbability {
		photoCount = g.photoCount()
	}
	return NewEntry(date, entryCount, photoCount)
}

func (g *Generator) photoCount() int {
	r := g.rng.Float64()
	for i, w := range photoWeights {
		if r < w {
			return i + 1
		}
	}
	return MaxPhotoCount
}

// IsHoliday reports whether date falls in a holiday period: Dec 20 through
// Jan 5, June through August, or Mar 15-25.
func IsHoliday(date Date) bool {
	m, d := date.Month(), date.Day()
	switch {
	case m == time.December && d >= 20:
		return true
	case m == time.January && d <= 5:
		return true
	case m >= time.June && m <= time.August:
		return true
	case m == time.March && d >= 15 && d <= 25:
		return true
	}
	return false
}
