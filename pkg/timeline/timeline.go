package timeline

import (
	"slices"

	"github.com/matzehuels/timeruler/pkg/errors"
)

// MaxPhotoCount is the upper bound on photos per day in generated data.
const MaxPhotoCount = 10

// Default range of the synthetic data set.
var (
	DefaultStart = NewDate(2022, 1, 1)
	DefaultEnd   = NewDate(2023, 12, 31)
)

// Entry is one calendar day's activity summary.
type Entry struct {
	Date       Date `json:"date"`
	EntryCount int  `json:"entryCount"`
	PhotoCount int  `json:"photoCount"`
	HasPhotos  bool `json:"hasPhotos"`
}

// NewEntry builds an entry, deriving HasPhotos from the photo count.
func NewEntry(date Date, entryCount, photoCount int) Entry {
	return Entry{
		Date:       date,
		EntryCount: entryCount,
		PhotoCount: photoCount,
		HasPhotos:  photoCount > 0,
	}
}

// Active reports whether the day has any activity records.
func (e Entry) Active() bool { return e.EntryCount > 0 }

// Data is an immutable snapshot of a contiguous, inclusive date range.
type Data struct {
	Entries   []Entry `json:"entries"`
	StartDate Date    `json:"startDate"`
	EndDate   Date    `json:"endDate"`
	TotalDays int     `json:"totalDays"`
}

// Stats summarizes a snapshot.
type Stats struct {
	TotalDays      int
	ActiveDays     int
	DaysWithPhotos int
	TotalEntries   int
	TotalPhotos    int
	MaxEntryCount  int
}

// DaysInRange returns the number of calendar days in [start, end], or 0 if end is before start.
func DaysInRange(start, end Date) int {
	n := DaysBetween(start, end) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Active returns the entries with a positive entry count, in chronological order.
func (d Data) Active() []Entry {
	active := make([]Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Active() {
			active = append(active, e)
		}
	}
	return active
}

// DisplayOrder returns the active entries sorted newest first.
func (d Data) DisplayOrder() []Entry {
	return SortDescending(d.Active())
}

// SortDescending returns a copy of entries ordered by date, most recent first.
func SortDescending(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// Lookup returns the entry for date.
func (d Data) Lookup(date Date) (Entry, bool) {
	if date.IsZero() || len(d.Entries) == 0 {
		return Entry{}, false
	}
	i := DaysBetween(d.Entries[0].Date, date)
	if i >= 0 && i < len(d.Entries) && d.Entries[i].Date.Equal(date) {
		return d.Entries[i], true
	}
	for _, e := range d.Entries {
		if e.Date.Equal(date) {
			return e, true
		}
	}
	return Entry{}, false
}

// Years returns the distinct calendar years present in the snapshot, ascending.
func (d Data) Years() []int {
	var years []int
	for _, e := range d.Entries {
		if y := e.Date.Year(); !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}

// Stats computes summary counts over all entries.
func (d Data) Stats() Stats {
	s := Stats{TotalDays: len(d.Entries)}
	for _, e := range d.Entries {
		if e.Active() {
			s.ActiveDays++
		}
		if e.HasPhotos {
			s.DaysWithPhotos++
		}
		s.TotalEntries += e.EntryCount
		s.TotalPhotos += e.PhotoCount
		s.MaxEntryCount = max(s.MaxEntryCount, e.EntryCount)
	}
	return s
}

// Validate checks the structural contract of a snapshot: one entry per day
// in [StartDate, EndDate] in ascending order, TotalDays matching the entry
// count, non-negative counts and HasPhotos consistent with PhotoCount.
func (d Data) Validate() error {
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return errors.New(errors.ErrCodeInvalidData, "start and end dates are required")
	}
	if d.EndDate.Before(d.StartDate) {
		return errors.New(errors.ErrCodeInvalidRange, "end date %s is before start date %s", d.EndDate, d.StartDate)
	}
	if want := DaysInRange(d.StartDate, d.EndDate); d.TotalDays != want {
		return errors.New(errors.ErrCodeInvalidData, "totalDays is %d, range %s..%s has %d days", d.TotalDays, d.StartDate, d.EndDate, want)
	}
	if len(d.Entries) != d.TotalDays {
		return errors.New(errors.ErrCodeInvalidData, "have %d entries, want %d", len(d.Entries), d.TotalDays)
	}
	for i, e := range d.Entries {
		if want := d.StartDate.AddDays(i); !e.Date.Equal(want) {
			return errors.New(errors.ErrCodeInvalidData, "entry %d: date %s, want %s", i, e.Date, want)
		}
		if e.EntryCount < 0 || e.PhotoCount < 0 {
			return errors.New(errors.ErrCodeInvalidData, "entry %s: negative count", e.Date)
		}
		if e.HasPhotos != (e.PhotoCount > 0) {
			return errors.New(errors.ErrCodeInvalidData, "entry %s: hasPhotos=%t with photoCount=%d", e.Date, e.HasPhotos, e.PhotoCount)
		}
	}
	return nil
}
