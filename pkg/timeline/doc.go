// Package timeline defines the daily activity series displayed by the ruler.
//
// # Data Model
//
// A [Data] snapshot covers a contiguous, inclusive date range with exactly one
// [Entry] per calendar day, in ascending order. Each entry records how many
// activity records and photos exist for that day:
//
//	data, err := timeline.NewGenerator(42, timeline.GeneratorOptions{}).
//	    Generate(timeline.DefaultStart, timeline.DefaultEnd)
//	fmt.Println(data.TotalDays) // 730
//
// Snapshots are immutable once produced. The presentation layer owns focus and
// hover state; nothing in this package mutates a [Data] after construction.
//
// # Derived Views
//
// The layout engine never draws zero-activity days. [Data.Active] returns the
// entries with a positive entry count in chronological order, and
// [Data.DisplayOrder] returns the same set newest first, which is the order
// bars are stacked in.
//
// # Dates
//
// [Date] is a calendar date with no time-of-day or zone component. Day
// arithmetic ([Date.Days], [Date.AddDays], [DaysBetween]) is exact, which the
// magnification window relies on. The zero Date means "no date" and is used
// for an absent focus.
//
// # Synthetic Data
//
// [Generator] stands in for a real data source. It follows a handful of
// activity policies (quieter weekends, busier holidays, clustering of active
// days) but only the structural contract is guaranteed: one entry per day,
// photo counts in 0..[MaxPhotoCount], and HasPhotos == (PhotoCount > 0).
//
// # Files
//
// [ReadDataFile] and [WriteDataFile] persist snapshots as JSON using the same
// field names as the wire format (date, entryCount, photoCount, hasPhotos).
package timeline
