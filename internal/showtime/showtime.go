// Package showtime splits a page's shows into upcoming and past.
package showtime

import (
	"sort"
	"time"

	"github.com/iliyamo/gig-registry/internal/model"
)

// Split holds the two halves of a classified show list.
type Split struct {
	Upcoming []model.CounterpartShow `json:"upcoming_shows"`
	Past     []model.CounterpartShow `json:"past_shows"`
}

// Partition classifies shows relative to now.  A show is upcoming only
// when it starts strictly after now; a show starting exactly at now is
// past.  Both halves are ordered by start time, then show id.  The input
// slice is not modified.
func Partition(now time.Time, shows []model.CounterpartShow) Split {
	sorted := make([]model.CounterpartShow, len(shows))
	copy(sorted, shows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ShowID < sorted[j].ShowID
	})

	split := Split{
		Upcoming: []model.CounterpartShow{},
		Past:     []model.CounterpartShow{},
	}
	for _, s := range sorted {
		if s.StartTime.After(now) {
			split.Upcoming = append(split.Upcoming, s)
		} else {
			split.Past = append(split.Past, s)
		}
	}
	return split
}

// CountUpcoming returns how many of the given start times are after now.
func CountUpcoming(now time.Time, starts ...time.Time) int {
	n := 0
	for _, t := range starts {
		if t.After(now) {
			n++
		}
	}
	return n
}
