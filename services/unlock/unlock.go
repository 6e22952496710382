// Package unlock computes which course weeks an enrolled account can see.
package unlock

import (
	"sort"
	"time"

	"sankalp/models/course"
)

const day = 24 * time.Hour

// DaysElapsed is the number of whole days between grantedAt and now,
// never negative.
func DaysElapsed(grantedAt, now time.Time) int {
	d := now.Sub(grantedAt)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// AccessibleWeeks is always at least 1: week one opens on grant day.
func AccessibleWeeks(grantedAt, now time.Time) int {
	return DaysElapsed(grantedAt, now)/7 + 1
}

// Visible returns the modules released by now, ordered by week then day.
func Visible(modules []course.Module, grantedAt, now time.Time) []course.Module {
	weeks := AccessibleWeeks(grantedAt, now)
	out := make([]course.Module, 0, len(modules))
	for _, m := range modules {
		if m.Week <= weeks {
			out = append(out, m)
		}
	}
	Sort(out)
	return out
}

// Sort orders modules by week, then day, then id.
func Sort(modules []course.Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		a, b := modules[i], modules[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.ID < b.ID
	})
}

// Week is one released week of a course.
type Week struct {
	Week    int             `json:"week"`
	Modules []course.Module `json:"modules"`
}

// GroupByWeek groups already sorted modules by week.
func GroupByWeek(modules []course.Module) []Week {
	var weeks []Week
	for _, m := range modules {
		if n := len(weeks); n == 0 || weeks[n-1].Week != m.Week {
			weeks = append(weeks, Week{Week: m.Week})
		}
		last := &weeks[len(weeks)-1]
		last.Modules = append(last.Modules, m)
	}
	return weeks
}
