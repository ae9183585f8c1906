package todo

import (
	"fmt"
	"strings"

	"todo/internal/service"
)

// Filter selects which tasks are visible. It is never sent to the store.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filter modes in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter parses a filter name, case-insensitively.
// The empty string is FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter: %s (want all, active or completed)", s)
	}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case FilterActive:
		return !t.IsDone
	case FilterCompleted:
		return t.IsDone
	default:
		return true
	}
}

// Apply returns the tasks visible under f, in list order.
// The input is not modified; the result never aliases it.
func Apply(tasks []service.Task, f Filter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
