// Package filter narrows a collected event list to a region of interest.
package filter

import (
	"strings"

	"github.com/honzajavorek/karolakvido/internal/event"
)

// ByRegion keeps events whose location, city or title contains region,
// compared case-insensitively. An empty region keeps everything. The
// input slice is not modified.
func ByRegion(events []event.Event, region string) []event.Event {
	if region == "" {
		return events
	}

	needle := strings.ToLower(region)
	matched := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if matchesRegion(evt, needle) {
			matched = append(matched, evt)
		}
	}
	return matched
}

func matchesRegion(evt event.Event, needle string) bool {
	for _, field := range []string{evt.Location, evt.City, evt.Title} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
