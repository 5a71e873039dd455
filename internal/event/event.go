package event

import (
	"sort"
	"time"
)

// LocationNotSpecified is the sentinel used when neither the detail page
// nor the listing context yields a usable venue string.
const LocationNotSpecified = "Neuvedeno"

// Event represents a single Karol a Kvído performance.
//
// Events are constructed once by the scraper and treated as immutable
// values afterwards. DetailURL is the natural identifier: two candidates
// sharing a DetailURL describe the same performance.
type Event struct {
	Title           string    `json:"title"`
	StartsAt        time.Time `json:"starts_at"`
	Location        string    `json:"location"`
	DetailURL       string    `json:"detail_url"`
	InformationText string    `json:"information_text"`
	City            string    `json:"city,omitempty"`
}

// Dedupe collapses events sharing a DetailURL, keeping the fields of the
// last occurrence. The relative order of the surviving events follows the
// position of each URL's first occurrence.
func Dedupe(events []Event) []Event {
	index := make(map[string]int, len(events))
	unique := make([]Event, 0, len(events))
	for _, evt := range events {
		if i, seen := index[evt.DetailURL]; seen {
			unique[i] = evt
			continue
		}
		index[evt.DetailURL] = len(unique)
		unique = append(unique, evt)
	}
	return unique
}

// SortByStart orders events ascending by their start time, in place.
func SortByStart(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
}
