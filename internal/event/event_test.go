package event

import (
	"testing"
	"time"
)

func TestDedupeLastOccurrenceWins(t *testing.T) {
	events := []Event{
		{Title: "Pirátský poklad", DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/", City: "Praha"},
		{Title: "Dobrodružství začíná", DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/dobrodruzstvi-zacina/"},
		{Title: "Pirátský poklad (aktualizováno)", DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/", City: "Brno"},
	}

	unique := Dedupe(events)

	if len(unique) != 2 {
		t.Fatalf("expected 2 events after dedupe, got %d", len(unique))
	}
	if unique[0].Title != "Pirátský poklad (aktualizováno)" {
		t.Errorf("expected the later candidate to win, got title %q", unique[0].Title)
	}
	if unique[0].City != "Brno" {
		t.Errorf("expected the later candidate's city, got %q", unique[0].City)
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d events", len(got))
	}
}

func TestSortByStart(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	events := []Event{
		{Title: "later", StartsAt: time.Date(2026, 3, 1, 16, 0, 0, 0, prague)},
		{Title: "earlier", StartsAt: time.Date(2026, 2, 14, 10, 0, 0, 0, prague)},
		{Title: "middle", StartsAt: time.Date(2026, 2, 22, 16, 0, 0, 0, prague)},
	}

	SortByStart(events)

	for i := 1; i < len(events); i++ {
		if events[i].StartsAt.Before(events[i-1].StartsAt) {
			t.Errorf("events out of order at index %d: %s after %s", i, events[i-1].Title, events[i].Title)
		}
	}
	if events[0].Title != "earlier" {
		t.Errorf("expected 'earlier' first, got %q", events[0].Title)
	}
}
