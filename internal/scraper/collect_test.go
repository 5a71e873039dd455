package scraper

import (
	"testing"
	"time"

	"github.com/honzajavorek/karolakvido/internal/fetch"
)

// stubFetcher serves canned pages and records every requested URL.
type stubFetcher struct {
	pages    map[string]string
	failWith map[string]error
	requests []string
}

func (f *stubFetcher) FetchText(url string) (string, error) {
	f.requests = append(f.requests, url)
	if err, ok := f.failWith[url]; ok {
		return "", err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", &fetch.FetchError{URL: url, StatusCode: 404, Kind: fetch.KindClient}
	}
	return page, nil
}

func newCollectScraper(t *testing.T, fetcher Fetcher) *Scraper {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return New(fetcher, loc)
}

func TestCollectEventsRichListingSkipsDetailFetches(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		fixtureBaseURL: loadFixture(t, "calendar_listing.html"),
	}}

	s := newCollectScraper(t, fetcher)
	events, err := s.CollectEvents(fixtureBaseURL)
	if err != nil {
		t.Fatalf("CollectEvents failed: %v", err)
	}

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if len(fetcher.requests) != 1 {
		t.Errorf("rich listing needs only the index fetch, got %d requests", len(fetcher.requests))
	}
}

func TestCollectEventsDetailMode(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		fixtureBaseURL: loadFixture(t, "calendar_links.html"),
		"https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/":      loadFixture(t, "detail_praha.html"),
		"https://karolakvido.cz/akce_karol_a_kvido/dobrodruzstvi-zacina/": loadFixture(t, "detail_litvinov.html"),
	}}

	s := newCollectScraper(t, fetcher)
	events, err := s.CollectEvents(fixtureBaseURL)
	if err != nil {
		t.Fatalf("CollectEvents failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Index + one detail per unique candidate.
	if len(fetcher.requests) != 3 {
		t.Errorf("expected 3 requests, got %d: %v", len(fetcher.requests), fetcher.requests)
	}

	if got := events[0].StartsAt.Format("2006-01-02 15:04"); got != "2026-02-14 10:00" {
		t.Errorf("unexpected first start: %s", got)
	}
	if got := events[1].StartsAt.Format("2006-01-02 15:04"); got != "2026-02-22 16:00" {
		t.Errorf("unexpected second start: %s", got)
	}
	if events[1].Location != "Litvínov" {
		t.Errorf("expected city fallback location, got %q", events[1].Location)
	}
}

func TestCollectEventsSkipsUnreachableDetail(t *testing.T) {
	brokenURL := "https://karolakvido.cz/akce_karol_a_kvido/dobrodruzstvi-zacina/"
	fetcher := &stubFetcher{
		pages: map[string]string{
			fixtureBaseURL: loadFixture(t, "calendar_links.html"),
			"https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/": loadFixture(t, "detail_praha.html"),
		},
		failWith: map[string]error{
			brokenURL: &fetch.FetchError{URL: brokenURL, StatusCode: 500, Kind: fetch.KindServer},
		},
	}

	s := newCollectScraper(t, fetcher)
	events, err := s.CollectEvents(fixtureBaseURL)
	if err != nil {
		t.Fatalf("CollectEvents should survive a single broken detail page: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected exactly the one resolvable event, got %d", len(events))
	}
	if events[0].Title != "Pirátský poklad – Praha" {
		t.Errorf("unexpected surviving event: %q", events[0].Title)
	}
}

func TestCollectEventsIndexFailureIsFatal(t *testing.T) {
	fetcher := &stubFetcher{
		failWith: map[string]error{
			fixtureBaseURL: &fetch.FetchError{URL: fixtureBaseURL, StatusCode: 503, Kind: fetch.KindServer},
		},
	}

	s := newCollectScraper(t, fetcher)
	if _, err := s.CollectEvents(fixtureBaseURL); err == nil {
		t.Fatal("expected an error when the index page cannot be fetched")
	}
}

func TestCollectEventsUnparsableDetailSkipped(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		fixtureBaseURL: loadFixture(t, "calendar_links.html"),
		"https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/":      loadFixture(t, "detail_praha.html"),
		"https://karolakvido.cz/akce_karol_a_kvido/dobrodruzstvi-zacina/": "<html><body><p>Bez data.</p></body></html>",
	}}

	s := newCollectScraper(t, fetcher)
	events, err := s.CollectEvents(fixtureBaseURL)
	if err != nil {
		t.Fatalf("CollectEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the undatable event to be dropped, got %d events", len(events))
	}
}
