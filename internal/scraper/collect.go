package scraper

import (
	"fmt"
	"time"

	"github.com/honzajavorek/karolakvido/internal/event"
	"github.com/honzajavorek/karolakvido/internal/logger"
)

// Fetcher downloads a page and returns its body. Satisfied by
// *fetch.Client; tests substitute a stub.
type Fetcher interface {
	FetchText(url string) (string, error)
}

// Scraper turns the site's calendar pages into event records. All
// timestamps are built in loc.
type Scraper struct {
	fetcher Fetcher
	loc     *time.Location
}

// New creates a scraper fetching through fetcher and resolving dates in
// the given timezone.
func New(fetcher Fetcher, loc *time.Location) *Scraper {
	if loc == nil {
		loc = time.UTC
	}
	return &Scraper{fetcher: fetcher, loc: loc}
}

// CollectEvents fetches the calendar index and returns the deduplicated,
// chronologically sorted events it describes.
//
// The current markup carries complete records in the listing itself; if
// that yields nothing, the older link-per-event markup is assumed and
// each detail page is fetched and parsed sequentially. A failure on the
// index page is fatal; a failure on a single detail page only skips that
// event, so a run completes with a partial result. Zero events is a
// valid outcome.
func (s *Scraper) CollectEvents(calendarURL string) ([]event.Event, error) {
	logger.Info("fetching calendar", logger.Fields{"url": calendarURL})
	htmlText, err := s.fetcher.FetchText(calendarURL)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar page: %w", err)
	}

	events, err := s.ParseListing(htmlText, calendarURL)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		for range events {
			logger.IncrCounter("events.collected")
		}
		return events, nil
	}

	candidates, err := s.ParseEventLinks(htmlText, calendarURL)
	if err != nil {
		return nil, err
	}
	logger.Info("processing event details", logger.Fields{"count": len(candidates)})

	collected := make([]event.Event, 0, len(candidates))
	for _, cand := range candidates {
		detailHTML, err := s.fetcher.FetchText(cand.DetailURL)
		if err != nil {
			logger.Warn("skipping event, detail fetch failed", logger.Fields{
				"title": cand.Title,
				"url":   cand.DetailURL,
				"error": err.Error(),
			})
			logger.IncrCounter("events.skipped")
			continue
		}

		evt, err := s.ParseDetail(detailHTML, cand.DetailURL, cand.Title, cand.City)
		if err != nil {
			logger.Warn("skipping event, detail parse failed", logger.Fields{
				"title": cand.Title,
				"url":   cand.DetailURL,
				"error": err.Error(),
			})
			logger.IncrCounter("events.skipped")
			continue
		}

		collected = append(collected, evt)
		logger.IncrCounter("events.collected")
	}

	collected = event.Dedupe(collected)
	event.SortByStart(collected)

	logger.Info("collection finished", logger.Fields{"events": len(collected)})
	return collected, nil
}
