package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/honzajavorek/karolakvido/internal/event"
	"github.com/honzajavorek/karolakvido/internal/logger"
)

const siteDomain = "karolakvido.cz"

// dayHeadingRe matches the leading day number of a day heading and an
// optional month label after it, e.g. "14.", "14. úno", "22. února".
var dayHeadingRe = regexp.MustCompile(`^(\d{1,2})\.?(?:\s+(\p{L}+)\.?)?`)

// Candidate is an event link found on the calendar index, to be completed
// by fetching and parsing its detail page.
type Candidate struct {
	Title     string
	DetailURL string
	City      string
}

// isEventURL accepts only links into the site's two known event path
// shapes; navigation and external links fall through silently.
func isEventURL(full string) bool {
	if !strings.Contains(full, siteDomain) {
		return false
	}
	return strings.Contains(full, "/akce_karol_a_kvido/") || strings.Contains(full, "karol-a-kvido-slavi")
}

// ParseListing extracts complete event records from the current calendar
// markup, where headings carry the date context in document order: h2
// introduces month and year, h3 a city, h4 a day (optionally overriding
// the month with an abbreviated label). Event links sit inside the day
// heading; the text between that heading and the next one holds the
// venue and an H:MM time.
//
// Candidates with no resolved year/month/day context are skipped with a
// warning, never defaulted. A missing time defaults to 00:00 with a
// warning. The result is deduplicated (last wins) and sorted by start.
func (s *Scraper) ParseListing(htmlText, baseURL string) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	var events []event.Event

	var year int
	var month time.Month
	var monthKnown bool
	var city string

	doc.Find("h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		text := normalizeWhitespace(sel.Text())

		switch goquery.NodeName(sel) {
		case "h2":
			year, month, monthKnown = parseMonthYearHeading(text)
			if !monthKnown {
				logger.Debug("heading does not introduce a month", logger.Fields{"text": text})
			}
		case "h3":
			city = text
		case "h4":
			events = append(events, s.parseDayHeading(sel, base, text, year, month, monthKnown, city)...)
		}
	})

	events = event.Dedupe(events)
	event.SortByStart(events)

	logger.Info("parsed calendar listing", logger.Fields{
		"url":    baseURL,
		"events": len(events),
	})
	return events, nil
}

// parseDayHeading turns the event links inside one day heading into
// events, sharing the day's time and venue text.
func (s *Scraper) parseDayHeading(sel *goquery.Selection, base *url.URL, text string, year int, month time.Month, monthKnown bool, city string) []event.Event {
	day := 0
	if m := dayHeadingRe.FindStringSubmatch(text); m != nil {
		day, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			if override, ok := monthByAbbrev(m[2]); ok {
				month = override
				monthKnown = true
			}
		}
	}

	var events []event.Event
	sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		full := resolved.String()
		if !isEventURL(full) {
			return
		}
		title := normalizeWhitespace(link.Text())
		if title == "" {
			return
		}

		if year == 0 || !monthKnown || day == 0 {
			logger.Warn("skipping candidate with incomplete date context", logger.Fields{
				"title": title,
				"url":   full,
			})
			logger.IncrCounter("events.skipped")
			return
		}

		following := strings.Join(flattenSiblings(sel.Get(0), listingHeadings), " ")
		hour, minute, location := parseTimeAndLocation(following)
		if hour < 0 {
			logger.Warn("no time found for event, assuming midnight", logger.Fields{
				"title": title,
				"url":   full,
			})
			hour, minute = 0, 0
		}

		if location == "" {
			location = city
		}
		if location == "" {
			location = event.LocationNotSpecified
		}

		startsAt, err := s.civilTime(year, month, day, hour, minute)
		if err != nil {
			logger.Warn("skipping candidate with impossible date", logger.Fields{
				"title": title,
				"url":   full,
				"error": err.Error(),
			})
			logger.IncrCounter("events.skipped")
			return
		}

		events = append(events, event.Event{
			Title:     title,
			StartsAt:  startsAt,
			Location:  location,
			DetailURL: full,
			City:      city,
		})
	})
	return events
}

// parseMonthYearHeading reads "Únor 2026" or "února 2026" style headings.
// Returns monthKnown=false when the text carries no month+year pair, which
// resets the context: better to skip events than to misdate them.
func parseMonthYearHeading(text string) (int, time.Month, bool) {
	var month time.Month
	var monthFound bool
	for _, word := range strings.Fields(text) {
		if m, ok := monthByName(word); ok {
			month = m
			monthFound = true
			break
		}
	}

	yearMatch := yearRe.FindStringSubmatch(text)
	if !monthFound || yearMatch == nil {
		return 0, 0, false
	}

	year, _ := strconv.Atoi(yearMatch[1])
	return year, month, true
}

// parseTimeAndLocation finds the first H:MM in the text following a day
// heading; the text before it is the venue. Returns hour -1 when no time
// pattern is present (the whole text is then the venue).
func parseTimeAndLocation(text string) (hour, minute int, location string) {
	m := timeRe.FindStringSubmatchIndex(text)
	if m == nil {
		return -1, 0, trimLocation(text)
	}

	hour, _ = strconv.Atoi(text[m[2]:m[3]])
	minute, _ = strconv.Atoi(text[m[4]:m[5]])
	if hour > 23 || minute > 59 {
		return -1, 0, trimLocation(text)
	}
	return hour, minute, trimLocation(text[:m[0]])
}

func trimLocation(text string) string {
	return strings.Trim(strings.TrimSpace(text), ",;–-— ")
}

// ParseEventLinks extracts candidate links from the older calendar markup,
// where h3 headings carry the city and h5 headings hold the event links.
// Candidates are deduplicated by URL, last occurrence winning.
func (s *Scraper) ParseEventLinks(htmlText, baseURL string) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing listing HTML: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	var candidates []Candidate
	var city string

	doc.Find("h3, h5").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "h3" {
			city = normalizeWhitespace(sel.Text())
			return
		}

		sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href := strings.TrimSpace(link.AttrOr("href", ""))
			if href == "" {
				return
			}
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			full := resolved.String()
			if !isEventURL(full) {
				return
			}
			title := normalizeWhitespace(link.Text())
			if title == "" {
				return
			}
			candidates = append(candidates, Candidate{Title: title, DetailURL: full, City: city})
		})
	})

	deduped := dedupeCandidates(candidates)
	logger.Info("parsed event links", logger.Fields{
		"url":        baseURL,
		"candidates": len(candidates),
		"unique":     len(deduped),
	})
	return deduped, nil
}

func dedupeCandidates(candidates []Candidate) []Candidate {
	index := make(map[string]int, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if i, seen := index[c.DetailURL]; seen {
			unique[i] = c
			continue
		}
		index[c.DetailURL] = len(unique)
		unique = append(unique, c)
	}
	return unique
}
