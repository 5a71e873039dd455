package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/honzajavorek/karolakvido/internal/event"
)

var (
	// "14. února 2026, v 15:00 hodin": day, month name, explicit year,
	// optional "v"/"ve", hour with optional minutes, optional "hodin".
	dateTimeRe = regexp.MustCompile(`(?i)(\d{1,2})\.\s*(\p{L}+)\s*(\d{4})\s*,?\s*(?:(?:v|ve)\s*)?(\d{1,2})(?::(\d{2}))?(?:\s*hodin)?`)

	// Same shape without the year; the year is borrowed from elsewhere
	// on the page.
	dateTimeNoYearRe = regexp.MustCompile(`(?i)(\d{1,2})\.\s*(\p{L}+)\s*,?\s*(?:(?:v|ve)\s*)?(\d{1,2})(?::(\d{2}))?(?:\s*hodin)?`)

	yearRe        = regexp.MustCompile(`\b(20\d{2})\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(20\d{2})\b`)
	timeRe        = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
)

// numericTimeWindow is how far past a numeric date a time pattern is
// still considered to belong to it.
const numericTimeWindow = 48

// ParseDetail extracts a complete event from a detail page. The title
// falls back to fallbackTitle when the page has no h1, and the location
// falls back through city to the "not specified" sentinel. A *ParseError
// is returned when no date/time can be resolved.
func (s *Scraper) ParseDetail(htmlText, detailURL, fallbackTitle, city string) (event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return event.Event{}, fmt.Errorf("parsing detail HTML: %w", err)
	}

	title := normalizeWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		title = fallbackTitle
	}

	startsAt, err := s.extractDateTime(doc)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.DetailURL = detailURL
		}
		return event.Event{}, err
	}

	return event.Event{
		Title:           title,
		StartsAt:        startsAt,
		Location:        s.extractLocation(doc, city),
		DetailURL:       detailURL,
		InformationText: s.extractInformation(doc),
		City:            city,
	}, nil
}

// extractDateTime resolves the event start via a cascade of strategies,
// first success wins:
//
//  1. text after a "Kdy" heading, date with explicit year
//  2. same text, date without year, year borrowed from the page
//  3. whole page, date with explicit year
//  4. whole page, numeric D.M.YYYY date, time from a nearby H:MM
func (s *Scraper) extractDateTime(doc *goquery.Document) (time.Time, error) {
	fullText := documentText(doc)

	for _, heading := range findHeadings(doc, "kdy") {
		searchText := strings.Join(flattenSiblings(heading, sectionHeadings), " ")
		if searchText == "" {
			continue
		}

		if t, ok := s.findDateTimeWithYear(searchText); ok {
			return t, nil
		}
		if t, ok := s.findDateTimeWithoutYear(searchText, fullText); ok {
			return t, nil
		}
	}

	if t, ok := s.findDateTimeWithYear(fullText); ok {
		return t, nil
	}
	if t, ok := s.findNumericDate(fullText); ok {
		return t, nil
	}

	return time.Time{}, &ParseError{Msg: "no date found"}
}

// findDateTimeWithYear scans for the full pattern. A match with an
// unrecognized month name or an impossible calendar date is skipped and
// scanning continues.
func (s *Scraper) findDateTimeWithYear(text string) (time.Time, bool) {
	for _, m := range dateTimeRe.FindAllStringSubmatch(text, -1) {
		t, err := s.buildDateTime(m[1], m[2], m[3], m[4], m[5])
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// findDateTimeWithoutYear scans for the yearless pattern, borrowing the
// year from the first 20xx token anywhere on the page.
func (s *Scraper) findDateTimeWithoutYear(text, fullText string) (time.Time, bool) {
	yearMatch := yearRe.FindStringSubmatch(fullText)
	if yearMatch == nil {
		return time.Time{}, false
	}

	for _, m := range dateTimeNoYearRe.FindAllStringSubmatch(text, -1) {
		t, err := s.buildDateTime(m[1], m[2], yearMatch[1], m[3], m[4])
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// findNumericDate scans the whole page for a D.M.YYYY date; the time, if
// any, comes from an H:MM within the following few dozen characters.
func (s *Scraper) findNumericDate(fullText string) (time.Time, bool) {
	for _, m := range numericDateRe.FindAllStringSubmatchIndex(fullText, -1) {
		day, _ := strconv.Atoi(fullText[m[2]:m[3]])
		month, _ := strconv.Atoi(fullText[m[4]:m[5]])
		year, _ := strconv.Atoi(fullText[m[6]:m[7]])

		hour, minute := 0, 0
		end := m[1] + numericTimeWindow
		if end > len(fullText) {
			end = len(fullText)
		}
		if tm := timeRe.FindStringSubmatch(fullText[m[1]:end]); tm != nil {
			hour, _ = strconv.Atoi(tm[1])
			minute, _ = strconv.Atoi(tm[2])
		}

		t, err := s.civilTime(year, time.Month(month), day, hour, minute)
		if err != nil {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

// buildDateTime assembles a timestamp from regex captures. The minute
// capture may be empty and defaults to 00.
func (s *Scraper) buildDateTime(dayStr, monthWord, yearStr, hourStr, minuteStr string) (time.Time, error) {
	month, ok := monthByName(monthWord)
	if !ok {
		return time.Time{}, &ParseError{Msg: fmt.Sprintf("unrecognized month name: %s", monthWord)}
	}

	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}

	return s.civilTime(year, month, day, hour, minute)
}

// civilTime builds a timestamp in the scraper's timezone, rejecting
// values time.Date would silently normalize (e.g. 31. února).
func (s *Scraper) civilTime(year int, month time.Month, day, hour, minute int) (time.Time, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, &ParseError{Msg: fmt.Sprintf("impossible date/time %d-%d-%d %d:%02d", year, month, day, hour, minute)}
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, s.loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, &ParseError{Msg: fmt.Sprintf("impossible calendar date %d. %d. %d", day, month, year)}
	}
	return t, nil
}

// extractLocation joins the texts after a "Kde" heading with ", ",
// falling back through the listing city to the sentinel.
func (s *Scraper) extractLocation(doc *goquery.Document, city string) string {
	if headings := findHeadings(doc, "kde"); len(headings) > 0 {
		parts := flattenSiblings(headings[0], sectionHeadings)
		location := strings.Trim(strings.Join(parts, ", "), ", ")
		if location != "" {
			return location
		}
	}

	if city != "" {
		return city
	}
	return event.LocationNotSpecified
}

// extractInformation gathers free text after an "Informace" heading.
// Content may be nested in wrapper elements, so the walk covers the whole
// following subtree, not just siblings. Section labels are skipped and a
// trailing "all events" footer terminates the block. An empty result is
// valid.
func (s *Scraper) extractInformation(doc *goquery.Document) string {
	headings := findHeadings(doc, "informace")
	if len(headings) == 0 {
		return ""
	}

	var chunks []string
	for _, text := range flattenFollowing(headings[0]) {
		label := strings.ToLower(strings.Trim(text, " :"))
		if label == "informace" || label == "vstupenky" {
			continue
		}
		if strings.Contains(strings.ToLower(text), "všechny akce karol a kvído") {
			break
		}
		chunks = append(chunks, text)
	}

	return strings.TrimSpace(strings.Join(chunks, "\n"))
}

// findHeadings returns the h2/h3 nodes whose text contains substr,
// case-insensitively, in document order.
func findHeadings(doc *goquery.Document, substr string) []*html.Node {
	var nodes []*html.Node
	doc.Find("h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if strings.Contains(strings.ToLower(sel.Text()), substr) {
			nodes = append(nodes, sel.Get(0))
		}
	})
	return nodes
}

// documentText returns the whole page as space-joined normalized text.
func documentText(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return ""
	}
	return nodeText(doc.Nodes[0])
}
