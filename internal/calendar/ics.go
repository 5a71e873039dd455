package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honzajavorek/karolakvido/internal/event"
)

const foldLimit = 75

// now is swapped out by tests for a deterministic DTSTAMP.
var now = time.Now

// Build renders the events as an iCalendar document suitable for
// subscription. Event start times are written as floating local times
// tagged with tzName via TZID, matching the timezone they were parsed
// in. An empty slice still yields a valid calendar envelope.
func Build(events []event.Event, tzName string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//karolakvido//calendar-export//CS",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-TIMEZONE:" + tzName,
	}

	dtstamp := now().UTC().Format("20060102T150405Z")

	for _, evt := range events {
		uid := fmt.Sprintf("%s@karolakvido", uuid.NewSHA1(uuid.NameSpaceURL, []byte(evt.DetailURL)))

		location := evt.Location
		if location == "" {
			location = event.LocationNotSpecified
		}
		description := strings.TrimSpace(strings.TrimSpace(evt.InformationText) + "\n\n" + evt.DetailURL)

		lines = append(lines,
			"BEGIN:VEVENT",
			foldLine("UID:"+uid),
			"DTSTAMP:"+dtstamp,
			fmt.Sprintf("DTSTART;TZID=%s:%s", tzName, evt.StartsAt.Format("20060102T150405")),
			foldLine("SUMMARY:"+escape(evt.Title)),
			foldLine("LOCATION:"+escape(location)),
			foldLine("DESCRIPTION:"+escape(description)),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

// WriteFile renders the events and writes the document to path.
func WriteFile(path string, events []event.Event, tzName string) error {
	if err := os.WriteFile(path, []byte(Build(events, tzName)), 0o644); err != nil {
		return fmt.Errorf("writing calendar file: %w", err)
	}
	return nil
}

// escape applies RFC 5545 text escaping.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// foldLine breaks a content line at 75 octets, continuing on the next
// line after a single space, per RFC 5545. Folds land on rune
// boundaries so multi-byte characters stay intact.
func foldLine(line string) string {
	if len(line) <= foldLimit {
		return line
	}

	var out strings.Builder
	budget := foldLimit
	width := 0
	for _, r := range line {
		size := len(string(r))
		if width+size > budget {
			out.WriteString("\r\n ")
			// Continuation lines lose one octet to the leading space.
			budget = foldLimit - 1
			width = 0
		}
		out.WriteRune(r)
		width += size
	}
	return out.String()
}
