package scraper

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// monthNames maps diacritics-stripped Czech month names to months.
// The site mixes genitive forms ("14. února") with nominative headings
// ("Únor 2026"), so both are listed.
var monthNames = map[string]time.Month{
	// genitive
	"ledna":     time.January,
	"unora":     time.February,
	"brezna":    time.March,
	"dubna":     time.April,
	"kvetna":    time.May,
	"cervna":    time.June,
	"cervence":  time.July,
	"srpna":     time.August,
	"zari":      time.September,
	"rijna":     time.October,
	"listopadu": time.November,
	"prosince":  time.December,
	// nominative
	"leden":    time.January,
	"unor":     time.February,
	"brezen":   time.March,
	"duben":    time.April,
	"kveten":   time.May,
	"cerven":   time.June,
	"cervenec": time.July,
	"srpen":    time.August,
	"rijen":    time.October,
	"listopad": time.November,
	"prosinec": time.December,
}

// monthAbbrevs maps three-letter day-heading labels ("14. úno") to months.
var monthAbbrevs = map[string]time.Month{
	"led": time.January,
	"uno": time.February,
	"bre": time.March,
	"dub": time.April,
	"kve": time.May,
	"cvn": time.June,
	"cvc": time.July,
	"srp": time.August,
	"zar": time.September,
	"rij": time.October,
	"lis": time.November,
	"pro": time.December,
}

var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics removes combining marks, so "února" becomes "unora".
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		return s
	}
	return out
}

func monthKey(word string) string {
	return strings.ToLower(stripDiacritics(strings.TrimSpace(word)))
}

// monthByName resolves a full Czech month name, diacritics-insensitively.
func monthByName(word string) (time.Month, bool) {
	m, ok := monthNames[monthKey(word)]
	return m, ok
}

// monthByAbbrev resolves an abbreviated month label, falling back to full
// names so "14. února" day headings also work.
func monthByAbbrev(word string) (time.Month, bool) {
	key := strings.TrimSuffix(monthKey(word), ".")
	if m, ok := monthAbbrevs[key]; ok {
		return m, true
	}
	m, ok := monthNames[key]
	return m, ok
}
