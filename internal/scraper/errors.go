package scraper

import "fmt"

// ParseError reports that a page could not be turned into an event,
// typically because no date/time could be resolved on a detail page.
type ParseError struct {
	DetailURL string
	Msg       string
}

func (e *ParseError) Error() string {
	if e.DetailURL != "" {
		return fmt.Sprintf("parsing %s: %s", e.DetailURL, e.Msg)
	}
	return e.Msg
}
