// Package scraper parses karolakvido.cz calendar pages into event
// records.
//
// The site's markup has changed over time. The current listing carries
// complete events under a hierarchy of headings (month+year, city, day);
// the older listing only links to per-event detail pages with "Kdy",
// "Kde" and "Informace" sections, which are fetched one at a time and
// resolved through a cascade of date heuristics. Czech month names are
// matched diacritics-insensitively in both genitive and nominative forms.
package scraper
