// Package event defines the domain model shared by the scraper, the
// region filter and the calendar writer: a single immutable Event value
// plus the deduplication and ordering rules applied to a collected run.
package event
