// Package cli implements the command-line interface for karolakvido.
//
// The cli package provides the Cobra-based CLI for exporting the tour
// calendar: it loads configuration from the environment, lets flags
// override it, runs the collection, applies the optional region filter
// and writes the resulting iCalendar file.
package cli
