package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// The heading-anchored extraction strategies ("Kdy", "Kde", "Informace")
// all scan the region between a heading and the next heading of the same
// rank. Instead of walking the live tree in each strategy, the region is
// flattened once into an ordered slice of text entries and the strategies
// window over that.

// sectionHeadings terminate a detail-page section; listingHeadings
// additionally include the day level used by the calendar listing.
var (
	sectionHeadings = map[string]bool{"h2": true, "h3": true}
	listingHeadings = map[string]bool{"h2": true, "h3": true, "h4": true}
)

func isHeading(n *html.Node, stop map[string]bool) bool {
	return n.Type == html.ElementNode && stop[n.Data]
}

func isSkippedElement(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style")
}

// flattenSiblings collects one text entry per sibling following heading,
// stopping at the next heading in stop. Element siblings contribute their
// whole subtree text; loose text nodes contribute their own text. Used
// for the "Kdy" and "Kde" blocks and the listing's per-day text, whose
// content sits in sibling paragraphs.
func flattenSiblings(heading *html.Node, stop map[string]bool) []string {
	var out []string
	for n := heading.NextSibling; n != nil; n = n.NextSibling {
		if isHeading(n, stop) {
			break
		}
		if isSkippedElement(n) {
			continue
		}
		var text string
		switch n.Type {
		case html.ElementNode:
			text = nodeText(n)
		case html.TextNode:
			text = normalizeWhitespace(n.Data)
		}
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// flattenFollowing collects every text node after heading's subtree in
// document order, one entry each, stopping at the next h2/h3 anywhere in
// the document. Used for the "Informace" block, whose content is often
// nested inside wrapper elements and invisible to a sibling walk.
func flattenFollowing(heading *html.Node) []string {
	var out []string
	n := nextInDocument(heading, true)
	for n != nil {
		if isHeading(n, sectionHeadings) {
			break
		}
		skipChildren := isSkippedElement(n)
		if n.Type == html.TextNode {
			if text := normalizeWhitespace(n.Data); text != "" {
				out = append(out, text)
			}
		}
		n = nextInDocument(n, skipChildren)
	}
	return out
}

// nextInDocument returns the pre-order successor of n. With skipChildren
// set, n's subtree is stepped over instead of descended into.
func nextInDocument(n *html.Node, skipChildren bool) *html.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// nodeText returns the whitespace-normalized text of a subtree, joining
// text nodes with single spaces and skipping script/style content.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isSkippedElement(n) {
			return
		}
		if n.Type == html.TextNode {
			if text := normalizeWhitespace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
