package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

// Exact-match whitelist of author CSS class names. Anything looser pulls in
// bylines with dates, share chrome, and bios.
var authorClasses = []string{
	"author-name", "post-author-name", "byline-name",
	"article-author-name", "entry-author-name", "author__name",
}

var (
	byPrefixRe   = regexp.MustCompile(`(?i)^by\s+`)
	urlRe        = regexp.MustCompile(`(?i)https?://`)
	dateDigitsRe = regexp.MustCompile(`\b\d{4}\b|\b\d{1,2}/\d{1,2}\b`)
	punctRe      = regexp.MustCompile(`[.,;:!?(){}\[\]|·]`)
	allDigitsRe  = regexp.MustCompile(`^[\d\s]+$`)
	// Whole words only, so "jan" rejects "Jan 5" but not "Jane Doe".
	monthRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\b`)
)

var authorVerbs = []string{
	"written", "posted", "published", "updated", "edited", "reviewed", "contributed",
}

var authorUIJunk = []string{
	"share", "follow", "subscribe", "comment", "read more",
	"click", "twitter", "facebook", "linkedin", "instagram",
	"min read", "comments", "likes", "views",
}

// Author extracts the author name in strict priority order: structured-graph
// author field, then semantic markup, then author-index page links. Every
// candidate passes the sanitizer; a missing author is an acceptable terminal
// state, an incorrect one is not.
func Author(doc *goquery.Document, graph jsongraph.Graph, logger *slog.Logger) string {
	// Priority 1: structured-graph author (including container-nested forms)
	for _, t := range []string{"Article", "BlogPosting", "NewsArticle", "Product", "WebPage"} {
		for _, node := range graph.Nodes(t) {
			if raw := graphAuthor(node); raw != "" {
				if clean := SanitizeAuthor(raw); clean != "" {
					logger.Debug("author extracted", "source", "structured_graph", "author", clean)
					return clean
				}
			}
		}
	}

	// Priority 2a: <meta name="author">
	if content, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		if clean := SanitizeAuthor(content); clean != "" {
			logger.Debug("author extracted", "source", "meta_name_author", "author", clean)
			return clean
		}
	}

	// Priority 2b: [itemprop="author"], preferring a nested itemprop="name"
	if sel := doc.Find(`[itemprop="author"]`).First(); sel.Length() > 0 {
		text := sel.Find(`[itemprop="name"]`).First().Text()
		if strings.TrimSpace(text) == "" {
			text = sel.Text()
		}
		if clean := SanitizeAuthor(text); clean != "" {
			logger.Debug("author extracted", "source", "itemprop_author", "author", clean)
			return clean
		}
	}

	// Priority 2c: [rel="author"]
	if sel := doc.Find(`[rel="author"]`).First(); sel.Length() > 0 {
		if clean := SanitizeAuthor(sel.Text()); clean != "" {
			logger.Debug("author extracted", "source", "rel_author", "author", clean)
			return clean
		}
	}

	// Priority 2d: <address>, preferring a contained link
	if addr := doc.Find("address").First(); addr.Length() > 0 {
		text := addr.Find("a").First().Text()
		if strings.TrimSpace(text) == "" {
			text = addr.Text()
		}
		if clean := SanitizeAuthor(text); clean != "" {
			logger.Debug("author extracted", "source", "address_element", "author", clean)
			return clean
		}
	}

	// Priority 2e: exact author class names
	for _, cls := range authorClasses {
		if sel := doc.Find("." + cls).First(); sel.Length() > 0 {
			if clean := SanitizeAuthor(sel.Text()); clean != "" {
				logger.Debug("author extracted", "source", "class_"+cls, "author", clean)
				return clean
			}
		}
	}

	// Priority 3: links to author-index pages
	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, "/author/") && !strings.Contains(href, "/writers/") {
			return true
		}
		if clean := SanitizeAuthor(a.Text()); clean != "" {
			found = clean
			return false
		}
		return true
	})
	if found != "" {
		logger.Debug("author extracted", "source", "author_page_link", "author", found)
		return found
	}

	logger.Debug("author omitted", "reason", "no_valid_author_signal")
	return ""
}

// graphAuthor pulls the author name out of a node's author field, which may
// be a string, an object with a name, or an array of either.
func graphAuthor(node jsongraph.Node) string {
	switch author := node["author"].(type) {
	case string:
		return strings.TrimSpace(author)
	case map[string]any:
		if name, ok := author["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	case []any:
		if len(author) == 0 {
			return ""
		}
		switch first := author[0].(type) {
		case string:
			return strings.TrimSpace(first)
		case map[string]any:
			if name, ok := first["name"].(string); ok {
				return strings.TrimSpace(name)
			}
		}
	}
	return ""
}

// SanitizeAuthor validates a candidate author string. It rejects anything
// that looks like a sentence, a date, a URL, or UI chrome rather than a
// name. Returns the cleaned name, or "" when the candidate is rejected.
func SanitizeAuthor(raw string) string {
	if raw == "" {
		return ""
	}

	clean := byPrefixRe.ReplaceAllString(raw, "")
	clean = strings.TrimSpace(whitespaceRe.ReplaceAllString(clean, " "))

	if len(clean) > 80 || len(clean) < 2 {
		return ""
	}
	if urlRe.MatchString(clean) {
		return ""
	}
	if strings.Contains(clean, "@") && strings.Contains(clean, ".") {
		return ""
	}

	lower := strings.ToLower(clean)
	for _, verb := range authorVerbs {
		if strings.Contains(lower, verb) {
			return ""
		}
	}
	for _, junk := range authorUIJunk {
		if strings.Contains(lower, junk) {
			return ""
		}
	}
	if dateDigitsRe.MatchString(lower) {
		return ""
	}
	if monthRe.MatchString(lower) {
		return ""
	}
	if len(punctRe.FindAllString(clean, -1)) > 2 {
		return ""
	}
	// Multi-sentence text is a paragraph, not a name.
	if strings.Count(clean, ".") > 1 && len(clean) > 40 {
		return ""
	}
	if allDigitsRe.MatchString(clean) {
		return ""
	}

	return clean
}
