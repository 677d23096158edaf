// Package classify assigns one content-type label per page through a
// deterministic, ordered, first-match-wins cascade. Later rules are
// unreachable once an earlier one fires.
package classify

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

const (
	articleSignalThreshold = 2
	faqThreshold           = 3
	longFormWordCount      = 300
)

var (
	priceTextRe   = regexp.MustCompile(`[\$€£¥]\s*\d`)
	priceClassRe  = regexp.MustCompile(`(?i)price`)
	addToCartRe   = regexp.MustCompile(`(?i)add to (cart|bag|basket)`)
	checkoutRe    = regexp.MustCompile(`(?i)(buy now|checkout|purchase)`)
	variantNameRe = regexp.MustCompile(`(?i)variant|size|color`)
	bylineClassRe = regexp.MustCompile(`(?i)^(author|byline)$`)
	blogSegmentRe = regexp.MustCompile(`/blog|/post`)
)

var commerceURLSegments = []string{"/product", "/products", "/shop/", "/cart", "/checkout"}

var articleURLSegments = []string{
	"/blog/", "/news/", "/article/", "/articles/", "/post/", "/posts/",
	"/technology/", "/science/", "/opinion/", "/features/", "/story/",
}

// Input carries everything the cascade needs, collected by the pipeline.
type Input struct {
	URL       string
	Doc       *goquery.Document
	Graph     jsongraph.Graph
	Headings  []models.HeadingData
	FAQ       []models.FAQItem
	WordCount int
}

// Detect runs the cascade and returns the label plus the article signals
// that informed it. PRODUCT is absolute: once any commerce signal fires,
// collected article signals are discarded.
func Detect(in Input, logger *slog.Logger) (models.ContentType, []string) {
	urlLower := strings.ToLower(in.URL)

	commerce := commerceSignals(in.Doc, in.Graph, urlLower)
	article := articleSignals(in.Doc, in.Headings, urlLower, in.WordCount)

	// Priority 1: Product, never overridden.
	if len(commerce) > 0 {
		logDecision(logger, "product", "commerce_signals", nil, commerce)
		return models.ContentProduct, nil
	}

	// Priority 2: authoritative structured-data type declaration.
	if ct, signal, ok := declaredType(in.Graph); ok {
		logDecision(logger, string(ct), "structured_graph_authoritative", []string{signal}, nil)
		return ct, []string{signal}
	}

	// Priority 3: signal-count threshold for editorial content.
	if len(article) >= articleSignalThreshold {
		if blogSegmentRe.MatchString(urlLower) {
			logDecision(logger, "blog_post", "signal_based", article, nil)
			return models.ContentBlogPost, article
		}
		logDecision(logger, "article", "signal_based", article, nil)
		return models.ContentArticle, article
	}

	// Priority 4: weak URL heuristics.
	switch {
	case strings.Contains(urlLower, "/service"):
		logDecision(logger, "service", "url_segment_weak", nil, nil)
		return models.ContentService, nil
	case strings.Contains(urlLower, "/about"):
		return models.ContentAbout, nil
	case strings.Contains(urlLower, "/contact"):
		return models.ContentContact, nil
	case strings.Contains(urlLower, "/faq"):
		return models.ContentFAQ, nil
	}

	// Priority 5: structured FAQ threshold.
	if len(in.FAQ) >= faqThreshold {
		return models.ContentFAQ, nil
	}

	// Priority 6: homepage.
	if parsed, err := url.Parse(in.URL); err == nil {
		switch parsed.Path {
		case "", "/", "/index.html", "/index.php":
			return models.ContentHome, nil
		}
	}

	// Fallback: one signal is insufficient for Article; carry the partial
	// signal set forward for diagnostics.
	if len(article) == 1 {
		logDecision(logger, "unknown", "single_signal_insufficient", article, nil)
	} else {
		logDecision(logger, "unknown", "no_signals", article, nil)
	}
	return models.ContentUnknown, article
}

// commerceSignals collects the evidence that a page sells something. Any
// one of them blocks every other classification.
func commerceSignals(doc *goquery.Document, graph jsongraph.Graph, urlLower string) []string {
	var signals []string

	for typeName := range graph {
		if strings.Contains(strings.ToLower(typeName), "product") {
			signals = append(signals, "product_node")
			break
		}
	}

	priceVisible := false
	doc.Find("[class]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if priceClassRe.MatchString(s.AttrOr("class", "")) && priceTextRe.MatchString(s.Text()) {
			priceVisible = true
			return false
		}
		return true
	})
	if priceVisible {
		signals = append(signals, "price_visible")
	}

	bodyText := doc.Find("body").Text()
	if addToCartRe.MatchString(bodyText) {
		signals = append(signals, "add_to_cart")
	}
	if doc.Find("[name]").FilterFunction(func(i int, s *goquery.Selection) bool {
		return variantNameRe.MatchString(s.AttrOr("name", ""))
	}).Length() > 0 {
		signals = append(signals, "variant_selector")
	}
	if checkoutRe.MatchString(bodyText) {
		signals = append(signals, "checkout_cta")
	}

	for _, segment := range commerceURLSegments {
		if strings.Contains(urlLower, segment) {
			signals = append(signals, "commerce_url")
			break
		}
	}

	return signals
}

// articleSignals collects independent evidence of editorial content.
func articleSignals(doc *goquery.Document, headings []models.HeadingData, urlLower string, wordCount int) []string {
	var signals []string

	if doc.Find("article").Length() > 0 {
		signals = append(signals, "article_element")
	}
	if doc.Find(`meta[property="article:published_time"]`).Length() > 0 {
		signals = append(signals, "published_time")
	}
	if doc.Find(`meta[property="article:modified_time"]`).Length() > 0 {
		signals = append(signals, "modified_time")
	}
	if doc.Find(`meta[property="article:author"]`).Length() > 0 {
		signals = append(signals, "article_author_meta")
	}

	hasAuthor := doc.Find(`meta[name="author"]`).Length() > 0 ||
		doc.Find(`[rel="author"]`).Length() > 0
	if !hasAuthor {
		doc.Find("[class]").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if bylineClassRe.MatchString(s.AttrOr("class", "")) {
				hasAuthor = true
				return false
			}
			return true
		})
	}
	if hasAuthor {
		signals = append(signals, "author")
	}

	if doc.Find("time[datetime]").Length() > 0 {
		signals = append(signals, "time_element")
	}

	for _, segment := range articleURLSegments {
		if strings.Contains(urlLower, segment) {
			signals = append(signals, "url_segment")
			break
		}
	}

	if wordCount >= longFormWordCount {
		signals = append(signals, "long_form_content")
	}

	h1Count := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
		}
	}
	if h1Count == 1 {
		signals = append(signals, "single_h1")
	}

	return signals
}

// declaredType trusts an authoritative non-Product type from the graph.
func declaredType(graph jsongraph.Graph) (models.ContentType, string, bool) {
	checks := []struct {
		typeName string
		content  models.ContentType
	}{
		{"BlogPosting", models.ContentBlogPost},
		{"NewsArticle", models.ContentArticle},
		{"Article", models.ContentArticle},
		{"Service", models.ContentService},
		{"FAQPage", models.ContentFAQ},
	}
	for _, check := range checks {
		if graph.HasType(check.typeName) {
			return check.content, "graph:" + check.typeName, true
		}
	}
	return models.ContentUnknown, "", false
}

func logDecision(logger *slog.Logger, result, reason string, signals, blockedBy []string) {
	logger.Debug("content type decided",
		"result", result,
		"reason", reason,
		"signals_used", signals,
		"signals_blocking", blockedBy,
		"signal_count", len(signals))
}
