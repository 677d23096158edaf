// Package extract holds the per-field extractors that read parsed markup
// and produce candidate values for the normalized record. Every extractor
// degrades to a zero value when nothing usable is found; absence is always
// preferable to fabrication.
package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

const (
	maxBodyLength = 5000
	maxImages     = 20
	maxFAQItems   = 10
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	contentAreaRe = regexp.MustCompile(`(?i)content|post|entry|article`)
	breadcrumbRe  = regexp.MustCompile(`(?i)breadcrumb`)
)

// Title returns the page title: og:title, then <title>, then the first H1.
func Title(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return "Untitled Page"
}

// Description returns the meta description, falling back to og:description.
func Description(doc *goquery.Document) string {
	if d, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	if d, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(d)
	}
	return ""
}

// Body extracts the main text content, capped at 5000 characters. It works
// on a detached clone so chrome removal does not disturb other extractors.
// When selector-based extraction finds nothing it falls back to readability
// over the raw HTML.
func Body(doc *goquery.Document, rawHTML string, pageURL *url.URL) string {
	clone := goquery.CloneDocument(doc)
	clone.Find("script, style, nav, header, footer, aside").Remove()

	var text string
	main := clone.Find("main").First()
	if main.Length() == 0 {
		main = clone.Find("article").First()
	}
	if main.Length() == 0 {
		clone.Find("div, section").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if cls, ok := s.Attr("class"); ok && contentAreaRe.MatchString(cls) {
				main = s
				return false
			}
			return true
		})
	}

	if main != nil && main.Length() > 0 {
		text = main.Text()
	} else {
		text = clone.Find("body").Text()
	}

	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")

	if text == "" && rawHTML != "" && pageURL != nil {
		parser := readability.NewParser()
		article, err := parser.Parse(strings.NewReader(rawHTML), pageURL)
		if err == nil {
			text = whitespaceRe.ReplaceAllString(strings.TrimSpace(article.TextContent), " ")
		}
	}

	if len(text) > maxBodyLength {
		text = text[:maxBodyLength]
	}
	return text
}

// Headings collects all H1-H6 headings in document order per level.
func Headings(doc *goquery.Document) []models.HeadingData {
	var headings []models.HeadingData
	for level := 1; level <= 6; level++ {
		doc.Find("h" + strconv.Itoa(level)).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				headings = append(headings, models.HeadingData{Level: level, Text: text})
			}
		})
	}
	return headings
}

// Images collects up to 20 images with src resolved against the base URL.
func Images(doc *goquery.Document, base *url.URL) []models.ImageData {
	var images []models.ImageData
	doc.Find("img").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			src, _ = s.Attr("data-src")
		}
		if src == "" {
			return true
		}
		images = append(images, models.ImageData{
			Src:    resolveURL(base, src),
			Alt:    s.AttrOr("alt", ""),
			Width:  parseInt(s.AttrOr("width", "")),
			Height: parseInt(s.AttrOr("height", "")),
		})
		return len(images) < maxImages
	})
	return images
}

// FAQ extracts up to 10 question/answer pairs. FAQPage structured data wins;
// dl/dt/dd pairs and question-style headings followed by a paragraph are the
// markup fallbacks.
func FAQ(doc *goquery.Document, graph jsongraph.Graph) []models.FAQItem {
	var faqs []models.FAQItem

	for _, page := range graph.Nodes("FAQPage") {
		entities, _ := page["mainEntity"].([]any)
		for _, e := range entities {
			q, ok := e.(map[string]any)
			if !ok || q["@type"] != "Question" {
				continue
			}
			question, _ := q["name"].(string)
			var answer string
			if accepted, ok := q["acceptedAnswer"].(map[string]any); ok {
				answer, _ = accepted["text"].(string)
			}
			if question != "" && answer != "" {
				faqs = append(faqs, models.FAQItem{Question: question, Answer: answer})
			}
		}
		if len(faqs) > 0 {
			return capFAQ(faqs)
		}
	}

	doc.Find("dl").Each(func(i int, dl *goquery.Selection) {
		dts := dl.Find("dt")
		dds := dl.Find("dd")
		n := dts.Length()
		if dds.Length() < n {
			n = dds.Length()
		}
		for j := 0; j < n; j++ {
			q := strings.TrimSpace(dts.Eq(j).Text())
			a := strings.TrimSpace(dds.Eq(j).Text())
			if q != "" && a != "" {
				faqs = append(faqs, models.FAQItem{Question: q, Answer: a})
			}
		}
	})

	doc.Find("h2, h3, h4").Each(func(i int, h *goquery.Selection) {
		text := strings.TrimSpace(h.Text())
		if !strings.HasSuffix(text, "?") {
			return
		}
		next := h.NextFiltered("p")
		answer := strings.TrimSpace(next.Text())
		if answer != "" {
			faqs = append(faqs, models.FAQItem{Question: text, Answer: answer})
		}
	})

	return capFAQ(faqs)
}

func capFAQ(faqs []models.FAQItem) []models.FAQItem {
	if len(faqs) > maxFAQItems {
		return faqs[:maxFAQItems]
	}
	return faqs
}

// Breadcrumbs reads BreadcrumbList nodes from the unified graph first and
// falls back to breadcrumb navigation markup.
func Breadcrumbs(doc *goquery.Document, base *url.URL, graph jsongraph.Graph, logger *slog.Logger) []models.BreadcrumbItem {
	for _, node := range graph.Nodes("BreadcrumbList") {
		if items := parseBreadcrumbList(node); len(items) > 0 {
			logger.Debug("breadcrumbs extracted", "source", "structured_graph", "count", len(items))
			return items
		}
	}

	nav := doc.Find(`[aria-label]`).FilterFunction(func(i int, s *goquery.Selection) bool {
		return breadcrumbRe.MatchString(s.AttrOr("aria-label", ""))
	}).First()
	if nav.Length() == 0 {
		nav = doc.Find(`[class]`).FilterFunction(func(i int, s *goquery.Selection) bool {
			return breadcrumbRe.MatchString(s.AttrOr("class", ""))
		}).First()
	}

	var items []models.BreadcrumbItem
	if nav.Length() > 0 {
		position := 1
		nav.Find("a").Each(func(i int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			if name == "" {
				return
			}
			item := models.BreadcrumbItem{Name: name, Position: position}
			if href, ok := a.Attr("href"); ok && href != "" {
				item.URL = resolveURL(base, href)
			}
			items = append(items, item)
			position++
		})
		if len(items) > 0 {
			logger.Debug("breadcrumbs extracted", "source", "dom_fallback", "count", len(items))
		}
	}
	return items
}

// parseBreadcrumbList flattens one BreadcrumbList node into items.
func parseBreadcrumbList(node jsongraph.Node) []models.BreadcrumbItem {
	elements, _ := node["itemListElement"].([]any)
	var items []models.BreadcrumbItem
	for _, e := range elements {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		item := models.BreadcrumbItem{Name: name, Position: len(items) + 1}
		if p, ok := entry["position"].(float64); ok {
			item.Position = int(p)
		}
		switch target := entry["item"].(type) {
		case string:
			item.URL = target
		case map[string]any:
			if id, ok := target["@id"].(string); ok {
				item.URL = id
			} else if u, ok := target["url"].(string); ok {
				item.URL = u
			}
		}
		items = append(items, item)
	}
	return items
}

// Organization returns the site name from og:site_name.
func Organization(doc *goquery.Document) string {
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		return strings.TrimSpace(name)
	}
	return ""
}

// OGImage returns the page's social preview image: og:image, then
// twitter:image. This is the article hero image, never reused as a logo.
func OGImage(doc *goquery.Document, base *url.URL) string {
	if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && img != "" {
		return resolveURL(base, img)
	}
	if img, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && img != "" {
		return resolveURL(base, img)
	}
	return ""
}

// resolveURL makes ref absolute against base. Already-absolute refs pass
// through untouched.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
