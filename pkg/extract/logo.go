package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

var (
	logoClassRe      = regexp.MustCompile(`(?i)logo`)
	siteLogoClassRe  = regexp.MustCompile(`(?i)^(site-logo|brand-logo|company-logo)$`)
	appleTouchIconRe = regexp.MustCompile(`(?i)apple-touch-icon`)
)

// Logo extracts the organization logo in priority order: structured-graph
// publisher logo, header logo image, site-wide logo image, largest apple
// touch icon, favicon. SVG/ICO favicons are skipped as low quality. The
// article hero image is never reused as the logo.
func Logo(doc *goquery.Document, base *url.URL, graph jsongraph.Graph, logger *slog.Logger) string {
	// Priority 1: publisher/Organization logo from the structured graph
	if u := graphLogo(graph); u != "" {
		logger.Debug("logo extracted", "source", "structured_graph")
		return resolveURL(base, u)
	}

	// Priority 2: logo image inside <header>
	header := doc.Find("header").First()
	if header.Length() > 0 {
		if src := logoImageIn(header, logoClassRe); src != "" {
			logger.Debug("logo extracted", "source", "header_logo")
			return resolveURL(base, src)
		}
		// First header image counts only when its path says it is a logo.
		first := header.Find("img").First()
		if src, ok := first.Attr("src"); ok {
			lower := strings.ToLower(src)
			if strings.Contains(lower, "logo") || strings.Contains(lower, "brand") {
				logger.Debug("logo extracted", "source", "header_first_image")
				return resolveURL(base, src)
			}
		}
	}

	// Priority 3: site-wide logo image
	if src := logoImageIn(doc.Selection, siteLogoClassRe); src != "" {
		logger.Debug("logo extracted", "source", "site_logo_class")
		return resolveURL(base, src)
	}
	if src := logoImageIn(doc.Selection, logoClassRe); src != "" {
		logger.Debug("logo extracted", "source", "logo_class")
		return resolveURL(base, src)
	}

	// Priority 4: apple touch icon, largest declared size wins
	var best string
	var bestSize int
	doc.Find("link[rel]").Each(func(i int, link *goquery.Selection) {
		if !appleTouchIconRe.MatchString(link.AttrOr("rel", "")) {
			return
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		size := 0
		if sizes, ok := link.Attr("sizes"); ok {
			if n, err := strconv.Atoi(strings.SplitN(sizes, "x", 2)[0]); err == nil {
				size = n
			}
		}
		if best == "" || size > bestSize {
			best = href
			bestSize = size
		}
	})
	if best != "" {
		logger.Debug("logo extracted", "source", "apple_touch_icon", "size", bestSize)
		return resolveURL(base, best)
	}

	// Priority 5: favicon, skipping SVG/ICO
	if href, ok := doc.Find(`link[rel="icon"]`).Attr("href"); ok && href != "" {
		lower := strings.ToLower(href)
		if !strings.Contains(lower, ".svg") && !strings.Contains(lower, ".ico") {
			logger.Debug("logo extracted", "source", "favicon")
			return resolveURL(base, href)
		}
	}

	logger.Debug("logo omitted", "reason", "no_logo_signal")
	return ""
}

// graphLogo reads a logo URL from publisher fields on any node, then from
// Organization nodes. The logo value may be a bare string or an ImageObject.
func graphLogo(graph jsongraph.Graph) string {
	for _, nodes := range graph {
		for _, node := range nodes {
			if publisher, ok := node["publisher"].(map[string]any); ok {
				if u := logoURL(publisher["logo"]); u != "" {
					return u
				}
			}
		}
	}
	for _, node := range graph.Nodes("Organization") {
		if u := logoURL(node["logo"]); u != "" {
			return u
		}
	}
	return ""
}

func logoURL(logo any) string {
	switch v := logo.(type) {
	case string:
		return v
	case map[string]any:
		if u, ok := v["url"].(string); ok {
			return u
		}
	}
	return ""
}

func logoImageIn(sel *goquery.Selection, classRe *regexp.Regexp) string {
	var src string
	sel.Find("img[class]").EachWithBreak(func(i int, img *goquery.Selection) bool {
		if !classRe.MatchString(img.AttrOr("class", "")) {
			return true
		}
		if s, ok := img.Attr("src"); ok && s != "" {
			src = s
			return false
		}
		return true
	})
	return src
}
