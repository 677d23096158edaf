package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
)

// trackingPrefixes are query-parameter key prefixes stripped from canonical
// URLs.
var trackingPrefixes = []string{"utm_", "fbclid", "gclid", "ref", "source", "campaign"}

// PublishedDate returns the raw published date string, unnormalized.
func PublishedDate(doc *goquery.Document) string {
	return dateFromMeta(doc, "article:published_time")
}

// ModifiedDate returns the raw modified date string, unnormalized.
func ModifiedDate(doc *goquery.Document) string {
	return dateFromMeta(doc, "article:modified_time")
}

func dateFromMeta(doc *goquery.Document, property string) string {
	if content, ok := doc.Find(`meta[property="` + property + `"]`).Attr("content"); ok && content != "" {
		return content
	}
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return dt
	}
	return ""
}

// DeclaredLanguage returns the language the markup declares: <html lang>
// first, then the content-language meta. Returns "" when undeclared.
func DeclaredLanguage(doc *goquery.Document) string {
	if lang, ok := doc.Find("html").Attr("lang"); ok {
		lang = strings.TrimSpace(lang)
		if lang != "" && len(lang) <= 10 {
			return lang
		}
	}
	if lang, ok := doc.Find(`meta[http-equiv="content-language"]`).Attr("content"); ok {
		return strings.TrimSpace(lang)
	}
	return ""
}

// CanonicalURL returns the page's canonical URL: an explicit canonical link,
// then og:url, else the original URL. The fragment and tracking parameters
// are stripped in all cases.
func CanonicalURL(doc *goquery.Document, fallback string) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		href = strings.TrimSpace(href)
		if strings.HasPrefix(href, "http") {
			return StripTrackingParams(href)
		}
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		content = strings.TrimSpace(content)
		if strings.HasPrefix(content, "http") {
			return StripTrackingParams(content)
		}
	}
	return StripTrackingParams(fallback)
}

// StripTrackingParams removes the fragment and any query parameter whose key
// matches the tracking-prefix list.
func StripTrackingParams(raw string) string {
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}

	base, query, ok := strings.Cut(raw, "?")
	if !ok {
		return raw
	}

	var kept []string
	for _, param := range strings.Split(query, "&") {
		key := strings.ToLower(strings.SplitN(param, "=", 2)[0])
		tracking := false
		for _, prefix := range trackingPrefixes {
			if strings.HasPrefix(key, prefix) {
				tracking = true
				break
			}
		}
		if !tracking {
			kept = append(kept, param)
		}
	}

	if len(kept) == 0 {
		return base
	}
	return base + "?" + strings.Join(kept, "&")
}

// ArticleSection derives the article's section from breadcrumbs: the
// second-to-last item (the category), skipping "Home"/"Index".
func ArticleSection(breadcrumbs []models.BreadcrumbItem) string {
	if len(breadcrumbs) < 2 {
		return ""
	}

	section := breadcrumbs[len(breadcrumbs)-2].Name
	if section != "" && !isHomeName(section) {
		return section
	}

	if len(breadcrumbs) >= 3 {
		section = breadcrumbs[1].Name
		if section != "" && !isHomeName(section) {
			return section
		}
	}

	return ""
}

func isHomeName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "home" || lower == "index"
}

// WordCount counts whitespace-separated words in body text.
func WordCount(body string) int {
	if body == "" {
		return 0
	}
	return len(strings.Fields(body))
}

// RootURL returns scheme://host for a page URL, used as the organization URL.
func RootURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}
