// Package cms normalizes CMS API payloads into the shared content record.
// Adapters here work on already-fetched response bodies; transport, auth
// and endpoint discovery live with the caller.
package cms

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
)

const (
	maxBodyLength = 5000
	maxImages     = 20
	maxFAQItems   = 10
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// RenderedField absorbs both WordPress payload shapes: self-hosted
// /wp-json returns {"rendered": "..."}, the WordPress.com public API
// returns a plain string.
type RenderedField string

func (r *RenderedField) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*r = RenderedField(plain)
		return nil
	}

	var wrapped struct {
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("unsupported rendered field shape: %w", err)
	}
	*r = RenderedField(wrapped.Rendered)
	return nil
}

// wordPressPost covers the fields both API flavors share. Author is raw
// because self-hosted returns a numeric ID while WordPress.com inlines
// the author object.
type wordPressPost struct {
	Type     string        `json:"type"`
	Title    RenderedField `json:"title"`
	Content  RenderedField `json:"content"`
	Excerpt  RenderedField `json:"excerpt"`
	Date     string        `json:"date"`
	Modified string        `json:"modified"`

	Author        json.RawMessage `json:"author"`
	FeaturedImage string          `json:"featured_image"`

	Embedded struct {
		Author []struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"_embedded"`
}

// NormalizeWordPressPost converts one WordPress REST post/page payload
// into a normalized record. The rendered HTML fields are parsed for
// headings, images and FAQ pairs; everything else maps directly.
func NormalizeWordPressPost(pageURL string, payload []byte, authenticated bool, logger *slog.Logger) (*models.NormalizedContent, error) {
	var post wordPressPost
	if err := json.Unmarshal(payload, &post); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress payload: %w", err)
	}

	title := strings.TrimSpace(StripHTML(string(post.Title)))
	if title == "" {
		title = "Untitled"
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(post.Content)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered content: %w", err)
	}

	base, _ := url.Parse(pageURL)
	body := renderedBodyText(doc)
	images := renderedImages(doc, base)

	if post.FeaturedImage != "" {
		images = append([]models.ImageData{{Src: post.FeaturedImage, Alt: title}}, images...)
	}

	contentType := models.ContentBlogPost
	if post.Type != "post" {
		contentType = wordPressPageType(pageURL, title)
	}

	// API payloads are trusted: a populated body is near-certain quality.
	confidence := 0.7
	if body != "" {
		confidence = 0.9
	}

	sourceType := models.SourceWordPressREST
	if authenticated {
		sourceType = models.SourceWordPressRESTAuth
	}

	content := &models.NormalizedContent{
		URL:             pageURL,
		Title:           title,
		Description:     strings.TrimSpace(StripHTML(string(post.Excerpt))),
		Body:            body,
		Headings:        renderedHeadings(doc),
		Images:          images,
		FAQ:             renderedFAQ(doc),
		ContentType:     contentType,
		SourceType:      sourceType,
		ConfidenceScore: confidence,
		Author:          post.authorName(),
		PublishedDate:   post.Date,
		ModifiedDate:    post.Modified,
		WordCount:       len(strings.Fields(body)),
	}

	logger.Debug("wordpress payload normalized",
		"url", pageURL,
		"source", string(sourceType),
		"content_type", string(contentType),
		"fields_present", content.PresentFields(),
		"confidence", confidence)

	return content, nil
}

// authorName resolves the author from whichever shape the payload used.
// A bare numeric ID carries no name and yields "".
func (p *wordPressPost) authorName() string {
	if len(p.Embedded.Author) > 0 {
		return p.Embedded.Author[0].Name
	}

	if len(p.Author) > 0 {
		var inline struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(p.Author, &inline); err == nil && inline.Name != "" {
			return inline.Name
		}
	}
	return ""
}

// wordPressPageType classifies a WordPress page from URL and title
// keywords. Pages have no editorial signals to count, so this stays a
// keyword check.
func wordPressPageType(pageURL, title string) models.ContentType {
	urlLower := strings.ToLower(pageURL)
	titleLower := strings.ToLower(title)

	switch {
	case strings.Contains(urlLower, "/service") || strings.Contains(titleLower, "service"):
		return models.ContentService
	case strings.Contains(urlLower, "/about") || strings.Contains(titleLower, "about"):
		return models.ContentAbout
	case strings.Contains(urlLower, "/contact") || strings.Contains(titleLower, "contact"):
		return models.ContentContact
	case strings.Contains(urlLower, "/faq") || strings.Contains(titleLower, "faq"):
		return models.ContentFAQ
	}
	return models.ContentUnknown
}

func renderedBodyText(doc *goquery.Document) string {
	text := whitespaceRe.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")
	if len(text) > maxBodyLength {
		text = text[:maxBodyLength]
	}
	return text
}

func renderedHeadings(doc *goquery.Document) []models.HeadingData {
	var headings []models.HeadingData
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		level := int(goquery.NodeName(s)[1] - '0')
		headings = append(headings, models.HeadingData{Level: level, Text: text})
	})
	return headings
}

func renderedImages(doc *goquery.Document, base *url.URL) []models.ImageData {
	var images []models.ImageData
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		if len(images) >= maxImages {
			return
		}
		src := s.AttrOr("src", s.AttrOr("data-src", ""))
		if src == "" {
			return
		}
		if base != nil {
			if resolved, err := base.Parse(src); err == nil {
				src = resolved.String()
			}
		}
		images = append(images, models.ImageData{Src: src, Alt: s.AttrOr("alt", "")})
	})
	return images
}

// renderedFAQ finds question-headings followed by an answer paragraph,
// the block pattern WordPress FAQ plugins emit.
func renderedFAQ(doc *goquery.Document) []models.FAQItem {
	var faqs []models.FAQItem
	doc.Find("h2, h3, h4").Each(func(i int, s *goquery.Selection) {
		if len(faqs) >= maxFAQItems {
			return
		}
		question := strings.TrimSpace(s.Text())
		if !strings.HasSuffix(question, "?") {
			return
		}
		answer := strings.TrimSpace(s.NextFiltered("p, div").Text())
		if answer != "" {
			faqs = append(faqs, models.FAQItem{Question: question, Answer: answer})
		}
	})
	return faqs
}

// StripHTML reduces a rendered HTML fragment to its text content.
// Malformed input degrades to the raw string rather than erroring.
func StripHTML(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")
}
