// Package parser runs the page pipeline: raw markup in, normalized content
// record out. Every stage degrades to an empty field rather than failing;
// only missing input (no URL, no markup) is a hard error.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/classify"
	"github.com/dtnitsch/schemaforge/pkg/extract"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
	"github.com/dtnitsch/schemaforge/pkg/language"
	"github.com/dtnitsch/schemaforge/pkg/product"
)

var (
	ErrNoURL    = errors.New("no page URL provided")
	ErrNoMarkup = errors.New("no markup provided")
)

// Parser converts one page into a NormalizedContent record. It holds no
// per-page state; any number of Parse calls may run concurrently.
type Parser struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger.With("component", "parser")}
}

// Parse builds a normalized record from raw HTML and the page's URL.
func (p *Parser) Parse(rawURL, html string) (*models.NormalizedContent, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrNoURL
	}
	if strings.TrimSpace(html) == "" {
		return nil, ErrNoMarkup
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	return p.ParseDocument(rawURL, doc, html)
}

// ParseDocument runs the pipeline over an already-parsed document.
func (p *Parser) ParseDocument(rawURL string, doc *goquery.Document, html string) (*models.NormalizedContent, error) {
	logger := p.logger.With("url", rawURL)

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}

	// Embedded structured-data blocks are parsed exactly once here;
	// downstream stages read only from this index.
	graph := jsongraph.Parse(doc, logger)

	title := extract.Title(doc)
	description := extract.Description(doc)
	body := extract.Body(doc, html, base)
	headings := extract.Headings(doc)
	faq := extract.FAQ(doc, graph)
	breadcrumbs := extract.Breadcrumbs(doc, base, graph, logger)
	wordCount := extract.WordCount(body)

	fused := product.Extract(doc, graph, logger)

	contentType, signals := classify.Detect(classify.Input{
		URL:       rawURL,
		Doc:       doc,
		Graph:     graph,
		Headings:  headings,
		FAQ:       faq,
		WordCount: wordCount,
	}, logger)

	confidence := confidenceScore(title, description, body, headings)
	if fused.Offer != nil {
		confidence = min(confidence+0.1, 1.0)
	}

	content := &models.NormalizedContent{
		URL:              rawURL,
		Title:            title,
		Description:      description,
		Body:             body,
		Headings:         headings,
		Images:           extract.Images(doc, base),
		FAQ:              faq,
		Breadcrumbs:      breadcrumbs,
		ContentType:      contentType,
		SourceType:       models.SourceHTMLScraper,
		ConfidenceScore:  confidence,
		Author:           extract.Author(doc, graph, logger),
		PublishedDate:    extract.PublishedDate(doc),
		ModifiedDate:     extract.ModifiedDate(doc),
		OrganizationName: extract.Organization(doc),
		OrganizationLogo: extract.Logo(doc, base, graph, logger),
		Language:         language.Resolve(extract.DeclaredLanguage(doc), body, logger),
		CanonicalURL:     extract.CanonicalURL(doc, rawURL),
		OGImage:          extract.OGImage(doc, base),
		WordCount:        wordCount,
		ArticleSignals:   signals,
		ArticleSection:   extract.ArticleSection(breadcrumbs),
		ProductSKU:       fused.SKU,
		ProductMPN:       fused.MPN,
		ProductBrand:     fused.Brand,
		ProductOffer:     fused.Offer,
		ProductRating:    fused.Rating,
		ProductVariants:  fused.Variants,
		ProductImages:    fused.Images,
		DeliveryInfo:     fused.DeliveryText,
	}

	caps := content.ComputeCapabilities()
	logger.Debug("content normalized",
		"content_type", string(contentType),
		"confidence", confidence,
		"fields_missing", content.MissingFields(),
		"capabilities_available", caps.Available())

	return content, nil
}

// confidenceScore rates extraction quality from what was actually found.
// A perfect page scores 1.0; a bare one still produces a record, just a
// low-confidence one.
func confidenceScore(title, description, body string, headings []models.HeadingData) float64 {
	score := 0.0

	if title != "" && title != "Untitled Page" {
		score += 0.25
	}

	switch {
	case len(description) > 50:
		score += 0.25
	case description != "":
		score += 0.15
	}

	switch {
	case len(body) > 500:
		score += 0.25
	case body != "":
		score += 0.15
	}

	switch {
	case len(headings) >= 3:
		score += 0.25
	case len(headings) > 0:
		score += 0.15
	}

	return min(score, 1.0)
}
