// Package schema synthesizes Google-compatible schema.org JSON-LD documents
// from a normalized content record. Field inclusion is gated on capability
// flags: a field that was not extracted is omitted, never synthesized.
package schema

import (
	"encoding/json"
	"fmt"
)

const schemaContext = "https://schema.org"

// Person is an author reference.
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Organization is a publisher/provider/seller record.
type Organization struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// Brand wraps a product brand name.
type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Offer is the product pricing block.
type Offer struct {
	Type            string        `json:"@type"`
	Price           string        `json:"price"`
	PriceCurrency   string        `json:"priceCurrency"`
	Availability    string        `json:"availability,omitempty"` // schema.org URL form
	PriceValidUntil string        `json:"priceValidUntil,omitempty"`
	Seller          *Organization `json:"seller,omitempty"`
}

// AggregateRating is the product rating block. ReviewCount is omitted when
// zero: an unknown count is never emitted as a value.
type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount,omitempty"`
	BestRating  float64 `json:"bestRating"`
	WorstRating float64 `json:"worstRating"`
}

// Article covers both Article and BlogPosting primaries.
type Article struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            []string      `json:"image,omitempty"`
	Author           *Person       `json:"author,omitempty"`
	Publisher        *Organization `json:"publisher,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	ArticleSection   string        `json:"articleSection,omitempty"`
	InLanguage       string        `json:"inLanguage,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
	WordCount        int           `json:"wordCount,omitempty"`
}

// Product is the e-commerce primary.
type Product struct {
	Context         string           `json:"@context"`
	Type            string           `json:"@type"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Image           []string         `json:"image,omitempty"`
	URL             string           `json:"url,omitempty"`
	Brand           *Brand           `json:"brand,omitempty"`
	SKU             string           `json:"sku,omitempty"`
	MPN             string           `json:"mpn,omitempty"`
	Offers          *Offer           `json:"offers,omitempty"`
	AggregateRating *AggregateRating `json:"aggregateRating,omitempty"`
}

// Service is the service-page primary.
type Service struct {
	Context     string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Provider    *Organization `json:"provider,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// WebPage is the generic fallback primary.
type WebPage struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Answer and Question form the FAQPage entity list.
type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// FAQPage is the supplementary FAQ record.
type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// ListItem and BreadcrumbList form the navigation record.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// Collection bundles the documents generated for one page. One document
// serializes as a single object, several as a JSON array.
type Collection struct {
	Documents []any
}

// MarshalJSON implements the single-object/array serialization rule.
func (c Collection) MarshalJSON() ([]byte, error) {
	if len(c.Documents) == 1 {
		return json.Marshal(c.Documents[0])
	}
	return json.Marshal(c.Documents)
}

// ScriptTag renders the collection as an embeddable ld+json script tag.
func (c Collection) ScriptTag() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema collection: %w", err)
	}
	return fmt.Sprintf("<script type=\"application/ld+json\">\n%s\n</script>", data), nil
}
