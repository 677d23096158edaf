// Package models defines the normalized content record shared by every
// ingestion path and consumed by the schema synthesizer.
package models

// SourceType indicates which ingestion path produced a record.
type SourceType string

const (
	SourceWordPressREST     SourceType = "wordpress_rest"
	SourceWordPressRESTAuth SourceType = "wordpress_rest_authenticated"
	SourceShopifyAPI        SourceType = "shopify_api"
	SourceHTMLScraper       SourceType = "html_scraper"
)

// ContentType is the classification output used to pick a primary schema.
type ContentType string

const (
	ContentArticle  ContentType = "article"
	ContentBlogPost ContentType = "blog_post"
	ContentService  ContentType = "service"
	ContentProduct  ContentType = "product"
	ContentFAQ      ContentType = "faq"
	ContentAbout    ContentType = "about"
	ContentContact  ContentType = "contact"
	ContentHome     ContentType = "home"
	ContentUnknown  ContentType = "unknown"
)

// ImageData is one image extracted from page markup.
type ImageData struct {
	Src    string `json:"src"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// HeadingData is a heading with its level (1-6).
type HeadingData struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// FAQItem is one question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BreadcrumbItem is one breadcrumb navigation entry, position is 1-based.
type BreadcrumbItem struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Position int    `json:"position"`
}

// ProductVariant is one product option (size, color, ...).
type ProductVariant struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Price     string `json:"price,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Available bool   `json:"available"`
}

// ProductOffer holds price and availability for a product.
// Price is a decimal string with two fraction digits.
type ProductOffer struct {
	Price           string `json:"price"`
	Currency        string `json:"currency"`     // ISO 4217, default USD
	Availability    string `json:"availability"` // InStock, OutOfStock, PreOrder, LimitedAvailability
	PriceValidUntil string `json:"price_valid_until,omitempty"`
	SellerName      string `json:"seller_name,omitempty"`
}

// AggregateRatingData holds an aggregate product rating.
// ReviewCount 0 means "not found" and is never fabricated.
type AggregateRatingData struct {
	RatingValue float64 `json:"rating_value"` // 0..5
	ReviewCount int     `json:"review_count"`
	BestRating  float64 `json:"best_rating"`  // default 5
	WorstRating float64 `json:"worst_rating"` // default 1
}

// ProductCapabilities is a read-only projection of the product fields that
// were actually extracted. A flag is true iff the corresponding field is
// non-empty; flags drive schema field inclusion and are recomputed, never
// cached across mutation.
type ProductCapabilities struct {
	HasPrice         bool `json:"has_price"`
	HasCurrency      bool `json:"has_currency"`
	HasAvailability  bool `json:"has_availability"`
	HasRating        bool `json:"has_rating"`
	HasReviews       bool `json:"has_reviews"`
	HasVariants      bool `json:"has_variants"`
	HasDeliveryInfo  bool `json:"has_delivery_info"`
	HasSKU           bool `json:"has_sku"`
	HasBrand         bool `json:"has_brand"`
	HasMPN           bool `json:"has_mpn"`
	HasProductImages bool `json:"has_product_images"`
}

// ToMap returns capabilities keyed by field name for logging.
func (c ProductCapabilities) ToMap() map[string]bool {
	return map[string]bool{
		"has_price":          c.HasPrice,
		"has_currency":       c.HasCurrency,
		"has_availability":   c.HasAvailability,
		"has_rating":         c.HasRating,
		"has_reviews":        c.HasReviews,
		"has_variants":       c.HasVariants,
		"has_delivery_info":  c.HasDeliveryInfo,
		"has_sku":            c.HasSKU,
		"has_brand":          c.HasBrand,
		"has_mpn":            c.HasMPN,
		"has_product_images": c.HasProductImages,
	}
}

// Available returns the names of capabilities that are true.
func (c ProductCapabilities) Available() []string {
	return c.filter(true)
}

// Missing returns the names of capabilities that are false.
func (c ProductCapabilities) Missing() []string {
	return c.filter(false)
}

func (c ProductCapabilities) filter(want bool) []string {
	var out []string
	for _, name := range capabilityOrder {
		if c.ToMap()[name] == want {
			out = append(out, name)
		}
	}
	return out
}

// capabilityOrder keeps Available/Missing output deterministic.
var capabilityOrder = []string{
	"has_price", "has_currency", "has_availability", "has_rating",
	"has_reviews", "has_variants", "has_delivery_info", "has_sku",
	"has_brand", "has_mpn", "has_product_images",
}

// NormalizedContent is the single internal representation for all ingested
// content regardless of source. It is the contract between the ingestion
// side and the schema synthesizer. A record is built once per ingestion call
// and never shared across concurrent pipeline runs.
type NormalizedContent struct {
	// Required fields
	URL   string `json:"url"`
	Title string `json:"title"`

	// Content fields
	Description string `json:"description,omitempty"`
	Body        string `json:"body,omitempty"` // capped at extraction time

	// Structured content
	Headings    []HeadingData    `json:"headings,omitempty"`
	Images      []ImageData      `json:"images,omitempty"`
	FAQ         []FAQItem        `json:"faq,omitempty"`
	Breadcrumbs []BreadcrumbItem `json:"breadcrumbs,omitempty"`

	// Metadata
	ContentType ContentType `json:"content_type"`
	SourceType  SourceType  `json:"source_type"`

	// Quality indicators
	ConfidenceScore float64 `json:"confidence_score"` // 0..1

	// Raw date/author strings, normalized later by the synthesizer
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	ModifiedDate  string `json:"modified_date,omitempty"`

	// Organization info
	OrganizationName string `json:"organization_name,omitempty"`
	OrganizationLogo string `json:"organization_logo,omitempty"`

	// Universal metadata
	Language       string   `json:"language,omitempty"`
	CanonicalURL   string   `json:"canonical_url,omitempty"`
	ArticleSection string   `json:"article_section,omitempty"`
	OGImage        string   `json:"og_image,omitempty"`
	WordCount      int      `json:"word_count"`
	ArticleSignals []string `json:"article_signals,omitempty"`

	// Product-specific fields from the fusion engine
	ProductSKU      string               `json:"product_sku,omitempty"`
	ProductMPN      string               `json:"product_mpn,omitempty"`
	ProductBrand    string               `json:"product_brand,omitempty"`
	ProductOffer    *ProductOffer        `json:"product_offer,omitempty"`
	ProductRating   *AggregateRatingData `json:"product_rating,omitempty"`
	ProductVariants []ProductVariant     `json:"product_variants,omitempty"`
	ProductImages   []string             `json:"product_images,omitempty"` // JSON-LD order preserved
	DeliveryInfo    string               `json:"delivery_info,omitempty"`
}

// ComputeCapabilities derives capability flags from what was actually
// extracted. It infers what IS present, never what should be.
func (n *NormalizedContent) ComputeCapabilities() ProductCapabilities {
	return ProductCapabilities{
		HasPrice:         n.ProductOffer != nil && n.ProductOffer.Price != "" && n.ProductOffer.Price != "0.00",
		HasCurrency:      n.ProductOffer != nil && n.ProductOffer.Currency != "",
		HasAvailability:  n.ProductOffer != nil && n.ProductOffer.Availability != "",
		HasRating:        n.ProductRating != nil,
		HasReviews:       n.ProductRating != nil && n.ProductRating.ReviewCount > 0,
		HasVariants:      len(n.ProductVariants) > 0,
		HasDeliveryInfo:  n.DeliveryInfo != "",
		HasSKU:           n.ProductSKU != "",
		HasBrand:         n.ProductBrand != "",
		HasMPN:           n.ProductMPN != "",
		HasProductImages: len(n.ProductImages) > 0,
	}
}

// PresentFields lists the populated top-level fields. Used by the logging
// layer, not by core logic.
func (n *NormalizedContent) PresentFields() []string {
	present := []string{"url", "title", "source_type"}
	for _, f := range optionalFields {
		if f.set(n) {
			present = append(present, f.name)
		}
	}
	return present
}

// MissingFields lists the empty optional fields.
func (n *NormalizedContent) MissingFields() []string {
	var missing []string
	for _, f := range optionalFields {
		if !f.set(n) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

var optionalFields = []struct {
	name string
	set  func(*NormalizedContent) bool
}{
	{"description", func(n *NormalizedContent) bool { return n.Description != "" }},
	{"body", func(n *NormalizedContent) bool { return n.Body != "" }},
	{"headings", func(n *NormalizedContent) bool { return len(n.Headings) > 0 }},
	{"images", func(n *NormalizedContent) bool { return len(n.Images) > 0 }},
	{"faq", func(n *NormalizedContent) bool { return len(n.FAQ) > 0 }},
	{"breadcrumbs", func(n *NormalizedContent) bool { return len(n.Breadcrumbs) > 0 }},
	{"author", func(n *NormalizedContent) bool { return n.Author != "" }},
	{"published_date", func(n *NormalizedContent) bool { return n.PublishedDate != "" }},
	{"product_offer", func(n *NormalizedContent) bool { return n.ProductOffer != nil }},
	{"product_rating", func(n *NormalizedContent) bool { return n.ProductRating != nil }},
	{"product_variants", func(n *NormalizedContent) bool { return len(n.ProductVariants) > 0 }},
	{"product_sku", func(n *NormalizedContent) bool { return n.ProductSKU != "" }},
	{"product_brand", func(n *NormalizedContent) bool { return n.ProductBrand != "" }},
	{"delivery_info", func(n *NormalizedContent) bool { return n.DeliveryInfo != "" }},
}
