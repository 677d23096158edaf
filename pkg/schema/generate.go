package schema

import (
	"log/slog"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/extract"
)

const (
	defaultHeadlineLimit    = 110
	defaultDescriptionLimit = 300
)

// Generator synthesizes structured-data documents from normalized content.
// It is a pure function of its input apart from diagnostic logging; one
// Generator may serve any number of concurrent pipeline runs.
type Generator struct {
	HeadlineLimit    int
	DescriptionLimit int

	logger *slog.Logger
}

// NewGenerator returns a Generator with the standard truncation budgets.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{
		HeadlineLimit:    defaultHeadlineLimit,
		DescriptionLimit: defaultDescriptionLimit,
		logger:           logger,
	}
}

// Generate maps a normalized record into a primary document plus optional
// supplementary FAQ, breadcrumb, and organization documents. Dispatch on
// the content type is closed: adding a ContentType means updating this
// switch.
func (g *Generator) Generate(content *models.NormalizedContent) Collection {
	var docs []any

	switch content.ContentType {
	case models.ContentBlogPost:
		docs = append(docs, g.article(content, "BlogPosting"))
	case models.ContentArticle:
		docs = append(docs, g.article(content, "Article"))
	case models.ContentProduct:
		docs = append(docs, g.product(content))
	case models.ContentService:
		docs = append(docs, g.service(content))
	default:
		// FAQ, about, contact, home and unknown pages all get WebPage;
		// a FAQ page's substance lives in the supplementary FAQPage record.
		docs = append(docs, g.webPage(content))
	}

	if faq := g.faqPage(content); faq != nil {
		docs = append(docs, faq)
	}
	if crumbs := g.breadcrumbs(content); crumbs != nil {
		docs = append(docs, crumbs)
	}
	if org := g.organization(content); org != nil {
		docs = append(docs, org)
	}

	types := make([]string, 0, len(docs))
	for _, d := range docs {
		types = append(types, documentType(d))
	}
	g.logger.Debug("schema documents generated",
		"url", content.URL,
		"content_type", string(content.ContentType),
		"document_types", types)

	return Collection{Documents: docs}
}

func (g *Generator) article(content *models.NormalizedContent, schemaType string) *Article {
	doc := &Article{
		Context:          schemaContext,
		Type:             schemaType,
		Headline:         truncate(content.Title, g.HeadlineLimit),
		Description:      truncate(content.Description, g.DescriptionLimit),
		Image:            primaryImages(content),
		DatePublished:    NormalizeDate(content.PublishedDate),
		DateModified:     NormalizeDate(content.ModifiedDate),
		ArticleSection:   content.ArticleSection,
		InLanguage:       content.Language,
		MainEntityOfPage: content.URL,
		WordCount:        content.WordCount,
	}

	if content.Author != "" {
		doc.Author = &Person{Type: "Person", Name: content.Author}
	}

	// Publisher requires both a name and a logo; a name alone is omitted.
	if content.OrganizationName != "" && content.OrganizationLogo != "" {
		doc.Publisher = &Organization{
			Type: "Organization",
			Name: content.OrganizationName,
			Logo: content.OrganizationLogo,
		}
	}

	return doc
}

// product emits a Product document gated field-by-field on capabilities.
// Price, availability, rating, review count, SKU, MPN and brand are never
// synthesized from absence.
func (g *Generator) product(content *models.NormalizedContent) *Product {
	caps := content.ComputeCapabilities()

	doc := &Product{
		Context:     schemaContext,
		Type:        "Product",
		Name:        content.Title,
		Description: truncate(content.Description, g.DescriptionLimit),
		URL:         content.URL,
	}

	if caps.HasBrand {
		doc.Brand = &Brand{Type: "Brand", Name: content.ProductBrand}
	}
	if caps.HasSKU {
		doc.SKU = content.ProductSKU
	}
	if caps.HasMPN {
		doc.MPN = content.ProductMPN
	}

	if caps.HasPrice {
		offer := content.ProductOffer
		doc.Offers = &Offer{
			Type:            "Offer",
			Price:           offer.Price,
			PriceCurrency:   offer.Currency,
			PriceValidUntil: offer.PriceValidUntil,
		}
		if caps.HasAvailability {
			doc.Offers.Availability = schemaContext + "/" + offer.Availability
		}
		if offer.SellerName != "" {
			doc.Offers.Seller = &Organization{Type: "Organization", Name: offer.SellerName}
		}
	}

	if caps.HasRating {
		rating := content.ProductRating
		doc.AggregateRating = &AggregateRating{
			Type:        "AggregateRating",
			RatingValue: rating.RatingValue,
			BestRating:  rating.BestRating,
			WorstRating: rating.WorstRating,
		}
		if caps.HasReviews {
			doc.AggregateRating.ReviewCount = rating.ReviewCount
		}
	}

	// Graph-sourced product images win over markup images, order preserved.
	if caps.HasProductImages {
		doc.Image = content.ProductImages
	} else {
		doc.Image = primaryImages(content)
	}

	g.logger.Debug("product fields gated",
		"url", content.URL,
		"capabilities_available", caps.Available(),
		"capabilities_missing", caps.Missing())

	return doc
}

func (g *Generator) service(content *models.NormalizedContent) *Service {
	doc := &Service{
		Context:     schemaContext,
		Type:        "Service",
		Name:        content.Title,
		Description: truncate(content.Description, g.DescriptionLimit),
		URL:         content.URL,
	}
	if content.OrganizationName != "" {
		doc.Provider = &Organization{
			Type: "Organization",
			Name: content.OrganizationName,
			URL:  extract.RootURL(content.URL),
			Logo: content.OrganizationLogo,
		}
	}
	return doc
}

func (g *Generator) webPage(content *models.NormalizedContent) *WebPage {
	return &WebPage{
		Context:     schemaContext,
		Type:        "WebPage",
		Name:        content.Title,
		Description: truncate(content.Description, g.DescriptionLimit),
		URL:         content.URL,
	}
}

// faqPage emits a supplementary FAQPage when at least two valid pairs exist.
func (g *Generator) faqPage(content *models.NormalizedContent) *FAQPage {
	if len(content.FAQ) < 2 {
		return nil
	}

	var questions []Question
	for _, item := range content.FAQ {
		if item.Question == "" || item.Answer == "" {
			continue
		}
		questions = append(questions, Question{
			Type:           "Question",
			Name:           item.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: item.Answer},
		})
	}
	if len(questions) < 2 {
		return nil
	}

	return &FAQPage{Context: schemaContext, Type: "FAQPage", MainEntity: questions}
}

// breadcrumbs emits a supplementary BreadcrumbList for two or more items.
func (g *Generator) breadcrumbs(content *models.NormalizedContent) *BreadcrumbList {
	if len(content.Breadcrumbs) < 2 {
		return nil
	}

	items := make([]ListItem, 0, len(content.Breadcrumbs))
	for _, bc := range content.Breadcrumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: bc.Position,
			Name:     bc.Name,
			Item:     bc.URL,
		})
	}

	return &BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

// organization emits a supplementary Organization record when a name is
// known. The logo rides along only when one was extracted.
func (g *Generator) organization(content *models.NormalizedContent) *Organization {
	if content.OrganizationName == "" {
		return nil
	}
	return &Organization{
		Context: schemaContext,
		Type:    "Organization",
		Name:    content.OrganizationName,
		URL:     extract.RootURL(content.URL),
		Logo:    content.OrganizationLogo,
	}
}

// primaryImages returns the page's lead image as a one-element list: the
// social preview image when present, else the first extracted image.
func primaryImages(content *models.NormalizedContent) []string {
	if content.OGImage != "" {
		return []string{content.OGImage}
	}
	if len(content.Images) > 0 {
		return []string{content.Images[0].Src}
	}
	return nil
}

// truncate cuts text to limit characters, appending an ellipsis. The cut
// lands on a rune boundary; word boundaries are not preserved.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func documentType(doc any) string {
	switch d := doc.(type) {
	case *Article:
		return d.Type
	case *Product:
		return d.Type
	case *Service:
		return d.Type
	case *WebPage:
		return d.Type
	case *FAQPage:
		return d.Type
	case *BreadcrumbList:
		return d.Type
	case *Organization:
		return d.Type
	}
	return "unknown"
}
