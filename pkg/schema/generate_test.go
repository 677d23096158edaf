package schema

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dtnitsch/schemaforge/models"
)

func testGenerator() *Generator {
	return NewGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerate_BlogPost(t *testing.T) {
	content := &models.NormalizedContent{
		URL:              "https://example.com/blog/post",
		Title:            "My Post",
		Description:      "About things.",
		ContentType:      models.ContentBlogPost,
		Author:           "Jane Doe",
		PublishedDate:    "2024-01-15",
		OrganizationName: "Example Press",
		OrganizationLogo: "https://example.com/logo.png",
		Language:         "en",
		WordCount:        420,
	}

	collection := testGenerator().Generate(content)
	article, ok := collection.Documents[0].(*Article)
	if !ok {
		t.Fatalf("Documents[0] is %T, want *Article", collection.Documents[0])
	}

	if article.Type != "BlogPosting" {
		t.Errorf("Type = %q, want BlogPosting", article.Type)
	}
	if article.Headline != "My Post" {
		t.Errorf("Headline = %q", article.Headline)
	}
	if article.Author == nil || article.Author.Name != "Jane Doe" {
		t.Errorf("Author = %+v, want Jane Doe", article.Author)
	}
	if article.DatePublished != "2024-01-15T00:00:00Z" {
		t.Errorf("DatePublished = %q, want normalized midnight", article.DatePublished)
	}
	if article.Publisher == nil || article.Publisher.Name != "Example Press" {
		t.Errorf("Publisher = %+v", article.Publisher)
	}
	if article.InLanguage != "en" || article.WordCount != 420 {
		t.Errorf("InLanguage/WordCount = %q/%d", article.InLanguage, article.WordCount)
	}
}

func TestGenerate_PublisherRequiresLogo(t *testing.T) {
	content := &models.NormalizedContent{
		URL:              "https://example.com/post",
		Title:            "Post",
		ContentType:      models.ContentArticle,
		OrganizationName: "Nameless Press",
	}

	collection := testGenerator().Generate(content)
	article := collection.Documents[0].(*Article)

	if article.Publisher != nil {
		t.Errorf("Publisher = %+v, want nil without a logo", article.Publisher)
	}
}

func TestGenerate_ProductCapabilityGating(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/products/widget",
		Title:       "Widget",
		ContentType: models.ContentProduct,
		ProductSKU:  "W-1",
	}

	collection := testGenerator().Generate(content)
	product := collection.Documents[0].(*Product)

	if product.SKU != "W-1" {
		t.Errorf("SKU = %q, want W-1", product.SKU)
	}
	if product.Offers != nil {
		t.Errorf("Offers = %+v, want nil without a price", product.Offers)
	}
	if product.AggregateRating != nil {
		t.Errorf("AggregateRating = %+v, want nil without a rating", product.AggregateRating)
	}
	if product.Brand != nil {
		t.Errorf("Brand = %+v, want nil without a brand", product.Brand)
	}
}

func TestGenerate_PlaceholderPriceSuppressed(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/products/widget",
		Title:       "Widget",
		ContentType: models.ContentProduct,
		ProductOffer: &models.ProductOffer{
			Price: "0.00", Currency: "USD", Availability: "OutOfStock",
		},
	}

	collection := testGenerator().Generate(content)
	product := collection.Documents[0].(*Product)

	if product.Offers != nil {
		t.Errorf("Offers = %+v, want nil for placeholder price", product.Offers)
	}
}

func TestGenerate_ProductFull(t *testing.T) {
	content := &models.NormalizedContent{
		URL:          "https://example.com/products/widget",
		Title:        "Widget",
		ContentType:  models.ContentProduct,
		ProductSKU:   "W-1",
		ProductBrand: "Acme",
		ProductOffer: &models.ProductOffer{
			Price: "29.99", Currency: "USD", Availability: "InStock", SellerName: "Acme Store",
		},
		ProductRating: &models.AggregateRatingData{
			RatingValue: 4.5, ReviewCount: 12, BestRating: 5, WorstRating: 1,
		},
		ProductImages: []string{"https://example.com/1.jpg", "https://example.com/2.jpg"},
	}

	collection := testGenerator().Generate(content)
	product := collection.Documents[0].(*Product)

	if product.Offers == nil || product.Offers.Price != "29.99" {
		t.Fatalf("Offers = %+v", product.Offers)
	}
	if product.Offers.Availability != "https://schema.org/InStock" {
		t.Errorf("Availability = %q, want schema.org URL form", product.Offers.Availability)
	}
	if product.Offers.Seller == nil || product.Offers.Seller.Name != "Acme Store" {
		t.Errorf("Seller = %+v", product.Offers.Seller)
	}
	if product.AggregateRating == nil || product.AggregateRating.ReviewCount != 12 {
		t.Errorf("AggregateRating = %+v", product.AggregateRating)
	}
	if len(product.Image) != 2 || product.Image[0] != "https://example.com/1.jpg" {
		t.Errorf("Image = %v, want graph order preserved", product.Image)
	}
}

func TestGenerate_UnknownReviewCountOmitted(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/products/widget",
		Title:       "Widget",
		ContentType: models.ContentProduct,
		ProductRating: &models.AggregateRatingData{
			RatingValue: 4.0, ReviewCount: 0, BestRating: 5, WorstRating: 1,
		},
	}

	collection := testGenerator().Generate(content)
	product := collection.Documents[0].(*Product)

	if product.AggregateRating == nil {
		t.Fatal("AggregateRating = nil, want rating without count")
	}

	encoded, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(encoded), "reviewCount") {
		t.Errorf("serialized product contains reviewCount for unknown count: %s", encoded)
	}
}

func TestGenerate_FAQSupplement(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/faq",
		Title:       "FAQ",
		ContentType: models.ContentFAQ,
		FAQ: []models.FAQItem{
			{Question: "A?", Answer: "a"},
			{Question: "B?", Answer: "b"},
		},
	}

	collection := testGenerator().Generate(content)
	if len(collection.Documents) != 2 {
		t.Fatalf("document count = %d, want WebPage + FAQPage", len(collection.Documents))
	}

	if _, ok := collection.Documents[0].(*WebPage); !ok {
		t.Errorf("Documents[0] is %T, want *WebPage", collection.Documents[0])
	}
	faq, ok := collection.Documents[1].(*FAQPage)
	if !ok {
		t.Fatalf("Documents[1] is %T, want *FAQPage", collection.Documents[1])
	}
	if len(faq.MainEntity) != 2 {
		t.Errorf("MainEntity count = %d, want 2", len(faq.MainEntity))
	}
}

func TestGenerate_FAQBelowMinimumOmitted(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/page",
		Title:       "Page",
		ContentType: models.ContentUnknown,
		FAQ: []models.FAQItem{
			{Question: "A?", Answer: "a"},
			{Question: "B?", Answer: ""}, // invalid pair drops below the minimum
		},
	}

	collection := testGenerator().Generate(content)
	for _, doc := range collection.Documents {
		if _, ok := doc.(*FAQPage); ok {
			t.Error("FAQPage emitted with fewer than two valid pairs")
		}
	}
}

func TestGenerate_BreadcrumbSupplement(t *testing.T) {
	content := &models.NormalizedContent{
		URL:         "https://example.com/blog/post",
		Title:       "Post",
		ContentType: models.ContentArticle,
		Breadcrumbs: []models.BreadcrumbItem{
			{Name: "Home", URL: "https://example.com/", Position: 1},
			{Name: "Blog", URL: "https://example.com/blog", Position: 2},
		},
	}

	collection := testGenerator().Generate(content)

	var crumbs *BreadcrumbList
	for _, doc := range collection.Documents {
		if b, ok := doc.(*BreadcrumbList); ok {
			crumbs = b
		}
	}
	if crumbs == nil {
		t.Fatal("no BreadcrumbList document")
	}
	if len(crumbs.ItemListElement) != 2 || crumbs.ItemListElement[1].Name != "Blog" {
		t.Errorf("ItemListElement = %+v", crumbs.ItemListElement)
	}
}

func TestGenerate_OrganizationSupplement(t *testing.T) {
	content := &models.NormalizedContent{
		URL:              "https://example.com/about",
		Title:            "About",
		ContentType:      models.ContentAbout,
		OrganizationName: "Acme",
	}

	collection := testGenerator().Generate(content)

	var org *Organization
	for _, doc := range collection.Documents {
		if o, ok := doc.(*Organization); ok {
			org = o
		}
	}
	if org == nil {
		t.Fatal("no Organization document")
	}
	if org.Name != "Acme" || org.URL != "https://example.com" {
		t.Errorf("Organization = %+v", org)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{name: "short text untouched", text: "hello", limit: 10, want: "hello"},
		{name: "exact limit untouched", text: "hello", limit: 5, want: "hello"},
		{name: "long text gains ellipsis", text: "hello world", limit: 8, want: "hello..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.text, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	got := truncate(strings.Repeat("é", 60), 10)

	if !utf8.ValidString(got) {
		t.Errorf("truncate() = %q, not valid UTF-8", got)
	}
	if want := strings.Repeat("é", 7) + "..."; got != want {
		t.Errorf("truncate() = %q, want %q", got, want)
	}
}

func TestCollection_MarshalSingleObject(t *testing.T) {
	c := Collection{Documents: []any{&WebPage{Context: schemaContext, Type: "WebPage", Name: "One"}}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Errorf("single document serialized as %s, want object", data)
	}
}

func TestCollection_MarshalArray(t *testing.T) {
	c := Collection{Documents: []any{
		&WebPage{Context: schemaContext, Type: "WebPage", Name: "One"},
		&Organization{Context: schemaContext, Type: "Organization", Name: "Acme"},
	}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "[") {
		t.Errorf("multiple documents serialized as %s, want array", data)
	}
}

func TestCollection_ScriptTag(t *testing.T) {
	c := Collection{Documents: []any{&WebPage{Context: schemaContext, Type: "WebPage", Name: "One"}}}

	tag, err := c.ScriptTag()
	if err != nil {
		t.Fatalf("ScriptTag() error = %v", err)
	}
	if !strings.HasPrefix(tag, `<script type="application/ld+json">`) {
		t.Errorf("tag prefix wrong: %s", tag)
	}
	if !strings.HasSuffix(tag, "</script>") {
		t.Errorf("tag suffix wrong: %s", tag)
	}
}
