package product

import (
	"testing"

	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

func TestFromGraph_FullProductNode(t *testing.T) {
	graph := jsongraph.Graph{
		"Product": []jsongraph.Node{{
			"@type": "Product",
			"sku":   "WID-1",
			"mpn":   "MPN-7",
			"brand": map[string]any{"@type": "Brand", "name": "Acme"},
			"image": []any{"https://example.com/1.jpg", "https://example.com/2.jpg"},
			"offers": map[string]any{
				"@type":         "Offer",
				"price":         "49.99",
				"priceCurrency": "EUR",
				"availability":  "https://schema.org/OutOfStock",
				"seller":        map[string]any{"name": "Acme Store"},
			},
			"aggregateRating": map[string]any{
				"ratingValue": 4.2,
				"reviewCount": float64(87),
			},
		}},
	}

	data := FromGraph(graph, testLogger())
	if data == nil {
		t.Fatal("FromGraph() = nil, want data")
	}

	if data.SKU != "WID-1" {
		t.Errorf("SKU = %q, want %q", data.SKU, "WID-1")
	}
	if data.MPN != "MPN-7" {
		t.Errorf("MPN = %q, want %q", data.MPN, "MPN-7")
	}
	if data.Brand != "Acme" {
		t.Errorf("Brand = %q, want %q", data.Brand, "Acme")
	}
	if len(data.Images) != 2 || data.Images[0] != "https://example.com/1.jpg" {
		t.Errorf("Images = %v, want source order preserved", data.Images)
	}
	if data.Offer == nil {
		t.Fatal("Offer = nil, want parsed offer")
	}
	if data.Offer.Price != "49.99" || data.Offer.Currency != "EUR" {
		t.Errorf("Offer = %+v, want 49.99 EUR", data.Offer)
	}
	if data.Offer.Availability != "OutOfStock" {
		t.Errorf("Availability = %q, want OutOfStock", data.Offer.Availability)
	}
	if data.Offer.SellerName != "Acme Store" {
		t.Errorf("SellerName = %q, want %q", data.Offer.SellerName, "Acme Store")
	}
	if data.Rating == nil || data.Rating.RatingValue != 4.2 || data.Rating.ReviewCount != 87 {
		t.Errorf("Rating = %+v, want 4.2 with 87 reviews", data.Rating)
	}
}

func TestFromGraph_NoProductNode(t *testing.T) {
	graph := jsongraph.Graph{"Article": []jsongraph.Node{{"@type": "Article"}}}

	if data := FromGraph(graph, testLogger()); data != nil {
		t.Errorf("FromGraph() = %+v, want nil without Product nodes", data)
	}
}

func TestFromGraph_GTINFallbackForSKU(t *testing.T) {
	graph := jsongraph.Graph{
		"Product": []jsongraph.Node{{"@type": "Product", "gtin13": "4006381333931"}},
	}

	data := FromGraph(graph, testLogger())
	if data == nil || data.SKU != "4006381333931" {
		t.Errorf("SKU = %v, want gtin13 fallback", data)
	}
}

func TestFromGraph_NumericSKU(t *testing.T) {
	graph := jsongraph.Graph{
		"Product": []jsongraph.Node{{"@type": "Product", "sku": float64(12345)}},
	}

	data := FromGraph(graph, testLogger())
	if data == nil || data.SKU != "12345" {
		t.Errorf("SKU = %v, want numeric sku rendered as string", data)
	}
}

func TestNormalizeImages(t *testing.T) {
	tests := []struct {
		name  string
		image any
		want  []string
	}{
		{
			name:  "bare string",
			image: "https://example.com/a.jpg",
			want:  []string{"https://example.com/a.jpg"},
		},
		{
			name:  "string array",
			image: []any{"https://example.com/a.jpg", "https://example.com/b.jpg"},
			want:  []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
		},
		{
			name:  "image object",
			image: map[string]any{"@type": "ImageObject", "url": "https://example.com/a.jpg"},
			want:  []string{"https://example.com/a.jpg"},
		},
		{
			name: "object array mixed",
			image: []any{
				map[string]any{"contentUrl": "https://example.com/a.jpg"},
				"https://example.com/b.jpg",
			},
			want: []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
		},
		{name: "nil", image: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImages(tt.image)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeImages() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeImages()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseOffers_ArrayTakesFirst(t *testing.T) {
	offers := []any{
		map[string]any{"price": "10.00", "priceCurrency": "USD"},
		map[string]any{"price": "99.00", "priceCurrency": "USD"},
	}

	offer := parseOffers(offers)
	if offer == nil || offer.Price != "10.00" {
		t.Errorf("parseOffers() = %+v, want first member", offer)
	}
}

func TestParseOffers_LowPriceFallback(t *testing.T) {
	offer := parseOffers(map[string]any{"lowPrice": "5.00", "priceCurrency": "GBP"})
	if offer == nil || offer.Price != "5.00" || offer.Currency != "GBP" {
		t.Errorf("parseOffers() = %+v, want lowPrice fallback", offer)
	}
}

func TestParseOffers_NoPrice(t *testing.T) {
	if offer := parseOffers(map[string]any{"priceCurrency": "USD"}); offer != nil {
		t.Errorf("parseOffers() = %+v, want nil without a price", offer)
	}
}

func TestParseRating_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		rating  any
		wantNil bool
	}{
		{name: "valid", rating: map[string]any{"ratingValue": 4.0}, wantNil: false},
		{name: "above five", rating: map[string]any{"ratingValue": 9.5}, wantNil: true},
		{name: "negative", rating: map[string]any{"ratingValue": -1.0}, wantNil: true},
		{name: "not an object", rating: "4.5", wantNil: true},
		{name: "string value accepted", rating: map[string]any{"ratingValue": "3.5"}, wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRating(tt.rating)
			if (got == nil) != tt.wantNil {
				t.Errorf("parseRating(%v) = %+v, wantNil %v", tt.rating, got, tt.wantNil)
			}
		})
	}
}

func TestParseRating_MissingCountStaysZero(t *testing.T) {
	rating := parseRating(map[string]any{"ratingValue": 4.8})
	if rating == nil {
		t.Fatal("parseRating() = nil")
	}
	if rating.ReviewCount != 0 {
		t.Errorf("ReviewCount = %d, want 0 when absent", rating.ReviewCount)
	}
	if rating.BestRating != 5 || rating.WorstRating != 1 {
		t.Errorf("bounds = %v..%v, want defaults 1..5", rating.WorstRating, rating.BestRating)
	}
}
