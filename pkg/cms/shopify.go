package cms

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/product"
)

// shopifyProduct is the /products/<handle>.json response body. The
// product may arrive wrapped under a "product" key or bare.
type shopifyProduct struct {
	Title       string `json:"title"`
	BodyHTML    string `json:"body_html"`
	Vendor      string `json:"vendor"`
	PublishedAt string `json:"published_at"`
	UpdatedAt   string `json:"updated_at"`

	Variants []struct {
		Title     string `json:"title"`
		Price     string `json:"price"`
		SKU       string `json:"sku"`
		Available bool   `json:"available"`
	} `json:"variants"`

	Images []struct {
		Src    string `json:"src"`
		Alt    string `json:"alt"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"images"`
}

// NormalizeShopifyProduct converts one Shopify product payload into a
// normalized record. Classification is not consulted: a product endpoint
// response is a product.
func NormalizeShopifyProduct(pageURL string, payload []byte, logger *slog.Logger) (*models.NormalizedContent, error) {
	var wrapped struct {
		Product *shopifyProduct `json:"product"`
	}
	var p shopifyProduct

	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Product != nil {
		p = *wrapped.Product
	} else if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode shopify payload: %w", err)
	}

	if p.Title == "" {
		return nil, fmt.Errorf("shopify payload has no product title")
	}

	body := StripHTML(p.BodyHTML)
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength]
	}

	content := &models.NormalizedContent{
		URL:             pageURL,
		Title:           p.Title,
		Description:     body,
		Body:            body,
		ContentType:     models.ContentProduct,
		SourceType:      models.SourceShopifyAPI,
		ConfidenceScore: shopifyConfidence(body),
		PublishedDate:   p.PublishedAt,
		ModifiedDate:    p.UpdatedAt,
		ProductBrand:    p.Vendor,
		WordCount:       len(strings.Fields(body)),
	}

	for _, img := range p.Images {
		if img.Src == "" {
			continue
		}
		content.Images = append(content.Images, models.ImageData{
			Src: img.Src, Alt: img.Alt, Width: img.Width, Height: img.Height,
		})
		content.ProductImages = append(content.ProductImages, img.Src)
	}

	for i, v := range p.Variants {
		if i == 0 {
			content.ProductSKU = v.SKU
			content.ProductOffer = shopifyOffer(v.Price, v.Available)
		}
		name := v.Title
		if name == "" {
			name = "Variant"
		}
		content.ProductVariants = append(content.ProductVariants, models.ProductVariant{
			Name:      name,
			Value:     name,
			Price:     v.Price,
			SKU:       v.SKU,
			Available: v.Available,
		})
	}

	logger.Debug("shopify payload normalized",
		"url", pageURL,
		"source", string(models.SourceShopifyAPI),
		"variants", len(content.ProductVariants),
		"capabilities_available", content.ComputeCapabilities().Available())

	return content, nil
}

func shopifyOffer(price string, available bool) *models.ProductOffer {
	parsed, currency, ok := product.ParsePriceText(price)
	if !ok {
		return nil
	}

	availability := "InStock"
	if !available {
		availability = "OutOfStock"
	}
	return &models.ProductOffer{
		Price:        parsed,
		Currency:     currency,
		Availability: availability,
	}
}

func shopifyConfidence(body string) float64 {
	if body != "" {
		return 0.9
	}
	return 0.7
}
