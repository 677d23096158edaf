package product

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
)

// Selector lists are source-driven patterns, not brand-specific ones.
var (
	priceSelectors = []string{
		`[itemprop="price"]`,
		"[data-price]",
		"[data-product-price]",
		".price",
		".product-price",
		".current-price",
		".sale-price",
		`[class*="price"]`,
	}

	availabilitySelectors = []string{
		`[itemprop="availability"]`,
		"[data-availability]",
		".availability",
		".stock-status",
		".in-stock",
		".out-of-stock",
	}

	variantSelectors = []string{
		`select[name*="option"] option`,
		"[data-option-index] option",
		".variant-option",
		".swatch-element",
		"[data-value]",
	}

	deliverySelectors = []string{
		`[class*="shipping"]`,
		`[class*="delivery"]`,
		"[data-shipping]",
		".shipping-info",
		".delivery-info",
	}
)

const maxVariants = 10

// FromVisibleMarkup extracts product data from rendered page elements.
// This is the lowest-trust layer; it never raises on missing data.
func FromVisibleMarkup(doc *goquery.Document, logger *slog.Logger) *Data {
	data := &Data{}

	data.Offer = domOffer(doc)

	if availability := domAvailability(doc); availability != "" {
		if data.Offer != nil {
			data.Offer.Availability = availability
		} else {
			// Placeholder price; a higher-trust source supplies the real one.
			data.Offer = &models.ProductOffer{
				Price:        "0.00",
				Currency:     "USD",
				Availability: availability,
			}
		}
	}

	data.Variants = domVariants(doc)
	data.DeliveryText = domDeliveryText(doc)

	if data.Empty() {
		logger.Debug("visible-markup layer found nothing", "reason", "no_price_availability_or_variants")
		return nil
	}
	return data
}

func domOffer(doc *goquery.Document) *models.ProductOffer {
	for _, selector := range priceSelectors {
		var offer *models.ProductOffer
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			raw := s.AttrOr("content", "")
			if raw == "" {
				raw = s.AttrOr("data-price", "")
			}
			if raw == "" {
				raw = s.AttrOr("data-product-price", "")
			}
			if raw == "" {
				raw = strings.TrimSpace(s.Text())
			}
			if raw == "" {
				return true
			}

			price, currency, ok := ParsePriceText(raw)
			if !ok {
				return true
			}
			offer = &models.ProductOffer{
				Price:        price,
				Currency:     currency,
				Availability: "InStock", // default, overridden when extracted
			}
			return false
		})
		if offer != nil {
			return offer
		}
	}
	return nil
}

func domAvailability(doc *goquery.Document) string {
	for _, selector := range availabilitySelectors {
		s := doc.Find(selector).First()
		if s.Length() == 0 {
			continue
		}

		href := strings.ToLower(s.AttrOr("href", ""))
		content := strings.ToLower(s.AttrOr("content", ""))
		text := strings.ToLower(strings.TrimSpace(s.Text()))

		// schema.org availability URLs in href/content attributes
		for _, v := range []string{href, content} {
			switch {
			case strings.Contains(v, "instock"):
				return "InStock"
			case strings.Contains(v, "outofstock"):
				return "OutOfStock"
			case strings.Contains(v, "preorder"):
				return "PreOrder"
			}
		}

		switch {
		case strings.Contains(text, "in stock") || strings.Contains(text, "available"):
			return "InStock"
		case strings.Contains(text, "out of stock") || strings.Contains(text, "sold out"):
			return "OutOfStock"
		case strings.Contains(text, "pre-order") || strings.Contains(text, "preorder"):
			return "PreOrder"
		}
	}
	return ""
}

func domVariants(doc *goquery.Document) []models.ProductVariant {
	for _, selector := range variantSelectors {
		var variants []models.ProductVariant
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			value := s.AttrOr("value", "")
			if value == "" {
				value = s.AttrOr("data-value", "")
			}
			if value == "" {
				value = strings.TrimSpace(s.Text())
			}
			if value == "" || value == "Choose an option" || value == "Select" {
				return true
			}

			name := strings.TrimSpace(s.Text())
			if name == "" {
				name = value
			}
			_, disabled := s.Attr("disabled")
			variants = append(variants, models.ProductVariant{
				Name:      name,
				Value:     value,
				SKU:       s.AttrOr("data-sku", ""),
				Available: !disabled,
			})
			return len(variants) < maxVariants
		})
		if len(variants) > 0 {
			return variants
		}
	}
	return nil
}

func domDeliveryText(doc *goquery.Document) string {
	for _, selector := range deliverySelectors {
		s := doc.Find(selector).First()
		if s.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(s.Text())
		if text != "" && len(text) < 200 {
			return text
		}
	}
	return ""
}
