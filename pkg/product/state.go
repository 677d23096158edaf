package product

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
)

// Known state-assignment patterns in inline scripts. Each captures the
// object literal assigned to a global.
var (
	initialStatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\});`),
		regexp.MustCompile(`(?s)window\.__PRELOADED_STATE__\s*=\s*(\{.*?\});`),
	}

	productObjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)(?:window\.)?product\s*=\s*(\{[^;]+\});`),
		regexp.MustCompile(`(?s)var\s+product\s*=\s*(\{[^;]+\});`),
		regexp.MustCompile(`(?s)const\s+product\s*=\s*(\{[^;]+\});`),
		regexp.MustCompile(`(?s)let\s+product\s*=\s*(\{[^;]+\});`),
	}

	analyticsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)ShopifyAnalytics\.meta\s*=\s*(\{.*?\});`),
		regexp.MustCompile(`(?s)var\s+meta\s*=\s*(\{.*?"product".*?\});`),
	}

	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
)

// maxStateDepth bounds the recursive product search in state trees.
const maxStateDepth = 3

// productIndicators decide whether an object "looks like a product":
// at least two must be present as keys.
var productIndicators = []string{"price", "variants", "sku", "title", "name"}

// FromScriptState scans inline script bodies for known state-assignment
// patterns and pulls product data out of them. Middle trust layer.
func FromScriptState(doc *goquery.Document, logger *slog.Logger) *Data {
	data := &Data{}

	doc.Find("script:not([src])").Each(func(i int, s *goquery.Selection) {
		text := s.Text()
		if text == "" {
			return
		}

		if found := stateFromGlobalAssignment(text); found != nil {
			mergePartial(data, found)
		}
		if found := stateFromProductObject(text); found != nil {
			mergePartial(data, found)
		}
		if found := stateFromAnalytics(text); found != nil {
			mergePartial(data, found)
		}
	})

	if data.Empty() {
		logger.Debug("embedded-state layer found nothing", "reason", "no_state_assignment_matched")
		return nil
	}
	return data
}

func stateFromGlobalAssignment(script string) *Data {
	for _, pattern := range initialStatePatterns {
		match := pattern.FindStringSubmatch(script)
		if match == nil {
			continue
		}
		var state map[string]any
		if err := json.Unmarshal([]byte(match[1]), &state); err != nil {
			continue
		}
		if obj := findProductInState(state, 0); obj != nil {
			return normalizeStateProduct(obj)
		}
	}
	return nil
}

func stateFromProductObject(script string) *Data {
	for _, pattern := range productObjectPatterns {
		match := pattern.FindStringSubmatch(script)
		if match == nil {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(cleanJSObject(match[1])), &obj); err != nil {
			continue
		}
		if d := normalizeStateProduct(obj); !d.Empty() {
			return d
		}
	}
	return nil
}

func stateFromAnalytics(script string) *Data {
	for _, pattern := range analyticsPatterns {
		match := pattern.FindStringSubmatch(script)
		if match == nil {
			continue
		}
		var blob map[string]any
		if err := json.Unmarshal([]byte(match[1]), &blob); err != nil {
			continue
		}

		obj, _ := blob["product"].(map[string]any)
		if obj == nil {
			if items, ok := blob["items"].([]any); ok && len(items) > 0 {
				obj, _ = items[0].(map[string]any)
			}
		}
		if obj == nil {
			obj = blob
		}
		if d := normalizeStateProduct(obj); !d.Empty() {
			return d
		}
	}
	return nil
}

// findProductInState walks a state tree looking for a sub-object that looks
// like a product (≥2 indicator keys). Depth is capped at 3.
func findProductInState(state map[string]any, depth int) map[string]any {
	if depth > maxStateDepth {
		return nil
	}

	hits := 0
	for _, key := range productIndicators {
		if _, ok := state[key]; ok {
			hits++
		}
	}
	if hits >= 2 {
		return state
	}

	for _, key := range []string{"product", "products", "productData", "item", "items"} {
		switch child := state[key].(type) {
		case map[string]any:
			return child
		case []any:
			if len(child) > 0 {
				if first, ok := child[0].(map[string]any); ok {
					return first
				}
			}
			return nil
		}
	}

	for _, value := range state {
		if child, ok := value.(map[string]any); ok {
			if found := findProductInState(child, depth+1); found != nil {
				return found
			}
		}
	}

	return nil
}

// normalizeStateProduct maps a loose script-state product object into Data.
func normalizeStateProduct(obj map[string]any) *Data {
	data := &Data{}

	for _, key := range []string{"sku", "id", "product_id", "productId"} {
		if sku := stringValue(obj[key]); sku != "" {
			data.SKU = sku
			break
		}
	}

	brand := obj["brand"]
	if brand == nil {
		brand = obj["vendor"]
	}
	switch b := brand.(type) {
	case string:
		data.Brand = strings.TrimSpace(b)
	case map[string]any:
		if name, ok := b["name"].(string); ok {
			data.Brand = strings.TrimSpace(name)
		}
	}

	if variants, ok := obj["variants"].([]any); ok && len(variants) > 0 {
		data.Variants = parseStateVariants(variants)
		if first, ok := variants[0].(map[string]any); ok {
			data.Offer = offerFromStateObject(first)
		}
	}

	if data.Offer == nil {
		price := obj["price"]
		if price == nil {
			price = obj["price_amount"]
		}
		if price != nil {
			data.Offer = offerFromPrice(price, obj)
		}
	}

	return data
}

func parseStateVariants(raw []any) []models.ProductVariant {
	var variants []models.ProductVariant
	for _, item := range raw {
		if len(variants) >= maxVariants {
			break
		}
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := stringValue(v["title"])
		if name == "" {
			name = stringValue(v["name"])
		}
		if name == "" {
			name = stringValue(v["option1"])
		}
		if name == "" {
			name = "Variant"
		}

		variant := models.ProductVariant{
			Name:      name,
			Value:     name,
			SKU:       stringValue(v["sku"]),
			Available: true,
		}
		if avail, ok := v["available"].(bool); ok {
			variant.Available = avail
		}
		if price, ok := priceFromAny(v["price"]); ok {
			variant.Price = price
		}
		variants = append(variants, variant)
	}
	return variants
}

func offerFromStateObject(variant map[string]any) *models.ProductOffer {
	price, ok := priceFromAny(variant["price"])
	if !ok {
		return nil
	}

	currency := stringValue(variant["currency"])
	if currency == "" {
		currency = "USD"
	}

	availability := "InStock"
	if avail, ok := variant["available"].(bool); ok && !avail {
		availability = "OutOfStock"
	}

	return &models.ProductOffer{Price: price, Currency: currency, Availability: availability}
}

func offerFromPrice(raw any, obj map[string]any) *models.ProductOffer {
	price, ok := priceFromAny(raw)
	if !ok {
		return nil
	}

	currency := stringValue(obj["currency"])
	if currency == "" {
		currency = stringValue(obj["currency_code"])
	}
	if currency == "" {
		currency = "USD"
	}

	availability := "InStock"
	if avail, ok := obj["available"].(bool); ok && !avail {
		availability = "OutOfStock"
	}

	return &models.ProductOffer{Price: price, Currency: currency, Availability: availability}
}

// cleanJSObject turns a JS object literal into parseable JSON: trailing
// commas removed, bare keys quoted.
func cleanJSObject(js string) string {
	js = trailingCommaRe.ReplaceAllString(js, "$1")
	js = unquotedKeyRe.ReplaceAllString(js, `$1"$2"$3`)
	return js
}

// mergePartial fills empty fields of dst from src; earlier finds win.
func mergePartial(dst, src *Data) {
	if src == nil {
		return
	}
	if dst.SKU == "" {
		dst.SKU = src.SKU
	}
	if dst.MPN == "" {
		dst.MPN = src.MPN
	}
	if dst.Brand == "" {
		dst.Brand = src.Brand
	}
	if dst.Offer == nil {
		dst.Offer = src.Offer
	}
	if dst.Rating == nil {
		dst.Rating = src.Rating
	}
	if len(dst.Variants) == 0 {
		dst.Variants = src.Variants
	}
	if len(dst.Images) == 0 {
		dst.Images = src.Images
	}
	if dst.DeliveryText == "" {
		dst.DeliveryText = src.DeliveryText
	}
}
