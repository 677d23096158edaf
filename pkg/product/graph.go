package product

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

// gtinKeys are tried as SKU fallbacks when a Product node carries no sku.
var gtinKeys = []string{"gtin", "gtin13", "gtin12", "gtin8", "gtin14"}

// FromGraph extracts product data from Product-typed nodes in the unified
// structured-data index. This is the highest-trust layer.
func FromGraph(graph jsongraph.Graph, logger *slog.Logger) *Data {
	nodes := graph.Nodes("Product")
	if len(nodes) == 0 {
		logger.Debug("structured-graph layer found nothing", "reason", "no_product_node")
		return nil
	}

	data := &Data{}
	for _, node := range nodes {
		fillFromProductNode(data, node)
	}

	if data.Empty() {
		return nil
	}
	return data
}

// fillFromProductNode copies fields from one Product node into data,
// keeping earlier nodes' values.
func fillFromProductNode(data *Data, node jsongraph.Node) {
	if data.SKU == "" {
		if sku := stringValue(node["sku"]); sku != "" {
			data.SKU = sku
		} else {
			for _, key := range gtinKeys {
				if gtin := stringValue(node[key]); gtin != "" {
					data.SKU = gtin
					break
				}
			}
		}
	}

	if data.MPN == "" {
		data.MPN = stringValue(node["mpn"])
	}

	if data.Brand == "" {
		switch brand := node["brand"].(type) {
		case string:
			data.Brand = strings.TrimSpace(brand)
		case map[string]any:
			if name, ok := brand["name"].(string); ok {
				data.Brand = strings.TrimSpace(name)
			}
		}
	}

	if len(data.Images) == 0 {
		data.Images = NormalizeImages(node["image"])
	}

	if data.Offer == nil {
		data.Offer = parseOffers(node["offers"])
	}

	if data.Rating == nil {
		data.Rating = parseRating(node["aggregateRating"])
	}
}

// NormalizeImages flattens the three legal image shapes — bare string,
// array of strings, object(s) with a url-bearing field — into an ordered
// list of URLs. Source order is preserved.
func NormalizeImages(image any) []string {
	var urls []string

	switch v := image.(type) {
	case string:
		urls = append(urls, v)
	case []any:
		for _, item := range v {
			switch img := item.(type) {
			case string:
				urls = append(urls, img)
			case map[string]any:
				if u := imageObjectURL(img); u != "" {
					urls = append(urls, u)
				}
			}
		}
	case map[string]any:
		if u := imageObjectURL(v); u != "" {
			urls = append(urls, u)
		}
	}

	return urls
}

func imageObjectURL(img map[string]any) string {
	for _, key := range []string{"url", "@id", "contentUrl"} {
		if u, ok := img[key].(string); ok && u != "" {
			return u
		}
	}
	return ""
}

// parseOffers normalizes an offers value (object or array) into an offer.
// An array contributes its first member.
func parseOffers(offers any) *models.ProductOffer {
	if list, ok := offers.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		offers = list[0]
	}

	obj, ok := offers.(map[string]any)
	if !ok {
		return nil
	}

	price := stringValue(obj["price"])
	if price == "" {
		price = stringValue(obj["lowPrice"])
	}
	if price == "" {
		return nil
	}

	currency := "USD"
	if c, ok := obj["priceCurrency"].(string); ok && c != "" {
		currency = c
	}

	offer := &models.ProductOffer{
		Price:        price,
		Currency:     currency,
		Availability: normalizeAvailability(stringValue(obj["availability"])),
	}
	if until, ok := obj["priceValidUntil"].(string); ok {
		offer.PriceValidUntil = until
	}
	if seller, ok := obj["seller"].(map[string]any); ok {
		if name, ok := seller["name"].(string); ok {
			offer.SellerName = name
		}
	}
	return offer
}

// normalizeAvailability reduces schema.org availability URLs to the bare
// status token, defaulting to InStock.
func normalizeAvailability(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "outofstock"):
		return "OutOfStock"
	case strings.Contains(lower, "preorder"):
		return "PreOrder"
	case strings.Contains(lower, "limitedavailability"):
		return "LimitedAvailability"
	default:
		return "InStock"
	}
}

// parseRating normalizes an aggregateRating block. Rating values outside
// [0,5] are rejected; a missing review count stays 0 and is never invented.
func parseRating(rating any) *models.AggregateRatingData {
	obj, ok := rating.(map[string]any)
	if !ok {
		return nil
	}

	value, ok := floatValue(obj["ratingValue"])
	if !ok || value < 0 || value > 5 {
		return nil
	}

	count := 0
	if c, ok := floatValue(obj["reviewCount"]); ok {
		count = int(c)
	} else if c, ok := floatValue(obj["ratingCount"]); ok {
		count = int(c)
	}
	if count < 0 {
		count = 0
	}

	best := 5.0
	if b, ok := floatValue(obj["bestRating"]); ok {
		best = b
	}
	worst := 1.0
	if w, ok := floatValue(obj["worstRating"]); ok {
		worst = w
	}

	return &models.AggregateRatingData{
		RatingValue: value,
		ReviewCount: count,
		BestRating:  best,
		WorstRating: worst,
	}
}

// stringValue renders scalar JSON values as strings; identifiers like sku
// arrive as numbers often enough to matter.
func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return fmt.Sprintf("%v", s)
	}
	return ""
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
