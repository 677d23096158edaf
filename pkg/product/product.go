// Package product implements the three-layer product-data fusion engine:
// independent extraction from visible markup, from the structured-data
// graph, and from embedded script state, arbitrated by a fixed per-field
// trust table. No field is ever averaged, concatenated, or inferred; a
// field absent from all three layers stays unset.
package product

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/schemaforge/models"
	"github.com/dtnitsch/schemaforge/pkg/jsongraph"
)

// Data is the partial record one extraction layer produces. Zero values
// mean "not found".
type Data struct {
	SKU          string
	MPN          string
	Brand        string
	Offer        *models.ProductOffer
	Rating       *models.AggregateRatingData
	Variants     []models.ProductVariant
	Images       []string
	DeliveryText string
}

// Empty reports whether the layer found nothing at all.
func (d *Data) Empty() bool {
	return d == nil || (d.SKU == "" && d.MPN == "" && d.Brand == "" &&
		d.Offer == nil && d.Rating == nil && len(d.Variants) == 0 &&
		len(d.Images) == 0 && d.DeliveryText == "")
}

// Extract runs all three layers over the page and merges their output.
func Extract(doc *goquery.Document, graph jsongraph.Graph, logger *slog.Logger) *Data {
	dom := FromVisibleMarkup(doc, logger)
	structured := FromGraph(graph, logger)
	state := FromScriptState(doc, logger)

	return Merge(dom, structured, state, logger)
}
