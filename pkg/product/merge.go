package product

import (
	"log/slog"
)

// Merge arbitrates between the three layers with a fixed per-field trust
// table:
//
//	sku       graph > state
//	mpn       graph only
//	brand     graph > state
//	offer     graph > state > markup
//	rating    graph > state
//	variants  state > markup (script-embedded variant arrays are typically
//	          more complete than the graph's)
//	images    graph only, source order preserved
//	delivery  markup only
//
// A field takes the highest-precedence non-empty value; values are never
// averaged or concatenated across sources. The winning source per field is
// logged for auditability.
func Merge(markup, graph, state *Data, logger *slog.Logger) *Data {
	result := &Data{}
	wins := map[string]string{}

	if graph != nil && graph.SKU != "" {
		result.SKU = graph.SKU
		wins["sku"] = "structured_graph"
	} else if state != nil && state.SKU != "" {
		result.SKU = state.SKU
		wins["sku"] = "embedded_state"
	}

	if graph != nil && graph.MPN != "" {
		result.MPN = graph.MPN
		wins["mpn"] = "structured_graph"
	}

	if graph != nil && graph.Brand != "" {
		result.Brand = graph.Brand
		wins["brand"] = "structured_graph"
	} else if state != nil && state.Brand != "" {
		result.Brand = state.Brand
		wins["brand"] = "embedded_state"
	}

	if graph != nil && graph.Offer != nil {
		result.Offer = graph.Offer
		wins["offer"] = "structured_graph"
	} else if state != nil && state.Offer != nil {
		result.Offer = state.Offer
		wins["offer"] = "embedded_state"
	} else if markup != nil && markup.Offer != nil {
		result.Offer = markup.Offer
		wins["offer"] = "visible_markup"
	}

	if graph != nil && graph.Rating != nil {
		result.Rating = graph.Rating
		wins["rating"] = "structured_graph"
	} else if state != nil && state.Rating != nil {
		result.Rating = state.Rating
		wins["rating"] = "embedded_state"
	}

	if state != nil && len(state.Variants) > 0 {
		result.Variants = state.Variants
		wins["variants"] = "embedded_state"
	} else if markup != nil && len(markup.Variants) > 0 {
		result.Variants = markup.Variants
		wins["variants"] = "visible_markup"
	}

	if graph != nil && len(graph.Images) > 0 {
		result.Images = graph.Images
		wins["images"] = "structured_graph"
	}

	if markup != nil && markup.DeliveryText != "" {
		result.DeliveryText = markup.DeliveryText
		wins["delivery_text"] = "visible_markup"
	}

	if len(wins) > 0 {
		logger.Debug("product fields merged", "winning_sources", wins)
	}

	return result
}
