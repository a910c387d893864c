package extraction

import (
	"returns-assistant-be/pkg/refund"
)

// Canonical field names, in the order missing fields are reported.
const (
	FieldPurchasePrice     = "purchase_price"
	FieldDaysSinceDelivery = "days_since_delivery"
	FieldOpened            = "opened"
	FieldCategory          = "category"
)

// RequiredFields is the canonical order used for missing-field reporting.
var RequiredFields = []string{FieldPurchasePrice, FieldDaysSinceDelivery, FieldOpened, FieldCategory}

// ExtractedParams is partial by construction: a nil field is missing.
type ExtractedParams struct {
	PurchasePrice     *float64 `json:"purchase_price,omitempty"`
	DaysSinceDelivery *int     `json:"days_since_delivery,omitempty"`
	Opened            *bool    `json:"opened,omitempty"`
	Category          *string  `json:"category,omitempty"`
}

// Missing lists absent fields in canonical order.
func (p ExtractedParams) Missing() []string {
	missing := make([]string, 0, len(RequiredFields))
	if p.PurchasePrice == nil {
		missing = append(missing, FieldPurchasePrice)
	}
	if p.DaysSinceDelivery == nil {
		missing = append(missing, FieldDaysSinceDelivery)
	}
	if p.Opened == nil {
		missing = append(missing, FieldOpened)
	}
	if p.Category == nil {
		missing = append(missing, FieldCategory)
	}
	return missing
}

// Complete converts to refund.Params when every field is present.
func (p ExtractedParams) Complete() (refund.Params, bool) {
	if len(p.Missing()) > 0 {
		return refund.Params{}, false
	}
	return refund.Params{
		PurchasePrice:     *p.PurchasePrice,
		DaysSinceDelivery: *p.DaysSinceDelivery,
		Opened:            *p.Opened,
		Category:          *p.Category,
	}, true
}

func (p *ExtractedParams) setPrice(v float64)   { p.PurchasePrice = &v }
func (p *ExtractedParams) setDays(v int)        { p.DaysSinceDelivery = &v }
func (p *ExtractedParams) setOpened(v bool)     { p.Opened = &v }
func (p *ExtractedParams) setCategory(v string) { p.Category = &v }
