package models

import (
	"context"
	"fmt"

	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
)

// NewDocumentItem is the line input shared by purchase orders, purchase
// receives and sales orders.
type NewDocumentItem struct {
	ProductId       int             `json:"product_id" binding:"required"`
	SpecificationId int             `json:"specification_id"`
	Name            string          `json:"name"`
	Qty             decimal.Decimal `json:"qty"`
	UnitRate        decimal.Decimal `json:"unit_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
}

// LineKey identifies a document line by product and specification.
// SpecificationId zero means the line has no specification; two such lines
// for the same product share the same key.
type LineKey struct {
	ProductId       int
	SpecificationId int
}

func (item NewDocumentItem) label(position int) string {
	if item.Name != "" {
		return item.Name
	}
	return fmt.Sprintf("Item %d", position)
}

// validateItems runs the ordered per-line checks. Checks are fail-fast and
// each failure names the offending line by product name or 1-based position.
func validateItems(items []NewDocumentItem) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	for i, item := range items {
		label := item.label(i + 1)
		if !item.Qty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%s: quantity must be greater than zero", label)
		}
		if item.UnitRate.IsNegative() {
			return fmt.Errorf("%s: unit rate cannot be negative", label)
		}
		if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(decimalOneHundred) {
			return fmt.Errorf("%s: discount percent must be between 0 and 100", label)
		}
		if item.TaxPercent.IsNegative() || item.TaxPercent.GreaterThan(decimalOneHundred) {
			return fmt.Errorf("%s: tax percent must be between 0 and 100", label)
		}
	}
	return nil
}

// validateItemProducts checks the referenced products and specifications
// exist. Runs after the pure checks since it hits the database.
func validateItemProducts(ctx context.Context, items []NewDocumentItem) error {
	for i, item := range items {
		label := item.label(i + 1)
		if err := utils.ValidateResourceId[Product](ctx, item.ProductId); err != nil {
			return fmt.Errorf("%s: product not found", label)
		}
		if item.SpecificationId > 0 {
			if err := utils.ValidateResourceId[ProductSpecification](ctx, item.SpecificationId); err != nil {
				return fmt.Errorf("%s: product specification not found", label)
			}
		}
	}
	return nil
}

var decimalOneHundred = decimal.NewFromInt(100)
