package utils

import (
	"github.com/shopspring/decimal"
)

var decimalOneHundred = decimal.NewFromInt(100)

// LineAmounts holds the derived amounts of a single document line.
type LineAmounts struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// DocumentTotals holds the aggregate amounts of a document body.
//
// FinalAmount = TotalAmount - TotalDiscountAmount + TotalTaxAmount,
// which by construction equals the sum of each line's Total.
type DocumentTotals struct {
	TotalAmount         decimal.Decimal `json:"total_amount"`
	TotalDiscountAmount decimal.Decimal `json:"total_discount_amount"`
	TotalTaxAmount      decimal.Decimal `json:"total_tax_amount"`
	FinalAmount         decimal.Decimal `json:"final_amount"`
}

// CalculateDiscountAmount returns the discount on subTotal for a percentage
// discount. Percent divisions are rounded to 4 places.
func CalculateDiscountAmount(subTotal decimal.Decimal, discountPercent decimal.Decimal) decimal.Decimal {
	if !discountPercent.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return subTotal.Mul(discountPercent).DivRound(decimalOneHundred, 4)
}

// CalculateTaxAmount returns the tax on an already-discounted taxable amount.
// Tax here is always exclusive: (taxable / 100) * taxRate.
func CalculateTaxAmount(taxableAmount decimal.Decimal, taxPercent decimal.Decimal) decimal.Decimal {
	if !taxPercent.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return taxableAmount.DivRound(decimalOneHundred, 4).Mul(taxPercent)
}

// ComputeLineAmounts derives all amounts of one line from its inputs.
// Percentages outside [0,100] are a validation concern upstream; the
// calculator itself does not clamp.
func ComputeLineAmounts(qty, unitRate, discountPercent, taxPercent decimal.Decimal) LineAmounts {
	subtotal := qty.Mul(unitRate)
	discountAmount := CalculateDiscountAmount(subtotal, discountPercent)
	taxableAmount := subtotal.Sub(discountAmount)
	taxAmount := CalculateTaxAmount(taxableAmount, taxPercent)

	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		Total:          taxableAmount.Add(taxAmount),
	}
}

// AggregateLineAmounts sums line amounts into document totals.
// Zero lines yield zero totals; blocking empty documents is the
// assembler's job, not the aggregator's.
func AggregateLineAmounts(lines []LineAmounts) DocumentTotals {
	var totals DocumentTotals
	for _, line := range lines {
		totals.TotalAmount = totals.TotalAmount.Add(line.Subtotal)
		totals.TotalDiscountAmount = totals.TotalDiscountAmount.Add(line.DiscountAmount)
		totals.TotalTaxAmount = totals.TotalTaxAmount.Add(line.TaxAmount)
	}
	totals.FinalAmount = totals.TotalAmount.Sub(totals.TotalDiscountAmount).Add(totals.TotalTaxAmount)
	return totals
}
