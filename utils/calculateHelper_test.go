package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineAmounts_DiscountAndTax(t *testing.T) {
	// qty 10 x 1000, 10% discount, 5% tax on the discounted amount
	got := ComputeLineAmounts(dec("10"), dec("1000"), dec("10"), dec("5"))

	if got.Subtotal.Cmp(dec("10000")) != 0 {
		t.Fatalf("subtotal expected 10000, got %s", got.Subtotal)
	}
	if got.DiscountAmount.Cmp(dec("1000")) != 0 {
		t.Fatalf("discount expected 1000, got %s", got.DiscountAmount)
	}
	if got.TaxAmount.Cmp(dec("450")) != 0 {
		t.Fatalf("tax expected 450, got %s", got.TaxAmount)
	}
	if got.Total.Cmp(dec("9450")) != 0 {
		t.Fatalf("total expected 9450, got %s", got.Total)
	}
}

func TestComputeLineAmounts_ZeroPercents(t *testing.T) {
	got := ComputeLineAmounts(dec("3"), dec("250.50"), decimal.Zero, decimal.Zero)

	if got.Subtotal.Cmp(dec("751.5")) != 0 {
		t.Fatalf("subtotal expected 751.5, got %s", got.Subtotal)
	}
	if !got.DiscountAmount.IsZero() || !got.TaxAmount.IsZero() {
		t.Fatalf("expected zero discount and tax, got %s / %s", got.DiscountAmount, got.TaxAmount)
	}
	if got.Total.Cmp(got.Subtotal) != 0 {
		t.Fatalf("total expected to equal subtotal, got %s", got.Total)
	}
}

func TestComputeLineAmounts_TaxAppliesAfterDiscount(t *testing.T) {
	// tax must be computed on the discounted amount, not the raw subtotal
	got := ComputeLineAmounts(dec("1"), dec("200"), dec("50"), dec("10"))

	if got.DiscountAmount.Cmp(dec("100")) != 0 {
		t.Fatalf("discount expected 100, got %s", got.DiscountAmount)
	}
	if got.TaxAmount.Cmp(dec("10")) != 0 {
		t.Fatalf("tax expected 10, got %s", got.TaxAmount)
	}
	if got.Total.Cmp(dec("110")) != 0 {
		t.Fatalf("total expected 110, got %s", got.Total)
	}
}

func TestComputeLineAmounts_FractionalQty(t *testing.T) {
	// decimal math must not lose cents on fractional quantities
	got := ComputeLineAmounts(dec("2.5"), dec("19.99"), decimal.Zero, decimal.Zero)

	if got.Subtotal.Cmp(dec("49.975")) != 0 {
		t.Fatalf("subtotal expected 49.975, got %s", got.Subtotal)
	}
}

func TestAggregateLineAmounts_FinalEqualsSumOfLineTotals(t *testing.T) {
	lines := []LineAmounts{
		ComputeLineAmounts(dec("10"), dec("1000"), dec("10"), dec("5")),
		ComputeLineAmounts(dec("3"), dec("75.25"), dec("2.5"), dec("7")),
		ComputeLineAmounts(dec("1"), dec("999.99"), decimal.Zero, dec("12.5")),
	}

	totals := AggregateLineAmounts(lines)

	var sumOfTotals decimal.Decimal
	for _, line := range lines {
		sumOfTotals = sumOfTotals.Add(line.Total)
	}

	if totals.FinalAmount.Cmp(sumOfTotals) != 0 {
		t.Fatalf("final amount %s does not equal sum of line totals %s", totals.FinalAmount, sumOfTotals)
	}

	expectedFinal := totals.TotalAmount.Sub(totals.TotalDiscountAmount).Add(totals.TotalTaxAmount)
	if totals.FinalAmount.Cmp(expectedFinal) != 0 {
		t.Fatalf("final amount %s does not follow total - discount + tax = %s", totals.FinalAmount, expectedFinal)
	}
}

func TestAggregateLineAmounts_Empty(t *testing.T) {
	totals := AggregateLineAmounts(nil)

	if !totals.TotalAmount.IsZero() || !totals.TotalDiscountAmount.IsZero() ||
		!totals.TotalTaxAmount.IsZero() || !totals.FinalAmount.IsZero() {
		t.Fatalf("empty input expected zero totals, got %+v", totals)
	}
}

func TestCalculateDiscountAmount_NegativeOrZeroPercent(t *testing.T) {
	if got := CalculateDiscountAmount(dec("1000"), decimal.Zero); !got.IsZero() {
		t.Fatalf("zero percent expected zero discount, got %s", got)
	}
	if got := CalculateDiscountAmount(dec("1000"), dec("-5")); !got.IsZero() {
		t.Fatalf("negative percent expected zero discount, got %s", got)
	}
}
