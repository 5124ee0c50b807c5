package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validItem(name string) NewDocumentItem {
	return NewDocumentItem{
		ProductId: 1,
		Name:      name,
		Qty:       dec("2"),
		UnitRate:  dec("100"),
	}
}

func TestValidateItems_EmptyList(t *testing.T) {
	if err := validateItems(nil); err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestValidateItems_ChecksRunInOrder(t *testing.T) {
	// an item failing several checks must report the first one: quantity
	item := validItem("Cement")
	item.Qty = decimal.Zero
	item.UnitRate = dec("-1")
	item.DiscountPercent = dec("150")

	err := validateItems([]NewDocumentItem{item})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quantity") {
		t.Fatalf("expected quantity error first, got %q", err.Error())
	}
}

func TestValidateItems_NamesTheOffendingLine(t *testing.T) {
	items := []NewDocumentItem{
		validItem("Cement"),
		{ProductId: 2, Name: "Sand", Qty: dec("3"), UnitRate: dec("50"), TaxPercent: dec("101")},
	}

	err := validateItems(items)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Sand") {
		t.Fatalf("expected error to name the product, got %q", err.Error())
	}
}

func TestValidateItems_PositionFallbackWhenUnnamed(t *testing.T) {
	items := []NewDocumentItem{
		validItem("Cement"),
		{ProductId: 2, Qty: decimal.Zero, UnitRate: dec("50")},
	}

	err := validateItems(items)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Item 2") {
		t.Fatalf("expected 1-based position label, got %q", err.Error())
	}
}

func TestValidateItems_PercentBounds(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*NewDocumentItem)
		message string
	}{
		{"negative rate", func(i *NewDocumentItem) { i.UnitRate = dec("-0.01") }, "unit rate"},
		{"discount over 100", func(i *NewDocumentItem) { i.DiscountPercent = dec("100.01") }, "discount percent"},
		{"negative discount", func(i *NewDocumentItem) { i.DiscountPercent = dec("-1") }, "discount percent"},
		{"tax over 100", func(i *NewDocumentItem) { i.TaxPercent = dec("200") }, "tax percent"},
		{"negative tax", func(i *NewDocumentItem) { i.TaxPercent = dec("-5") }, "tax percent"},
	}

	for _, tc := range cases {
		item := validItem("Cement")
		tc.mutate(&item)
		err := validateItems([]NewDocumentItem{item})
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("%s: expected %q in error, got %q", tc.name, tc.message, err.Error())
		}
	}
}

func TestValidateItems_BoundaryPercentsAllowed(t *testing.T) {
	item := validItem("Cement")
	item.DiscountPercent = dec("100")
	item.TaxPercent = decimal.Zero

	if err := validateItems([]NewDocumentItem{item}); err != nil {
		t.Fatalf("boundary percents must pass, got %v", err)
	}
}

func TestValidateItems_ZeroRateAllowed(t *testing.T) {
	// free-of-charge lines are legal
	item := validItem("Sample")
	item.UnitRate = decimal.Zero

	if err := validateItems([]NewDocumentItem{item}); err != nil {
		t.Fatalf("zero unit rate must pass, got %v", err)
	}
}
