package models

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildPurchaseOrderDetails_TotalsMatchLines(t *testing.T) {
	items := []NewDocumentItem{
		{ProductId: 1, Name: "Cement", Qty: dec("10"), UnitRate: dec("1000"), DiscountPercent: dec("10"), TaxPercent: dec("5")},
		{ProductId: 2, Name: "Sand", Qty: dec("4"), UnitRate: dec("250.50"), TaxPercent: dec("7.5")},
	}

	details, totals := buildPurchaseOrderDetails(items)

	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if details[0].TotalAmount.Cmp(dec("9450")) != 0 {
		t.Fatalf("first line total expected 9450, got %s", details[0].TotalAmount)
	}

	sum := details[0].TotalAmount.Add(details[1].TotalAmount)
	if totals.FinalAmount.Cmp(sum) != 0 {
		t.Fatalf("final amount %s does not equal sum of line totals %s", totals.FinalAmount, sum)
	}
	if totals.TotalAmount.Cmp(dec("11002")) != 0 {
		t.Fatalf("total amount expected 11002, got %s", totals.TotalAmount)
	}
}

func TestNewPurchaseOrderValidate_OrderedHeaderChecks(t *testing.T) {
	ctx := context.Background()

	// party first
	input := &NewPurchaseOrder{}
	if err := input.validate(ctx); err == nil || !strings.Contains(err.Error(), "supplier") {
		t.Fatalf("expected supplier error, got %v", err)
	}

	// then date
	input.SupplierId = 1
	if err := input.validate(ctx); err == nil || !strings.Contains(err.Error(), "order date") {
		t.Fatalf("expected order date error, got %v", err)
	}

	// then warehouse
	input.OrderDate = time.Now()
	if err := input.validate(ctx); err == nil || !strings.Contains(err.Error(), "warehouse") {
		t.Fatalf("expected warehouse error, got %v", err)
	}

	// then lines
	input.WarehouseId = 1
	if err := input.validate(ctx); err == nil || !strings.Contains(err.Error(), "at least one item") {
		t.Fatalf("expected empty items error, got %v", err)
	}
}
