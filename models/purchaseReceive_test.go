package models

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

func confirmedReceive(details ...PurchaseReceiveDetail) PurchaseReceive {
	return PurchaseReceive{
		CurrentStatus: PurchaseReceiveStatusConfirmed,
		Details:       details,
	}
}

func TestResolveRemainingLines_PartialReceives(t *testing.T) {
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, Name: "Cement", Qty: dec("100")},
	}
	priorReceives := []PurchaseReceive{
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, Qty: dec("40")}),
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, Qty: dec("25")}),
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)

	if len(lines) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(lines))
	}
	if lines[0].RemainingQty.Cmp(dec("35")) != 0 {
		t.Fatalf("remaining expected 35, got %s", lines[0].RemainingQty)
	}
	if lines[0].ReceivedQty.Cmp(dec("65")) != 0 {
		t.Fatalf("received expected 65, got %s", lines[0].ReceivedQty)
	}
}

func TestResolveRemainingLines_FullyReceivedLinesDropped(t *testing.T) {
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, Name: "Cement", Qty: dec("10")},
		{ProductId: 2, Name: "Sand", Qty: dec("5")},
	}
	priorReceives := []PurchaseReceive{
		confirmedReceive(
			PurchaseReceiveDetail{ProductId: 1, Qty: dec("10")},
			PurchaseReceiveDetail{ProductId: 2, Qty: dec("2")},
		),
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)

	if len(lines) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(lines))
	}
	if lines[0].ProductId != 2 {
		t.Fatalf("expected product 2 to remain, got %d", lines[0].ProductId)
	}
	if lines[0].RemainingQty.Cmp(dec("3")) != 0 {
		t.Fatalf("remaining expected 3, got %s", lines[0].RemainingQty)
	}
}

func TestResolveRemainingLines_NothingLeft(t *testing.T) {
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, Qty: dec("10")},
	}
	priorReceives := []PurchaseReceive{
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, Qty: dec("10")}),
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)
	if len(lines) != 0 {
		t.Fatalf("expected no remaining lines, got %d", len(lines))
	}
}

func TestResolveRemainingLines_SpecificationsAreSeparateBuckets(t *testing.T) {
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, SpecificationId: 11, Name: "Shirt (M)", Qty: dec("20")},
		{ProductId: 1, SpecificationId: 12, Name: "Shirt (L)", Qty: dec("20")},
	}
	priorReceives := []PurchaseReceive{
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, SpecificationId: 11, Qty: dec("20")}),
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)

	if len(lines) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(lines))
	}
	if lines[0].SpecificationId != 12 {
		t.Fatalf("expected specification 12 to remain, got %d", lines[0].SpecificationId)
	}
	if lines[0].RemainingQty.Cmp(dec("20")) != 0 {
		t.Fatalf("remaining expected 20, got %s", lines[0].RemainingQty)
	}
}

func TestResolveRemainingLines_NoSpecLinesCollapse(t *testing.T) {
	// two order lines for the same product without specification share one
	// bucket
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, Name: "Cement", Qty: dec("10")},
		{ProductId: 1, Name: "Cement", Qty: dec("15")},
	}
	priorReceives := []PurchaseReceive{
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, Qty: dec("12")}),
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)

	if len(lines) != 1 {
		t.Fatalf("expected 1 collapsed line, got %d", len(lines))
	}
	if lines[0].OrderedQty.Cmp(dec("25")) != 0 {
		t.Fatalf("ordered expected 25, got %s", lines[0].OrderedQty)
	}
	if lines[0].RemainingQty.Cmp(dec("13")) != 0 {
		t.Fatalf("remaining expected 13, got %s", lines[0].RemainingQty)
	}
}

func TestResolveRemainingLines_DraftReceivesIgnored(t *testing.T) {
	orderDetails := []PurchaseOrderDetail{
		{ProductId: 1, Qty: dec("10")},
	}
	priorReceives := []PurchaseReceive{
		{
			CurrentStatus: PurchaseReceiveStatusDraft,
			Details:       []PurchaseReceiveDetail{{ProductId: 1, Qty: dec("4")}},
		},
	}

	lines := ResolveRemainingLines(orderDetails, priorReceives)

	if len(lines) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(lines))
	}
	if lines[0].RemainingQty.Cmp(dec("10")) != 0 {
		t.Fatalf("draft receives must not count, remaining expected 10, got %s", lines[0].RemainingQty)
	}
}

func TestBuildReceivedQuantityIndex(t *testing.T) {
	priorReceives := []PurchaseReceive{
		confirmedReceive(
			PurchaseReceiveDetail{ProductId: 1, Qty: dec("4")},
			PurchaseReceiveDetail{ProductId: 2, SpecificationId: 7, Qty: dec("2")},
		),
		confirmedReceive(PurchaseReceiveDetail{ProductId: 1, Qty: dec("6")}),
	}

	index := BuildReceivedQuantityIndex(priorReceives)

	if got := index[LineKey{ProductId: 1}]; got.Cmp(dec("10")) != 0 {
		t.Fatalf("product 1 expected 10, got %s", got)
	}
	if got := index[LineKey{ProductId: 2, SpecificationId: 7}]; got.Cmp(dec("2")) != 0 {
		t.Fatalf("product 2 spec 7 expected 2, got %s", got)
	}
	if got := index[LineKey{ProductId: 2}]; !got.IsZero() {
		t.Fatalf("product 2 without spec expected zero, got %s", got)
	}
}
