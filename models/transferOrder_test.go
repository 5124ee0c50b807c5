package models

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewTransferOrderValidate_SameWarehouseRejected(t *testing.T) {
	input := &NewTransferOrder{
		SourceWarehouseId:      3,
		DestinationWarehouseId: 3,
		TransferDate:           time.Now(),
		Details:                []NewTransferItem{{ProductId: 1, Qty: dec("5")}},
	}

	err := input.validate(context.Background())
	if err == nil || !strings.Contains(err.Error(), "different") {
		t.Fatalf("expected same-warehouse error, got %v", err)
	}
}

func TestBuildTransferOrderDetails_SumsQty(t *testing.T) {
	items := []NewTransferItem{
		{ProductId: 1, Qty: dec("5")},
		{ProductId: 2, Qty: dec("2.5")},
	}

	details, totalQty := buildTransferOrderDetails(items)

	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	if totalQty.Cmp(dec("7.5")) != 0 {
		t.Fatalf("total qty expected 7.5, got %s", totalQty)
	}
}
