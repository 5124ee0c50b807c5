package models

import (
	"context"
)

// ReferenceData is the batch payload the client loads when a document
// screen mounts, so it does not fire four requests for the pickers.
type ReferenceData struct {
	Suppliers  []*Supplier    `json:"suppliers"`
	Customers  []*Customer    `json:"customers"`
	Warehouses []*Warehouse   `json:"warehouses"`
	Units      []*ProductUnit `json:"units"`
}

func GetReferenceData(ctx context.Context) (*ReferenceData, error) {
	suppliers, err := ListSuppliers(ctx, nil)
	if err != nil {
		return nil, err
	}
	customers, err := ListCustomers(ctx, nil)
	if err != nil {
		return nil, err
	}
	warehouses, err := ListWarehouses(ctx, nil)
	if err != nil {
		return nil, err
	}
	units, err := ListProductUnits(ctx)
	if err != nil {
		return nil, err
	}

	return &ReferenceData{
		Suppliers:  suppliers,
		Customers:  customers,
		Warehouses: warehouses,
		Units:      units,
	}, nil
}
