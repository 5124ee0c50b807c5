package models

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrder struct {
	ID                   int                 `gorm:"primary_key" json:"id"`
	SupplierId           int                 `gorm:"index;not null" json:"supplier_id" binding:"required"`
	WarehouseId          int                 `gorm:"index;not null" json:"warehouse_id" binding:"required"`
	OrderNumber          string              `gorm:"size:255;not null" json:"order_number"`
	OrderDate            time.Time           `gorm:"not null" json:"order_date" binding:"required"`
	ExpectedDeliveryDate *time.Time          `gorm:"default:null" json:"expected_delivery_date"`
	Notes                string              `gorm:"type:text" json:"notes"`
	CurrentStatus        PurchaseOrderStatus `gorm:"type:enum('Draft','Confirmed','Partially Received','Closed','Cancelled');not null" json:"current_status"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	// sum(detail discount amount)
	TotalDiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_discount_amount"`
	// sum(detail tax amount)
	TotalTaxAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_tax_amount"`
	// total_amount - total_discount_amount + total_tax_amount
	FinalAmount decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"final_amount"`
	Details     []PurchaseOrderDetail `json:"details"`
	CreatedAt   time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	SpecificationId int             `gorm:"index;default:0" json:"specification_id"`
	Name            string          `gorm:"size:100" json:"name"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"received_qty"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

type NewPurchaseOrder struct {
	SupplierId           int                 `json:"supplier_id"`
	WarehouseId          int                 `json:"warehouse_id"`
	OrderDate            time.Time           `json:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date"`
	Notes                string              `json:"notes"`
	CurrentStatus        PurchaseOrderStatus `json:"current_status"`
	Details              []NewDocumentItem   `json:"details"`
}

// validate runs the ordered document checks: party, date, warehouse, then
// the per-line checks, then the DB-backed reference checks.
func (input *NewPurchaseOrder) validate(ctx context.Context) error {
	if input.SupplierId == 0 {
		return errors.New("supplier is required")
	}
	if input.OrderDate.IsZero() {
		return errors.New("order date is required")
	}
	if input.WarehouseId == 0 {
		return errors.New("warehouse is required")
	}
	if err := validateItems(input.Details); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[Warehouse](ctx, input.WarehouseId); err != nil {
		return errors.New("warehouse not found")
	}
	return validateItemProducts(ctx, input.Details)
}

// buildPurchaseOrderDetails derives the amounts of every line and the
// document totals from the raw line inputs.
func buildPurchaseOrderDetails(items []NewDocumentItem) ([]PurchaseOrderDetail, utils.DocumentTotals) {
	details := make([]PurchaseOrderDetail, 0, len(items))
	lineAmounts := make([]utils.LineAmounts, 0, len(items))

	for _, item := range items {
		amounts := utils.ComputeLineAmounts(item.Qty, item.UnitRate, item.DiscountPercent, item.TaxPercent)
		details = append(details, PurchaseOrderDetail{
			ProductId:       item.ProductId,
			SpecificationId: item.SpecificationId,
			Name:            item.Name,
			Qty:             item.Qty,
			UnitRate:        item.UnitRate,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
			DiscountAmount:  amounts.DiscountAmount,
			TaxAmount:       amounts.TaxAmount,
			TotalAmount:     amounts.Total,
		})
		lineAmounts = append(lineAmounts, amounts)
	}

	return details, utils.AggregateLineAmounts(lineAmounts)
}

func (po *PurchaseOrder) applyTotals(totals utils.DocumentTotals) {
	po.TotalAmount = totals.TotalAmount
	po.TotalDiscountAmount = totals.TotalDiscountAmount
	po.TotalTaxAmount = totals.TotalTaxAmount
	po.FinalAmount = totals.FinalAmount
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	status := input.CurrentStatus
	if status == "" {
		status = PurchaseOrderStatusDraft
	}
	if status != PurchaseOrderStatusDraft && status != PurchaseOrderStatusConfirmed {
		return nil, errors.New("new purchase order must be Draft or Confirmed")
	}

	details, totals := buildPurchaseOrderDetails(input.Details)

	purchaseOrder := PurchaseOrder{
		SupplierId:           input.SupplierId,
		WarehouseId:          input.WarehouseId,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		CurrentStatus:        status,
		Details:              details,
	}
	purchaseOrder.applyTotals(totals)

	// header and lines must land together
	tx := db.Begin()

	orderNumber, err := generateDocumentNumber(tx, &PurchaseOrder{}, "PO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	purchaseOrder.OrderNumber = orderNumber

	if err := tx.WithContext(ctx).Create(&purchaseOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &purchaseOrder, nil
}

func UpdatePurchaseOrder(ctx context.Context, id int, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	existingOrder, err := utils.FetchModel[PurchaseOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	switch existingOrder.CurrentStatus {
	case PurchaseOrderStatusPartiallyReceived:
		return nil, errors.New("purchase orders with received items cannot be edited")
	case PurchaseOrderStatusClosed:
		return nil, errors.New("cannot edit purchase order that is already closed")
	case PurchaseOrderStatusCancelled:
		return nil, errors.New("cannot edit purchase order that is cancelled")
	}

	details, totals := buildPurchaseOrderDetails(input.Details)

	existingOrder.SupplierId = input.SupplierId
	existingOrder.WarehouseId = input.WarehouseId
	existingOrder.OrderDate = input.OrderDate
	existingOrder.ExpectedDeliveryDate = input.ExpectedDeliveryDate
	existingOrder.Notes = input.Notes
	if input.CurrentStatus != "" {
		existingOrder.CurrentStatus = input.CurrentStatus
	}
	existingOrder.applyTotals(totals)

	tx := db.Begin()

	// replace all lines inside the same transaction
	if err := tx.WithContext(ctx).Model(&existingOrder).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range details {
		details[i].PurchaseOrderId = existingOrder.ID
	}
	if err := tx.WithContext(ctx).Create(&details).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	existingOrder.Details = details

	if err := tx.WithContext(ctx).Save(&existingOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return existingOrder, nil
}

func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	result, err := utils.FetchModel[PurchaseOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if result.CurrentStatus == PurchaseOrderStatusClosed {
		return nil, errors.New("cannot delete purchase order that is already closed")
	}

	count, err := utils.ResourceCountWhere[PurchaseReceive](ctx, "purchase_order_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("purchase orders with receives cannot be deleted")
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&result).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return result, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	return utils.FetchModel[PurchaseOrder](ctx, id, "Details")
}

func ListPurchaseOrders(ctx context.Context, orderNumber *string, supplierId *int, currentStatus *PurchaseOrderStatus) ([]*PurchaseOrder, error) {
	db := config.GetDB()
	var results []*PurchaseOrder

	dbCtx := db.WithContext(ctx).Preload("Details")
	if orderNumber != nil && len(*orderNumber) > 0 {
		dbCtx = dbCtx.Where("order_number LIKE ?", "%"+*orderNumber+"%")
	}
	if supplierId != nil && *supplierId > 0 {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if currentStatus != nil && *currentStatus != "" {
		dbCtx = dbCtx.Where("current_status = ?", *currentStatus)
	}
	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateStatusPurchaseOrder(ctx context.Context, id int, status PurchaseOrderStatus) (*PurchaseOrder, error) {
	po, err := utils.FetchModel[PurchaseOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if po.CurrentStatus == PurchaseOrderStatusClosed {
		return nil, errors.New("cannot update purchase order that is already closed")
	}
	if po.CurrentStatus == PurchaseOrderStatusPartiallyReceived && status == PurchaseOrderStatusCancelled {
		return nil, errors.New("purchase orders with received items cannot be cancelled")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&po).UpdateColumn("CurrentStatus", status).Error; err != nil {
		return nil, err
	}
	po.CurrentStatus = status

	return po, nil
}

// changePoCurrentStatus re-derives the order status from its received
// quantities: nothing received keeps it Confirmed, everything received
// closes it, anything in between marks it Partially Received. Runs inside
// the caller's transaction.
func changePoCurrentStatus(tx *gorm.DB, ctx context.Context, poId int) (*PurchaseOrder, error) {
	var purchaseOrder PurchaseOrder
	err := tx.WithContext(ctx).Preload("Details").Where("id = ?", poId).First(&purchaseOrder).Error
	if err != nil {
		return nil, errors.New("purchase order not found")
	}

	anyReceived := false
	allReceived := true

	for _, poItem := range purchaseOrder.Details {
		if poItem.ReceivedQty.GreaterThan(decimal.Zero) {
			anyReceived = true
		}
		if poItem.ReceivedQty.LessThan(poItem.Qty) {
			allReceived = false
		}
	}

	var status PurchaseOrderStatus
	if !anyReceived {
		status = PurchaseOrderStatusConfirmed
	} else if allReceived {
		status = PurchaseOrderStatusClosed
	} else {
		status = PurchaseOrderStatusPartiallyReceived
	}

	if err := tx.WithContext(ctx).Model(&purchaseOrder).UpdateColumn("CurrentStatus", status).Error; err != nil {
		return nil, err
	}
	purchaseOrder.CurrentStatus = status

	return &purchaseOrder, nil
}
