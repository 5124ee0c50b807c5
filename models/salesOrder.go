package models

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
)

type SalesOrder struct {
	ID                   int                `gorm:"primary_key" json:"id"`
	CustomerId           int                `gorm:"index;not null" json:"customer_id" binding:"required"`
	WarehouseId          int                `gorm:"index;not null" json:"warehouse_id" binding:"required"`
	OrderNumber          string             `gorm:"size:255;not null" json:"order_number"`
	OrderDate            time.Time          `gorm:"not null" json:"order_date" binding:"required"`
	ExpectedDeliveryDate *time.Time         `gorm:"default:null" json:"expected_delivery_date"`
	Notes                string             `gorm:"type:text" json:"notes"`
	CurrentStatus        SalesOrderStatus   `gorm:"type:enum('Draft','Confirmed','Closed','Cancelled');not null" json:"current_status"`
	TotalAmount          decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	TotalDiscountAmount  decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total_discount_amount"`
	TotalTaxAmount       decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"total_tax_amount"`
	FinalAmount          decimal.Decimal    `gorm:"type:decimal(20,4);default:0" json:"final_amount"`
	Details              []SalesOrderDetail `json:"details"`
	CreatedAt            time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	SalesOrderId    int             `gorm:"index;not null" json:"sales_order_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	SpecificationId int             `gorm:"index;default:0" json:"specification_id"`
	Name            string          `gorm:"size:100" json:"name"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

type NewSalesOrder struct {
	CustomerId           int               `json:"customer_id"`
	WarehouseId          int               `json:"warehouse_id"`
	OrderDate            time.Time         `json:"order_date"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date"`
	Notes                string            `json:"notes"`
	CurrentStatus        SalesOrderStatus  `json:"current_status"`
	Details              []NewDocumentItem `json:"details"`
}

func (input *NewSalesOrder) validate(ctx context.Context) error {
	if input.CustomerId == 0 {
		return errors.New("customer is required")
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
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if err := utils.ValidateResourceId[Warehouse](ctx, input.WarehouseId); err != nil {
		return errors.New("warehouse not found")
	}
	return validateItemProducts(ctx, input.Details)
}

func buildSalesOrderDetails(items []NewDocumentItem) ([]SalesOrderDetail, utils.DocumentTotals) {
	details := make([]SalesOrderDetail, 0, len(items))
	lineAmounts := make([]utils.LineAmounts, 0, len(items))

	for _, item := range items {
		amounts := utils.ComputeLineAmounts(item.Qty, item.UnitRate, item.DiscountPercent, item.TaxPercent)
		details = append(details, SalesOrderDetail{
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

func (so *SalesOrder) applyTotals(totals utils.DocumentTotals) {
	so.TotalAmount = totals.TotalAmount
	so.TotalDiscountAmount = totals.TotalDiscountAmount
	so.TotalTaxAmount = totals.TotalTaxAmount
	so.FinalAmount = totals.FinalAmount
}

func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	status := input.CurrentStatus
	if status == "" {
		status = SalesOrderStatusDraft
	}
	if status != SalesOrderStatusDraft && status != SalesOrderStatusConfirmed {
		return nil, errors.New("new sales order must be Draft or Confirmed")
	}

	details, totals := buildSalesOrderDetails(input.Details)

	salesOrder := SalesOrder{
		CustomerId:           input.CustomerId,
		WarehouseId:          input.WarehouseId,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Notes:                input.Notes,
		CurrentStatus:        status,
		Details:              details,
	}
	salesOrder.applyTotals(totals)

	tx := db.Begin()

	orderNumber, err := generateDocumentNumber(tx, &SalesOrder{}, "SO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	salesOrder.OrderNumber = orderNumber

	if err := tx.WithContext(ctx).Create(&salesOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &salesOrder, nil
}

func UpdateSalesOrder(ctx context.Context, id int, input *NewSalesOrder) (*SalesOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	existingOrder, err := utils.FetchModel[SalesOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	switch existingOrder.CurrentStatus {
	case SalesOrderStatusClosed:
		return nil, errors.New("cannot edit sales order that is already closed")
	case SalesOrderStatusCancelled:
		return nil, errors.New("cannot edit sales order that is cancelled")
	}

	details, totals := buildSalesOrderDetails(input.Details)

	existingOrder.CustomerId = input.CustomerId
	existingOrder.WarehouseId = input.WarehouseId
	existingOrder.OrderDate = input.OrderDate
	existingOrder.ExpectedDeliveryDate = input.ExpectedDeliveryDate
	existingOrder.Notes = input.Notes
	if input.CurrentStatus != "" {
		existingOrder.CurrentStatus = input.CurrentStatus
	}
	existingOrder.applyTotals(totals)

	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&existingOrder).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range details {
		details[i].SalesOrderId = existingOrder.ID
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

func DeleteSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	result, err := utils.FetchModel[SalesOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if result.CurrentStatus == SalesOrderStatusClosed {
		return nil, errors.New("cannot delete sales order that is already closed")
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

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	return utils.FetchModel[SalesOrder](ctx, id, "Details")
}

func ListSalesOrders(ctx context.Context, orderNumber *string, customerId *int, currentStatus *SalesOrderStatus) ([]*SalesOrder, error) {
	db := config.GetDB()
	var results []*SalesOrder

	dbCtx := db.WithContext(ctx).Preload("Details")
	if orderNumber != nil && len(*orderNumber) > 0 {
		dbCtx = dbCtx.Where("order_number LIKE ?", "%"+*orderNumber+"%")
	}
	if customerId != nil && *customerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", *customerId)
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

func UpdateStatusSalesOrder(ctx context.Context, id int, status SalesOrderStatus) (*SalesOrder, error) {
	so, err := utils.FetchModel[SalesOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if so.CurrentStatus == SalesOrderStatusClosed {
		return nil, errors.New("cannot update sales order that is already closed")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&so).UpdateColumn("CurrentStatus", status).Error; err != nil {
		return nil, err
	}
	so.CurrentStatus = status

	return so, nil
}
