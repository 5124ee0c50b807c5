package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
)

type TransferOrder struct {
	ID                     int                   `gorm:"primary_key" json:"id"`
	SourceWarehouseId      int                   `gorm:"index;not null" json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseId int                   `gorm:"index;not null" json:"destination_warehouse_id" binding:"required"`
	TransferNumber         string                `gorm:"size:255;not null" json:"transfer_number"`
	TransferDate           time.Time             `gorm:"not null" json:"transfer_date" binding:"required"`
	Notes                  string                `gorm:"type:text" json:"notes"`
	CurrentStatus          TransferOrderStatus   `gorm:"type:enum('Draft','Confirmed','Closed');not null" json:"current_status"`
	TotalTransferQty       decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"total_transfer_qty"`
	Details                []TransferOrderDetail `json:"details"`
	CreatedAt              time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type TransferOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	TransferOrderId int             `gorm:"index;not null" json:"transfer_order_id"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	SpecificationId int             `gorm:"index;default:0" json:"specification_id"`
	Name            string          `gorm:"size:100" json:"name"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
}

// NewTransferItem carries quantity only, transfers move stock and never
// money.
type NewTransferItem struct {
	ProductId       int             `json:"product_id" binding:"required"`
	SpecificationId int             `json:"specification_id"`
	Name            string          `json:"name"`
	Qty             decimal.Decimal `json:"qty"`
}

type NewTransferOrder struct {
	SourceWarehouseId      int                 `json:"source_warehouse_id"`
	DestinationWarehouseId int                 `json:"destination_warehouse_id"`
	TransferDate           time.Time           `json:"transfer_date"`
	Notes                  string              `json:"notes"`
	CurrentStatus          TransferOrderStatus `json:"current_status"`
	Details                []NewTransferItem   `json:"details"`
}

func (input *NewTransferOrder) validate(ctx context.Context) error {
	if input.SourceWarehouseId == 0 {
		return errors.New("source warehouse is required")
	}
	if input.DestinationWarehouseId == 0 {
		return errors.New("destination warehouse is required")
	}
	if input.SourceWarehouseId == input.DestinationWarehouseId {
		return errors.New("source and destination warehouse must be different")
	}
	if input.TransferDate.IsZero() {
		return errors.New("transfer date is required")
	}
	if len(input.Details) == 0 {
		return errors.New("at least one item is required")
	}
	for i, item := range input.Details {
		label := item.Name
		if label == "" {
			label = fmt.Sprintf("Item %d", i+1)
		}
		if !item.Qty.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%s: quantity must be greater than zero", label)
		}
	}
	if err := utils.ValidateResourceId[Warehouse](ctx, input.SourceWarehouseId); err != nil {
		return errors.New("source warehouse not found")
	}
	if err := utils.ValidateResourceId[Warehouse](ctx, input.DestinationWarehouseId); err != nil {
		return errors.New("destination warehouse not found")
	}
	for i, item := range input.Details {
		if err := utils.ValidateResourceId[Product](ctx, item.ProductId); err != nil {
			label := item.Name
			if label == "" {
				label = fmt.Sprintf("Item %d", i+1)
			}
			return fmt.Errorf("%s: product not found", label)
		}
	}
	return nil
}

func buildTransferOrderDetails(items []NewTransferItem) ([]TransferOrderDetail, decimal.Decimal) {
	details := make([]TransferOrderDetail, 0, len(items))
	var totalQty decimal.Decimal

	for _, item := range items {
		details = append(details, TransferOrderDetail{
			ProductId:       item.ProductId,
			SpecificationId: item.SpecificationId,
			Name:            item.Name,
			Qty:             item.Qty,
		})
		totalQty = totalQty.Add(item.Qty)
	}

	return details, totalQty
}

func CreateTransferOrder(ctx context.Context, input *NewTransferOrder) (*TransferOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	status := input.CurrentStatus
	if status == "" {
		status = TransferOrderStatusDraft
	}

	details, totalQty := buildTransferOrderDetails(input.Details)

	transferOrder := TransferOrder{
		SourceWarehouseId:      input.SourceWarehouseId,
		DestinationWarehouseId: input.DestinationWarehouseId,
		TransferDate:           input.TransferDate,
		Notes:                  input.Notes,
		CurrentStatus:          status,
		TotalTransferQty:       totalQty,
		Details:                details,
	}

	tx := db.Begin()

	transferNumber, err := generateDocumentNumber(tx, &TransferOrder{}, "TO")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	transferOrder.TransferNumber = transferNumber

	if err := tx.WithContext(ctx).Create(&transferOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &transferOrder, nil
}

func UpdateTransferOrder(ctx context.Context, id int, input *NewTransferOrder) (*TransferOrder, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	existingOrder, err := utils.FetchModel[TransferOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if existingOrder.CurrentStatus == TransferOrderStatusClosed {
		return nil, errors.New("cannot edit transfer order that is already closed")
	}

	details, totalQty := buildTransferOrderDetails(input.Details)

	existingOrder.SourceWarehouseId = input.SourceWarehouseId
	existingOrder.DestinationWarehouseId = input.DestinationWarehouseId
	existingOrder.TransferDate = input.TransferDate
	existingOrder.Notes = input.Notes
	existingOrder.TotalTransferQty = totalQty
	if input.CurrentStatus != "" {
		existingOrder.CurrentStatus = input.CurrentStatus
	}

	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&existingOrder).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range details {
		details[i].TransferOrderId = existingOrder.ID
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

func DeleteTransferOrder(ctx context.Context, id int) (*TransferOrder, error) {
	result, err := utils.FetchModel[TransferOrder](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	if result.CurrentStatus == TransferOrderStatusClosed {
		return nil, errors.New("cannot delete transfer order that is already closed")
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

func GetTransferOrder(ctx context.Context, id int) (*TransferOrder, error) {
	return utils.FetchModel[TransferOrder](ctx, id, "Details")
}

func ListTransferOrders(ctx context.Context, transferNumber *string, warehouseId *int) ([]*TransferOrder, error) {
	db := config.GetDB()
	var results []*TransferOrder

	dbCtx := db.WithContext(ctx).Preload("Details")
	if transferNumber != nil && len(*transferNumber) > 0 {
		dbCtx = dbCtx.Where("transfer_number LIKE ?", "%"+*transferNumber+"%")
	}
	if warehouseId != nil && *warehouseId > 0 {
		dbCtx = dbCtx.Where("source_warehouse_id = ? OR destination_warehouse_id = ?", *warehouseId, *warehouseId)
	}
	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
