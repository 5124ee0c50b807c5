package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseReceive struct {
	ID                  int                     `gorm:"primary_key" json:"id"`
	PurchaseOrderId     int                     `gorm:"index;not null" json:"purchase_order_id" binding:"required"`
	SupplierId          int                     `gorm:"index;not null" json:"supplier_id"`
	WarehouseId         int                     `gorm:"index;not null" json:"warehouse_id"`
	ReceiveNumber       string                  `gorm:"size:255;not null" json:"receive_number"`
	ReceiveDate         time.Time               `gorm:"not null" json:"receive_date"`
	Notes               string                  `gorm:"type:text" json:"notes"`
	CurrentStatus       PurchaseReceiveStatus   `gorm:"type:enum('Draft','Confirmed');not null" json:"current_status"`
	TotalAmount         decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	TotalDiscountAmount decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"total_discount_amount"`
	TotalTaxAmount      decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"total_tax_amount"`
	FinalAmount         decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"final_amount"`
	Details             []PurchaseReceiveDetail `json:"details"`
	CreatedAt           time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseReceiveDetail struct {
	ID                int             `gorm:"primary_key" json:"id"`
	PurchaseReceiveId int             `gorm:"index;not null" json:"purchase_receive_id"`
	ProductId         int             `gorm:"index;not null" json:"product_id"`
	SpecificationId   int             `gorm:"index;default:0" json:"specification_id"`
	Name              string          `gorm:"size:100" json:"name"`
	Qty               decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitRate          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	DiscountPercent   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_percent"`
	TaxPercent        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
}

type NewPurchaseReceive struct {
	PurchaseOrderId int                   `json:"purchase_order_id"`
	ReceiveDate     time.Time             `json:"receive_date"`
	Notes           string                `json:"notes"`
	CurrentStatus   PurchaseReceiveStatus `json:"current_status"`
	Details         []NewDocumentItem     `json:"details"`
}

// RemainingLine is one receivable line of a purchase order: what was
// ordered, what earlier receives already took, and what is left.
type RemainingLine struct {
	ProductId       int             `json:"product_id"`
	SpecificationId int             `json:"specification_id"`
	Name            string          `json:"name"`
	UnitRate        decimal.Decimal `json:"unit_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	OrderedQty      decimal.Decimal `json:"ordered_qty"`
	ReceivedQty     decimal.Decimal `json:"received_qty"`
	RemainingQty    decimal.Decimal `json:"remaining_qty"`
}

// BuildReceivedQuantityIndex sums the line quantities of earlier receives
// per product/specification key. Draft receives have not taken anything
// yet and are skipped.
func BuildReceivedQuantityIndex(priorReceives []PurchaseReceive) map[LineKey]decimal.Decimal {
	index := make(map[LineKey]decimal.Decimal)
	for _, receive := range priorReceives {
		if receive.CurrentStatus != PurchaseReceiveStatusConfirmed {
			continue
		}
		for _, detail := range receive.Details {
			key := LineKey{ProductId: detail.ProductId, SpecificationId: detail.SpecificationId}
			index[key] = index[key].Add(detail.Qty)
		}
	}
	return index
}

// ResolveRemainingLines computes the receivable remainder of each order
// line against earlier receives. Lines sharing a product/specification key
// collapse into one bucket; fully received buckets are not emitted. An
// empty result means there is nothing left to receive.
func ResolveRemainingLines(orderDetails []PurchaseOrderDetail, priorReceives []PurchaseReceive) []RemainingLine {
	received := BuildReceivedQuantityIndex(priorReceives)

	var lines []RemainingLine
	seen := make(map[LineKey]int)

	for _, detail := range orderDetails {
		key := LineKey{ProductId: detail.ProductId, SpecificationId: detail.SpecificationId}
		if i, ok := seen[key]; ok {
			lines[i].OrderedQty = lines[i].OrderedQty.Add(detail.Qty)
			continue
		}
		seen[key] = len(lines)
		lines = append(lines, RemainingLine{
			ProductId:       detail.ProductId,
			SpecificationId: detail.SpecificationId,
			Name:            detail.Name,
			UnitRate:        detail.UnitRate,
			DiscountPercent: detail.DiscountPercent,
			TaxPercent:      detail.TaxPercent,
			OrderedQty:      detail.Qty,
		})
	}

	remaining := lines[:0]
	for _, line := range lines {
		key := LineKey{ProductId: line.ProductId, SpecificationId: line.SpecificationId}
		line.ReceivedQty = received[key]
		line.RemainingQty = line.OrderedQty.Sub(line.ReceivedQty)
		if line.RemainingQty.GreaterThan(decimal.Zero) {
			remaining = append(remaining, line)
		}
	}
	return remaining
}

// GetReceivableLines loads the order and its receives and resolves what is
// still open. The result is recomputed fresh on every call.
func GetReceivableLines(ctx context.Context, purchaseOrderId int) ([]RemainingLine, error) {
	po, err := utils.FetchModel[PurchaseOrder](ctx, purchaseOrderId, "Details")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var receives []PurchaseReceive
	if err := db.WithContext(ctx).Preload("Details").
		Where("purchase_order_id = ?", purchaseOrderId).Find(&receives).Error; err != nil {
		return nil, err
	}

	return ResolveRemainingLines(po.Details, receives), nil
}

func (input *NewPurchaseReceive) validate(ctx context.Context) error {
	if input.PurchaseOrderId == 0 {
		return errors.New("purchase order is required")
	}
	if input.ReceiveDate.IsZero() {
		return errors.New("receive date is required")
	}
	if err := validateItems(input.Details); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[PurchaseOrder](ctx, input.PurchaseOrderId); err != nil {
		return errors.New("purchase order not found")
	}
	return validateItemProducts(ctx, input.Details)
}

func buildPurchaseReceiveDetails(items []NewDocumentItem) ([]PurchaseReceiveDetail, utils.DocumentTotals) {
	details := make([]PurchaseReceiveDetail, 0, len(items))
	lineAmounts := make([]utils.LineAmounts, 0, len(items))

	for _, item := range items {
		amounts := utils.ComputeLineAmounts(item.Qty, item.UnitRate, item.DiscountPercent, item.TaxPercent)
		details = append(details, PurchaseReceiveDetail{
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

func (pr *PurchaseReceive) applyTotals(totals utils.DocumentTotals) {
	pr.TotalAmount = totals.TotalAmount
	pr.TotalDiscountAmount = totals.TotalDiscountAmount
	pr.TotalTaxAmount = totals.TotalTaxAmount
	pr.FinalAmount = totals.FinalAmount
}

// postReceivedQty applies the receive quantities to the parent order's
// per-line ReceivedQty and re-derives the order status, all inside the
// caller's transaction. Negative quantities reverse an earlier posting.
// When lines sharing a key exist the quantity fills them in order.
func postReceivedQty(tx *gorm.DB, ctx context.Context, purchaseOrderId int, details []PurchaseReceiveDetail, reverse bool) error {
	var poDetails []PurchaseOrderDetail
	if err := tx.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderId).Order("id").Find(&poDetails).Error; err != nil {
		return err
	}

	byKey := make(map[LineKey][]*PurchaseOrderDetail)
	for i := range poDetails {
		key := LineKey{ProductId: poDetails[i].ProductId, SpecificationId: poDetails[i].SpecificationId}
		byKey[key] = append(byKey[key], &poDetails[i])
	}

	for _, detail := range details {
		key := LineKey{ProductId: detail.ProductId, SpecificationId: detail.SpecificationId}
		targets := byKey[key]
		if len(targets) == 0 {
			return fmt.Errorf("%s: item is not on the purchase order", detail.Name)
		}

		qty := detail.Qty
		if reverse {
			for _, target := range targets {
				take := decimal.Min(qty, target.ReceivedQty)
				target.ReceivedQty = target.ReceivedQty.Sub(take)
				qty = qty.Sub(take)
				if !qty.GreaterThan(decimal.Zero) {
					break
				}
			}
		} else {
			for _, target := range targets {
				capacity := target.Qty.Sub(target.ReceivedQty)
				take := decimal.Min(qty, capacity)
				target.ReceivedQty = target.ReceivedQty.Add(take)
				qty = qty.Sub(take)
				if !qty.GreaterThan(decimal.Zero) {
					break
				}
			}
			if qty.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%s: receive qty exceeds remaining order qty", detail.Name)
			}
		}
	}

	for i := range poDetails {
		if err := tx.WithContext(ctx).Model(&poDetails[i]).
			UpdateColumn("ReceivedQty", poDetails[i].ReceivedQty).Error; err != nil {
			return err
		}
	}

	_, err := changePoCurrentStatus(tx, ctx, purchaseOrderId)
	return err
}

func CreatePurchaseReceive(ctx context.Context, input *NewPurchaseReceive) (*PurchaseReceive, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	po, err := utils.FetchModel[PurchaseOrder](ctx, input.PurchaseOrderId)
	if err != nil {
		return nil, err
	}
	switch po.CurrentStatus {
	case PurchaseOrderStatusDraft:
		return nil, errors.New("cannot receive against a draft purchase order")
	case PurchaseOrderStatusCancelled:
		return nil, errors.New("cannot receive against a cancelled purchase order")
	case PurchaseOrderStatusClosed:
		return nil, errors.New("purchase order is already fully received")
	}

	status := input.CurrentStatus
	if status == "" {
		status = PurchaseReceiveStatusConfirmed
	}

	details, totals := buildPurchaseReceiveDetails(input.Details)

	purchaseReceive := PurchaseReceive{
		PurchaseOrderId: po.ID,
		SupplierId:      po.SupplierId,
		WarehouseId:     po.WarehouseId,
		ReceiveDate:     input.ReceiveDate,
		Notes:           input.Notes,
		CurrentStatus:   status,
		Details:         details,
	}
	purchaseReceive.applyTotals(totals)

	tx := db.Begin()

	receiveNumber, err := generateDocumentNumber(tx, &PurchaseReceive{}, "PR")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	purchaseReceive.ReceiveNumber = receiveNumber

	if err := tx.WithContext(ctx).Create(&purchaseReceive).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// a confirmed receive posts its quantities to the parent order
	if status == PurchaseReceiveStatusConfirmed {
		if err := postReceivedQty(tx, ctx, po.ID, purchaseReceive.Details, false); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &purchaseReceive, nil
}

func UpdatePurchaseReceive(ctx context.Context, id int, input *NewPurchaseReceive) (*PurchaseReceive, error) {
	db := config.GetDB()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	existingReceive, err := utils.FetchModel[PurchaseReceive](ctx, id, "Details")
	if err != nil {
		return nil, err
	}
	if existingReceive.PurchaseOrderId != input.PurchaseOrderId {
		return nil, errors.New("purchase receive cannot move to another purchase order")
	}

	oldStatus := existingReceive.CurrentStatus
	oldDetails := existingReceive.Details

	status := input.CurrentStatus
	if status == "" {
		status = oldStatus
	}

	details, totals := buildPurchaseReceiveDetails(input.Details)

	existingReceive.ReceiveDate = input.ReceiveDate
	existingReceive.Notes = input.Notes
	existingReceive.CurrentStatus = status
	existingReceive.applyTotals(totals)

	tx := db.Begin()

	// back out the old posting before the new lines replace the old ones
	if oldStatus == PurchaseReceiveStatusConfirmed {
		if err := postReceivedQty(tx, ctx, existingReceive.PurchaseOrderId, oldDetails, true); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Model(&existingReceive).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range details {
		details[i].PurchaseReceiveId = existingReceive.ID
	}
	if err := tx.WithContext(ctx).Create(&details).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	existingReceive.Details = details

	if err := tx.WithContext(ctx).Save(&existingReceive).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if status == PurchaseReceiveStatusConfirmed {
		if err := postReceivedQty(tx, ctx, existingReceive.PurchaseOrderId, details, false); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return existingReceive, nil
}

func DeletePurchaseReceive(ctx context.Context, id int) (*PurchaseReceive, error) {
	result, err := utils.FetchModel[PurchaseReceive](ctx, id, "Details")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if result.CurrentStatus == PurchaseReceiveStatusConfirmed {
		if err := postReceivedQty(tx, ctx, result.PurchaseOrderId, result.Details, true); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

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

func GetPurchaseReceive(ctx context.Context, id int) (*PurchaseReceive, error) {
	return utils.FetchModel[PurchaseReceive](ctx, id, "Details")
}

func ListPurchaseReceives(ctx context.Context, receiveNumber *string, purchaseOrderId *int) ([]*PurchaseReceive, error) {
	db := config.GetDB()
	var results []*PurchaseReceive

	dbCtx := db.WithContext(ctx).Preload("Details")
	if receiveNumber != nil && len(*receiveNumber) > 0 {
		dbCtx = dbCtx.Where("receive_number LIKE ?", "%"+*receiveNumber+"%")
	}
	if purchaseOrderId != nil && *purchaseOrderId > 0 {
		dbCtx = dbCtx.Where("purchase_order_id = ?", *purchaseOrderId)
	}
	err := dbCtx.Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
