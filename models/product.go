package models

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int                    `gorm:"primary_key" json:"id"`
	Name           string                 `gorm:"size:100;not null" json:"name" binding:"required"`
	Sku            string                 `gorm:"size:100" json:"sku"`
	UnitId         int                    `gorm:"index" json:"unit_id"`
	SalesPrice     decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	PurchasePrice  decimal.Decimal        `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	Description    string                 `gorm:"type:text" json:"description"`
	ImageURL       string                 `gorm:"size:255" json:"image_url"`
	IsActive       *bool                  `gorm:"not null;default:true" json:"is_active"`
	Specifications []ProductSpecification `json:"specifications"`
	CreatedAt      time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductSpecification is a variant of a product (size, color, grade) with
// its own prices. Document lines reference it by SpecificationId.
type ProductSpecification struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ProductId     int             `gorm:"index;not null" json:"product_id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	SalesPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
}

type NewProduct struct {
	Name           string                    `json:"name" binding:"required"`
	Sku            string                    `json:"sku"`
	UnitId         int                       `json:"unit_id"`
	SalesPrice     decimal.Decimal           `json:"sales_price"`
	PurchasePrice  decimal.Decimal           `json:"purchase_price"`
	Description    string                    `json:"description"`
	ImageURL       string                    `json:"image_url"`
	Specifications []NewProductSpecification `json:"specifications"`
}

type NewProductSpecification struct {
	Name          string          `json:"name" binding:"required"`
	SalesPrice    decimal.Decimal `json:"sales_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Product](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.UnitId > 0 {
		if err := utils.ValidateResourceId[ProductUnit](ctx, input.UnitId); err != nil {
			return errors.New("product unit not found")
		}
	}
	if input.SalesPrice.IsNegative() || input.PurchasePrice.IsNegative() {
		return errors.New("price cannot be negative")
	}
	for _, spec := range input.Specifications {
		if spec.Name == "" {
			return errors.New("specification name is required")
		}
		if spec.SalesPrice.IsNegative() || spec.PurchasePrice.IsNegative() {
			return errors.New("specification price cannot be negative")
		}
	}
	return nil
}

func (input *NewProduct) specifications() []ProductSpecification {
	specs := make([]ProductSpecification, 0, len(input.Specifications))
	for _, spec := range input.Specifications {
		specs = append(specs, ProductSpecification{
			Name:          spec.Name,
			SalesPrice:    spec.SalesPrice,
			PurchasePrice: spec.PurchasePrice,
		})
	}
	return specs
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		Name:           input.Name,
		Sku:            input.Sku,
		UnitId:         input.UnitId,
		SalesPrice:     input.SalesPrice,
		PurchasePrice:  input.PurchasePrice,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		IsActive:       utils.NewTrue(),
		Specifications: input.specifications(),
	}

	// db action (product + specifications in one transaction)
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, id, "Specifications")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"Name":          input.Name,
		"Sku":           input.Sku,
		"UnitId":        input.UnitId,
		"SalesPrice":    input.SalesPrice,
		"PurchasePrice": input.PurchasePrice,
		"Description":   input.Description,
		"ImageURL":      input.ImageURL,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// replace specifications
	if err := tx.WithContext(ctx).Model(&product).Association("Specifications").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	specs := input.specifications()
	for i := range specs {
		specs[i].ProductId = product.ID
	}
	if len(specs) > 0 {
		if err := tx.WithContext(ctx).Create(&specs).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	product.Specifications = specs

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	result, err := utils.FetchModel[Product](ctx, id, "Specifications")
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[PurchaseOrderDetail](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("product is used by purchase orders")
	}
	count, err = utils.ResourceCountWhere[SalesOrderDetail](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("product is used by sales orders")
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&result).Association("Specifications").Unscoped().Clear(); err != nil {
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

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Specifications")
}

func ListProducts(ctx context.Context, name *string) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Preload("Specifications")
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ?", "%"+*name+"%", "%"+*name+"%")
	}
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
