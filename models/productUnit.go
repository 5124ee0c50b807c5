package models

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/utils"
)

type ProductUnit struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Abbreviation string    `gorm:"size:20" json:"abbreviation"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProductUnit struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

func (input *NewProductUnit) validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[ProductUnit](ctx, "name", input.Name, id)
}

func CreateProductUnit(ctx context.Context, input *NewProductUnit) (*ProductUnit, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	unit := ProductUnit{
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func UpdateProductUnit(ctx context.Context, id int, input *NewProductUnit) (*ProductUnit, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	unit, err := utils.FetchModel[ProductUnit](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Abbreviation": input.Abbreviation,
	}).Error
	if err != nil {
		return nil, err
	}

	return unit, nil
}

func DeleteProductUnit(ctx context.Context, id int) (*ProductUnit, error) {
	result, err := utils.FetchModel[ProductUnit](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Product](ctx, "unit_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("unit is used by products")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetProductUnit(ctx context.Context, id int) (*ProductUnit, error) {
	return utils.FetchModel[ProductUnit](ctx, id)
}

func ListProductUnits(ctx context.Context) ([]*ProductUnit, error) {
	return utils.FetchAllModels[ProductUnit](ctx)
}
