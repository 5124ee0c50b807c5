package models

import (
	"fmt"

	"gorm.io/gorm"
)

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ProductUnit{},
		&Product{},
		&ProductSpecification{},
		&Supplier{},
		&Customer{},
		&Warehouse{},
		&PurchaseOrder{},
		&PurchaseOrderDetail{},
		&PurchaseReceive{},
		&PurchaseReceiveDetail{},
		&SalesOrder{},
		&SalesOrderDetail{},
		&TransferOrder{},
		&TransferOrderDetail{},
	)
}

// generateDocumentNumber builds the next document number for a model inside
// the current transaction, e.g. "PO-00012". Numbers are derived from
// MAX(id)+1 so they stay monotonic per document type.
func generateDocumentNumber(tx *gorm.DB, model interface{}, prefix string) (string, error) {
	var maxId int64
	if err := tx.Model(model).Select("COALESCE(MAX(id), 0)").Scan(&maxId).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", prefix, maxId+1), nil
}
