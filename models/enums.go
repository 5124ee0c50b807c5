package models

type UserRole string

const (
	UserRoleAdmin UserRole = "A"
	UserRoleStaff UserRole = "S"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusConfirmed         PurchaseOrderStatus = "Confirmed"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "Partially Received"
	PurchaseOrderStatusClosed            PurchaseOrderStatus = "Closed"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "Cancelled"
)

type PurchaseReceiveStatus string

const (
	PurchaseReceiveStatusDraft     PurchaseReceiveStatus = "Draft"
	PurchaseReceiveStatusConfirmed PurchaseReceiveStatus = "Confirmed"
)

type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "Draft"
	SalesOrderStatusConfirmed SalesOrderStatus = "Confirmed"
	SalesOrderStatusClosed    SalesOrderStatus = "Closed"
	SalesOrderStatusCancelled SalesOrderStatus = "Cancelled"
)

type TransferOrderStatus string

const (
	TransferOrderStatusDraft     TransferOrderStatus = "Draft"
	TransferOrderStatusConfirmed TransferOrderStatus = "Confirmed"
	TransferOrderStatusClosed    TransferOrderStatus = "Closed"
)
