package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentoan1998/stockflow_backend/models"
)

// ---- purchase orders ----

func createPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updatePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPurchaseOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdatePurchaseOrder(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deletePurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeletePurchaseOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getPurchaseOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetPurchaseOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listPurchaseOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *models.PurchaseOrderStatus
		if s := c.Query("status"); s != "" {
			v := models.PurchaseOrderStatus(s)
			status = &v
		}
		result, err := models.ListPurchaseOrders(c.Request.Context(),
			queryString(c, "order_number"), queryInt(c, "supplier_id"), status)
		respond(c, result, err)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updatePurchaseOrderStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		result, err := models.UpdateStatusPurchaseOrder(c.Request.Context(), id, models.PurchaseOrderStatus(req.Status))
		respond(c, result, err)
	}
}

// receivableLinesHandler returns what is still open on the order. An empty
// list is a valid answer, it means everything has been received.
func receivableLinesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetReceivableLines(c.Request.Context(), id)
		if err == nil && result == nil {
			result = []models.RemainingLine{}
		}
		respond(c, result, err)
	}
}

// ---- purchase receives ----

func createPurchaseReceiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPurchaseReceive
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreatePurchaseReceive(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updatePurchaseReceiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPurchaseReceive
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdatePurchaseReceive(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deletePurchaseReceiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeletePurchaseReceive(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getPurchaseReceiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetPurchaseReceive(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listPurchaseReceivesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListPurchaseReceives(c.Request.Context(),
			queryString(c, "receive_number"), queryInt(c, "purchase_order_id"))
		respond(c, result, err)
	}
}

// ---- sales orders ----

func createSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSalesOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateSalesOrder(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewSalesOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateSalesOrder(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteSalesOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getSalesOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetSalesOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listSalesOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *models.SalesOrderStatus
		if s := c.Query("status"); s != "" {
			v := models.SalesOrderStatus(s)
			status = &v
		}
		result, err := models.ListSalesOrders(c.Request.Context(),
			queryString(c, "order_number"), queryInt(c, "customer_id"), status)
		respond(c, result, err)
	}
}

func updateSalesOrderStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		result, err := models.UpdateStatusSalesOrder(c.Request.Context(), id, models.SalesOrderStatus(req.Status))
		respond(c, result, err)
	}
}

// ---- transfer orders ----

func createTransferOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTransferOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateTransferOrder(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateTransferOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewTransferOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateTransferOrder(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteTransferOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteTransferOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getTransferOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetTransferOrder(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listTransferOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListTransferOrders(c.Request.Context(),
			queryString(c, "transfer_number"), queryInt(c, "warehouse_id"))
		respond(c, result, err)
	}
}
