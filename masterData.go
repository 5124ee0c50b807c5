package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nguyentoan1998/stockflow_backend/models"
	"github.com/nguyentoan1998/stockflow_backend/utils"
)

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryString(c *gin.Context, key string) *string {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	return &value
}

func queryInt(c *gin.Context, key string) *int {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// bindError writes a 400 for a failed JSON bind. Failures from binding tags
// come back as a per-field map so clients can point at the offending input.
func bindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respond writes the standard body shape: {"data": ...} on success,
// {"error": ...} otherwise. Missing records are a 404, everything else
// the model rejected is a 400.
func respond(c *gin.Context, result interface{}, err error) {
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ---- products ----

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateProduct(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateProduct(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteProduct(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetProduct(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListProducts(c.Request.Context(), queryString(c, "name"))
		respond(c, result, err)
	}
}

// ---- product units ----

func createProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProductUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateProductUnit(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewProductUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateProductUnit(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteProductUnit(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetProductUnit(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listProductUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListProductUnits(c.Request.Context())
		respond(c, result, err)
	}
}

// ---- staff ----

func createStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateUser(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateUser(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteUser(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetUser(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listStaffHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListUsers(c.Request.Context())
		respond(c, result, err)
	}
}

// ---- suppliers ----

func createSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupplier
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateSupplier(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewSupplier
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateSupplier(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteSupplier(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getSupplierHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetSupplier(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listSuppliersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListSuppliers(c.Request.Context(), queryString(c, "name"))
		respond(c, result, err)
	}
}

// ---- customers ----

func createCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateCustomer(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewCustomer
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateCustomer(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteCustomer(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetCustomer(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListCustomers(c.Request.Context(), queryString(c, "name"))
		respond(c, result, err)
	}
}

// ---- warehouses ----

func createWarehouseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewWarehouse
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.CreateWarehouse(c.Request.Context(), &input)
		respond(c, result, err)
	}
}

func updateWarehouseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewWarehouse
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := models.UpdateWarehouse(c.Request.Context(), id, &input)
		respond(c, result, err)
	}
}

func deleteWarehouseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.DeleteWarehouse(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func getWarehouseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		result, err := models.GetWarehouse(c.Request.Context(), id)
		respond(c, result, err)
	}
}

func listWarehousesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.ListWarehouses(c.Request.Context(), queryString(c, "name"))
		respond(c, result, err)
	}
}

// ---- reference data ----

func referenceDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.GetReferenceData(c.Request.Context())
		respond(c, result, err)
	}
}
