package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/middlewares"
	"github.com/nguyentoan1998/stockflow_backend/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

// RateLimiter throttles requests per client IP through redis.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func getRedisClient(redisAddress string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func registerRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/auth/login", loginHandler())

	api := r.Group("/api/v1")
	api.Use(middlewares.AuthMiddleware())

	api.POST("/auth/logout", logoutHandler())
	api.POST("/auth/change-password", changePasswordHandler())

	api.POST("/uploads/images", uploadImageHandler())
	api.DELETE("/uploads/images", deleteImageHandler())

	api.GET("/reference-data", referenceDataHandler())

	api.POST("/products", createProductHandler())
	api.GET("/products", listProductsHandler())
	api.GET("/products/:id", getProductHandler())
	api.PUT("/products/:id", updateProductHandler())
	api.DELETE("/products/:id", deleteProductHandler())

	api.POST("/product-units", createProductUnitHandler())
	api.GET("/product-units", listProductUnitsHandler())
	api.GET("/product-units/:id", getProductUnitHandler())
	api.PUT("/product-units/:id", updateProductUnitHandler())
	api.DELETE("/product-units/:id", deleteProductUnitHandler())

	api.POST("/staff", middlewares.AdminOnly(), createStaffHandler())
	api.GET("/staff", listStaffHandler())
	api.GET("/staff/:id", getStaffHandler())
	api.PUT("/staff/:id", middlewares.AdminOnly(), updateStaffHandler())
	api.DELETE("/staff/:id", middlewares.AdminOnly(), deleteStaffHandler())

	api.POST("/suppliers", createSupplierHandler())
	api.GET("/suppliers", listSuppliersHandler())
	api.GET("/suppliers/:id", getSupplierHandler())
	api.PUT("/suppliers/:id", updateSupplierHandler())
	api.DELETE("/suppliers/:id", deleteSupplierHandler())

	api.POST("/customers", createCustomerHandler())
	api.GET("/customers", listCustomersHandler())
	api.GET("/customers/:id", getCustomerHandler())
	api.PUT("/customers/:id", updateCustomerHandler())
	api.DELETE("/customers/:id", deleteCustomerHandler())

	api.POST("/warehouses", createWarehouseHandler())
	api.GET("/warehouses", listWarehousesHandler())
	api.GET("/warehouses/:id", getWarehouseHandler())
	api.PUT("/warehouses/:id", updateWarehouseHandler())
	api.DELETE("/warehouses/:id", deleteWarehouseHandler())

	api.POST("/purchase-orders", createPurchaseOrderHandler())
	api.GET("/purchase-orders", listPurchaseOrdersHandler())
	api.GET("/purchase-orders/:id", getPurchaseOrderHandler())
	api.PUT("/purchase-orders/:id", updatePurchaseOrderHandler())
	api.DELETE("/purchase-orders/:id", deletePurchaseOrderHandler())
	api.PUT("/purchase-orders/:id/status", updatePurchaseOrderStatusHandler())
	api.GET("/purchase-orders/:id/receivable-lines", receivableLinesHandler())

	api.POST("/purchase-receives", createPurchaseReceiveHandler())
	api.GET("/purchase-receives", listPurchaseReceivesHandler())
	api.GET("/purchase-receives/:id", getPurchaseReceiveHandler())
	api.PUT("/purchase-receives/:id", updatePurchaseReceiveHandler())
	api.DELETE("/purchase-receives/:id", deletePurchaseReceiveHandler())

	api.POST("/sales-orders", createSalesOrderHandler())
	api.GET("/sales-orders", listSalesOrdersHandler())
	api.GET("/sales-orders/:id", getSalesOrderHandler())
	api.PUT("/sales-orders/:id", updateSalesOrderHandler())
	api.DELETE("/sales-orders/:id", deleteSalesOrderHandler())
	api.PUT("/sales-orders/:id/status", updateSalesOrderStatusHandler())

	api.POST("/transfer-orders", createTransferOrderHandler())
	api.GET("/transfer-orders", listTransferOrdersHandler())
	api.GET("/transfer-orders/:id", getTransferOrderHandler())
	api.PUT("/transfer-orders/:id", updateTransferOrderHandler())
	api.DELETE("/transfer-orders/:id", deleteTransferOrderHandler())

	r.NoRoute(customNotFoundHandler)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, app endpoints return 503.
	r := gin.New()
	// Correlation IDs: accept the caller's or mint one, echo it back.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Writer.Header().Set("x-correlation-id", cid)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := models.MigrateTable(db); err != nil {
			logger.WithFields(logrus.Fields{"field": "migrations"}).Panic(err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that attached errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware counts requests per client IP in a fixed window.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := c.ClientIP()

	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
