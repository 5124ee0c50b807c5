package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/nguyentoan1998/stockflow_backend/config"
	"github.com/nguyentoan1998/stockflow_backend/models"
	"github.com/shopspring/decimal"
)

// Regression: receiving against a purchase order must round-trip through the
// database. Two partial receives leave the right remainder, the order status
// follows the received quantities, and the final receive closes the order.
func TestPurchaseReceiveRoundTrip(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "stockflow_test")

	config.ConnectDatabaseWithRetry()
	if err := models.MigrateTable(config.GetDB()); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Roundtrip Supplies"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	warehouse, err := models.CreateWarehouse(ctx, &models.NewWarehouse{Name: "Main Warehouse"})
	if err != nil {
		t.Fatalf("CreateWarehouse: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Cement 50kg"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	po, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId:    supplier.ID,
		WarehouseId:   warehouse.ID,
		OrderDate:     time.Now(),
		CurrentStatus: models.PurchaseOrderStatusConfirmed,
		Details: []models.NewDocumentItem{
			{ProductId: product.ID, Name: product.Name, Qty: dec("100"), UnitRate: dec("1000"), DiscountPercent: dec("10"), TaxPercent: dec("5")},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if po.FinalAmount.Cmp(dec("94500")) != 0 {
		t.Fatalf("final amount expected 94500, got %s", po.FinalAmount)
	}

	receive := func(qty string) {
		t.Helper()
		_, err := models.CreatePurchaseReceive(ctx, &models.NewPurchaseReceive{
			PurchaseOrderId: po.ID,
			ReceiveDate:     time.Now(),
			Details: []models.NewDocumentItem{
				{ProductId: product.ID, Name: product.Name, Qty: dec(qty), UnitRate: dec("1000")},
			},
		})
		if err != nil {
			t.Fatalf("CreatePurchaseReceive(%s): %v", qty, err)
		}
	}

	receive("40")
	receive("25")

	lines, err := models.GetReceivableLines(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetReceivableLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 receivable line, got %d", len(lines))
	}
	if lines[0].RemainingQty.Cmp(dec("35")) != 0 {
		t.Fatalf("remaining expected 35, got %s", lines[0].RemainingQty)
	}

	reloaded, err := models.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder: %v", err)
	}
	if reloaded.CurrentStatus != models.PurchaseOrderStatusPartiallyReceived {
		t.Fatalf("status expected Partially Received, got %s", reloaded.CurrentStatus)
	}

	// over-receiving the remainder must be rejected
	_, err = models.CreatePurchaseReceive(ctx, &models.NewPurchaseReceive{
		PurchaseOrderId: po.ID,
		ReceiveDate:     time.Now(),
		Details: []models.NewDocumentItem{
			{ProductId: product.ID, Name: product.Name, Qty: dec("36"), UnitRate: dec("1000")},
		},
	})
	if err == nil {
		t.Fatal("expected over-receive to fail")
	}

	receive("35")

	reloaded, err = models.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder: %v", err)
	}
	if reloaded.CurrentStatus != models.PurchaseOrderStatusClosed {
		t.Fatalf("status expected Closed, got %s", reloaded.CurrentStatus)
	}

	lines, err = models.GetReceivableLines(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetReceivableLines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected nothing left to receive, got %d lines", len(lines))
	}
}

// Regression: editing a purchase order replaces its lines atomically; a
// load, save, reload cycle yields the same lines and totals.
func TestPurchaseOrderEditReplacesLines(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "stockflow_test")

	config.ConnectDatabaseWithRetry()
	if err := models.MigrateTable(config.GetDB()); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Edit Supplies"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	warehouse, err := models.CreateWarehouse(ctx, &models.NewWarehouse{Name: "Edit Warehouse"})
	if err != nil {
		t.Fatalf("CreateWarehouse: %v", err)
	}
	productA, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Brick"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	productB, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Gravel"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	po, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId:  supplier.ID,
		WarehouseId: warehouse.ID,
		OrderDate:   time.Now(),
		Details: []models.NewDocumentItem{
			{ProductId: productA.ID, Name: productA.Name, Qty: dec("10"), UnitRate: dec("50")},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	updated, err := models.UpdatePurchaseOrder(ctx, po.ID, &models.NewPurchaseOrder{
		SupplierId:  supplier.ID,
		WarehouseId: warehouse.ID,
		OrderDate:   time.Now(),
		Details: []models.NewDocumentItem{
			{ProductId: productA.ID, Name: productA.Name, Qty: dec("4"), UnitRate: dec("50")},
			{ProductId: productB.ID, Name: productB.Name, Qty: dec("6"), UnitRate: dec("30"), TaxPercent: dec("5")},
		},
	})
	if err != nil {
		t.Fatalf("UpdatePurchaseOrder: %v", err)
	}
	if len(updated.Details) != 2 {
		t.Fatalf("expected 2 lines after edit, got %d", len(updated.Details))
	}

	reloaded, err := models.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetPurchaseOrder: %v", err)
	}
	if len(reloaded.Details) != 2 {
		t.Fatalf("expected 2 lines after reload, got %d", len(reloaded.Details))
	}
	if reloaded.FinalAmount.Cmp(updated.FinalAmount) != 0 {
		t.Fatalf("reload changed final amount: %s vs %s", reloaded.FinalAmount, updated.FinalAmount)
	}

	var sum decimal.Decimal
	for _, detail := range reloaded.Details {
		sum = sum.Add(detail.TotalAmount)
	}
	if reloaded.FinalAmount.Cmp(sum) != 0 {
		t.Fatalf("final amount %s does not equal sum of line totals %s", reloaded.FinalAmount, sum)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("stockflow-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=stockflow_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
