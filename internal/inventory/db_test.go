package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:inventory_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Brand{},
		&models.Branch{},
		&models.User{},
		&models.Product{},
		&models.InventoryRecord{},
		&models.StockEntry{},
		&models.InventoryMovement{},
		&models.InventoryAdjustment{},
	); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func mustCreateBranch(t *testing.T, db *gorm.DB) *models.Branch {
	t.Helper()
	branch := &models.Branch{Name: "Sucursal " + uuid.NewString()[:8], Active: true}
	if err := db.Create(branch).Error; err != nil {
		t.Fatalf("create branch: %v", err)
	}
	return branch
}

func mustCreateUser(t *testing.T, db *gorm.DB, branchID int64) *models.User {
	t.Helper()
	user := &models.User{Name: "Cajero", BranchID: &branchID, Active: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateBagProduct(t *testing.T, db *gorm.DB, contentKg string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:           "Alimento perro adulto",
		Unit:           enums.UnitBag,
		PackageContent: decimal.RequireFromString(contentKg),
		AllowBulkSale:  true,
		BasePrice:      decimal.RequireFromString("850.00"),
		Active:         true,
	}
	bulk := decimal.RequireFromString("25.00")
	product.BulkPrice = &bulk
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

// stubTxRunner satisfies the service txRunner against the test database.
type stubTxRunner struct {
	db *gorm.DB
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// gormProductLoader loads products straight from the test database.
type gormProductLoader struct {
	db *gorm.DB
}

func (l gormProductLoader) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
