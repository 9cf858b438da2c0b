package catalog

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
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Brand{},
		&models.Category{},
		&models.Subcategory{},
		&models.Species{},
		&models.Stage{},
		&models.ProductLine{},
		&models.Branch{},
		&models.Client{},
		&models.User{},
		&models.Product{},
	); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newProducts(t *testing.T, db *gorm.DB) Products {
	t.Helper()
	svc, err := NewProducts(db)
	if err != nil {
		t.Fatalf("new products: %v", err)
	}
	return svc
}

func bagInput(name string) ProductInput {
	bulk := decimal.RequireFromString("25.00")
	return ProductInput{
		Name:           name,
		Unit:           enums.UnitBag,
		PackageContent: decimal.RequireFromString("40"),
		AllowBulkSale:  true,
		BasePrice:      decimal.RequireFromString("850.00"),
		BulkPrice:      &bulk,
	}
}

func TestCreateNormalizesBaseUnit(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)

	product, err := svc.Create(context.Background(), ProductInput{
		Name:           "Maiz quebrado",
		Unit:           enums.UnitKilogram,
		PackageContent: decimal.RequireFromString("25"),
		AllowBulkSale:  false,
		BasePrice:      decimal.RequireFromString("12.50"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// kg products ignore the given content and are always sold loose
	if !product.PackageContent.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("base unit content should be pinned to 1, got %s", product.PackageContent)
	}
	if !product.AllowBulkSale {
		t.Fatal("kg products are forced to bulk sale")
	}
}

func TestCreateForcesPieceOffBulk(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)

	product, err := svc.Create(context.Background(), ProductInput{
		Name:          "Correa mediana",
		Unit:          enums.UnitPiece,
		AllowBulkSale: true,
		BasePrice:     decimal.RequireFromString("120.00"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.AllowBulkSale {
		t.Fatal("piece products can never sell in bulk")
	}
}

func TestCreateRequiresBulkPrice(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)

	input := bagInput("Alimento sin precio granel")
	input.BulkPrice = nil
	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("bulk sale without precio_granel should fail validation, got %v", err)
	}
}

func TestCreateRejectsNonPositiveContent(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)

	input := bagInput("Bulto sin contenido")
	input.PackageContent = decimal.Zero
	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("zero contenido_neto should fail validation, got %v", err)
	}
}

func TestUpdateAndDeactivate(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)
	ctx := context.Background()

	product, err := svc.Create(ctx, bagInput("Alimento Campeon 40kg"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := bagInput("Alimento Campeon 40kg")
	input.BasePrice = decimal.RequireFromString("899.00")
	updated, err := svc.Update(ctx, product.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.BasePrice.Equal(decimal.RequireFromString("899.00")) {
		t.Fatalf("expected updated price 899.00, got %s", updated.BasePrice)
	}

	if err := svc.Deactivate(ctx, product.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err := svc.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Active {
		t.Fatal("product should be inactive")
	}

	err = svc.Deactivate(ctx, 4242)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unknown product should be NOT_FOUND, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	svc := newProducts(t, db)
	ctx := context.Background()

	brand := &models.Brand{Name: "Campeon"}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("create brand: %v", err)
	}

	branded := bagInput("Alimento Campeon 40kg")
	branded.BrandID = &brand.ID
	if _, err := svc.Create(ctx, branded); err != nil {
		t.Fatalf("create branded: %v", err)
	}
	if _, err := svc.Create(ctx, bagInput("Alimento generico 40kg")); err != nil {
		t.Fatalf("create generic: %v", err)
	}

	rows, err := svc.List(ctx, ProductFilters{BrandID: &brand.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alimento Campeon 40kg" {
		t.Fatalf("brand filter should return the branded product, got %d rows", len(rows))
	}

	search := "generico"
	rows, err = svc.List(ctx, ProductFilters{Search: &search})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Alimento generico 40kg" {
		t.Fatalf("search filter should return the generic product, got %d rows", len(rows))
	}
}

func TestStoreCRUD(t *testing.T) {
	db := openTestDB(t)
	store := NewStore[models.Brand](db)
	ctx := context.Background()

	brand := &models.Brand{Name: "Nupec"}
	if err := store.Create(ctx, brand); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &models.Brand{Name: "Nupec"}
	err := store.Create(ctx, dup)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate name should conflict, got %v", err)
	}

	got, err := store.FindByID(ctx, brand.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got.Name = "Nupec Premium"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Nupec Premium" {
		t.Fatalf("expected the renamed brand, got %+v", rows)
	}

	if err := store.Delete(ctx, brand.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = store.Delete(ctx, brand.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete should be NOT_FOUND, got %v", err)
	}
}
