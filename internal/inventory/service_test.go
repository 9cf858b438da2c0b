package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

func TestRecordIngressConvertsPackagesToBaseUnits(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(stubTxRunner{db: db}, NewRepository(db), gormProductLoader{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	branch := mustCreateBranch(t, db)
	user := mustCreateUser(t, db, branch.ID)
	product := mustCreateBagProduct(t, db, "40")

	entry, err := svc.RecordIngress(ctx, IngressInput{
		ProductID: product.ID,
		BranchID:  branch.ID,
		Quantity:  decimal.RequireFromString("5"),
		UserID:    user.ID,
	})
	if err != nil {
		t.Fatalf("record ingress: %v", err)
	}
	if !entry.BaseUnits.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("5 bags of 40kg should credit 200 base units, got %s", entry.BaseUnits)
	}

	var record models.InventoryRecord
	if err := db.First(&record, "producto_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if !record.Quantity.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected balance 200, got %s", record.Quantity)
	}

	var movement models.InventoryMovement
	if err := db.First(&movement, "producto_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load movement: %v", err)
	}
	if movement.Type != enums.MovementIngress {
		t.Fatalf("expected INGRESO movement, got %s", movement.Type)
	}
	if !movement.Previous.IsZero() || !movement.Resulting.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("movement before/after wrong: %s -> %s", movement.Previous, movement.Resulting)
	}
	if movement.ReferenceID == nil || *movement.ReferenceID != entry.ID {
		t.Fatalf("movement should reference the stock entry")
	}
}

func TestRecordIngressRejectsUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(stubTxRunner{db: db}, NewRepository(db), gormProductLoader{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	branch := mustCreateBranch(t, db)
	user := mustCreateUser(t, db, branch.ID)

	_, err = svc.RecordIngress(context.Background(), IngressInput{
		ProductID: 9999,
		BranchID:  branch.ID,
		Quantity:  decimal.NewFromInt(1),
		UserID:    user.ID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRecordIngressRejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(stubTxRunner{db: db}, NewRepository(db), gormProductLoader{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.RecordIngress(context.Background(), IngressInput{
		ProductID: 1,
		BranchID:  1,
		Quantity:  decimal.Zero,
		UserID:    1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAdjustReplacesSystemCount(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(stubTxRunner{db: db}, NewRepository(db), gormProductLoader{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	branch := mustCreateBranch(t, db)
	user := mustCreateUser(t, db, branch.ID)
	product := mustCreateBagProduct(t, db, "40")

	if _, err := svc.RecordIngress(ctx, IngressInput{
		ProductID: product.ID,
		BranchID:  branch.ID,
		Quantity:  decimal.RequireFromString("5"),
		UserID:    user.ID,
	}); err != nil {
		t.Fatalf("seed ingress: %v", err)
	}

	adjustment, err := svc.Adjust(ctx, AdjustInput{
		ProductID:  product.ID,
		BranchID:   branch.ID,
		CountedQty: decimal.RequireFromString("185.5"),
		Reason:     "merma por rotura de costal",
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !adjustment.SystemQuantity.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("system quantity should be 200, got %s", adjustment.SystemQuantity)
	}
	if !adjustment.Difference.Equal(decimal.RequireFromString("-14.5")) {
		t.Fatalf("difference should be -14.5, got %s", adjustment.Difference)
	}

	var record models.InventoryRecord
	if err := db.First(&record, "producto_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if !record.Quantity.Equal(decimal.RequireFromString("185.5")) {
		t.Fatalf("expected balance 185.5, got %s", record.Quantity)
	}

	var movement models.InventoryMovement
	if err := db.Last(&movement, "tipo_movimiento = ?", enums.MovementAuditAdjustment).Error; err != nil {
		t.Fatalf("load movement: %v", err)
	}
	if movement.Reason == nil || *movement.Reason != "merma por rotura de costal" {
		t.Fatalf("movement should carry the reason")
	}
}

func TestAdjustOnNeverStockedProduct(t *testing.T) {
	db := openTestDB(t)
	svc, err := NewService(stubTxRunner{db: db}, NewRepository(db), gormProductLoader{db: db})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	branch := mustCreateBranch(t, db)
	user := mustCreateUser(t, db, branch.ID)
	product := mustCreateBagProduct(t, db, "40")

	adjustment, err := svc.Adjust(context.Background(), AdjustInput{
		ProductID:  product.ID,
		BranchID:   branch.ID,
		CountedQty: decimal.RequireFromString("12"),
		Reason:     "conteo inicial",
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !adjustment.SystemQuantity.IsZero() {
		t.Fatalf("system quantity should start at zero, got %s", adjustment.SystemQuantity)
	}
	if !adjustment.Difference.Equal(decimal.RequireFromString("12")) {
		t.Fatalf("difference should be 12, got %s", adjustment.Difference)
	}
}
