package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

// Service exposes inventory operations: goods receipts, audit adjustments,
// and the read paths over balances, receipts and the movement history.
type Service interface {
	RecordIngress(ctx context.Context, input IngressInput) (*models.StockEntry, error)
	Adjust(ctx context.Context, input AdjustInput) (*models.InventoryAdjustment, error)
	ListStock(ctx context.Context, filters StockFilters) ([]models.InventoryRecord, error)
	ListEntries(ctx context.Context, filters EntryFilters, page pagination.Params) ([]models.StockEntry, string, error)
	History(ctx context.Context, filters MovementFilters, page pagination.Params) ([]models.InventoryMovement, string, error)
}

// IngressInput captures one goods receipt in the product's sale unit.
type IngressInput struct {
	ProductID int64
	BranchID  int64
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Supplier  *string
	UserID    int64
}

// AdjustInput captures a physical count correction.
type AdjustInput struct {
	ProductID  int64
	BranchID   int64
	CountedQty decimal.Decimal
	Reason     string
	UserID     int64
}

type service struct {
	tx       txRunner
	repo     Repository
	products productLoader
}

// NewService builds the inventory service.
func NewService(tx txRunner, repo Repository, products productLoader) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{tx: tx, repo: repo, products: products}, nil
}

// RecordIngress converts the received quantity to base units, credits the
// balance, and writes the receipt plus its movement row in one transaction.
func (s *service) RecordIngress(ctx context.Context, input IngressInput) (*models.StockEntry, error) {
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad must be positive")
	}

	var entry *models.StockEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.loadProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}

		base := BaseUnits(product, input.Quantity, enums.PricingPackage)
		record, err := repo.ApplyDelta(ctx, input.ProductID, input.BranchID, base)
		if err != nil {
			return err
		}

		entry = &models.StockEntry{
			ProductID: input.ProductID,
			BranchID:  input.BranchID,
			Quantity:  input.Quantity,
			BaseUnits: base,
			UnitCost:  input.UnitCost,
			Supplier:  input.Supplier,
			UserID:    input.UserID,
		}
		if err := repo.CreateEntry(ctx, entry); err != nil {
			return err
		}

		return repo.CreateMovement(ctx, &models.InventoryMovement{
			ProductID:   input.ProductID,
			BranchID:    input.BranchID,
			Type:        enums.MovementIngress,
			Moved:       base,
			Previous:    record.Quantity.Sub(base),
			Resulting:   record.Quantity,
			ReferenceID: &entry.ID,
			UserID:      input.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Adjust replaces the system balance with the physically counted quantity and
// records both the adjustment and its movement row.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.InventoryAdjustment, error) {
	if input.CountedQty.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad_fisica must not be negative")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "motivo is required")
	}

	var adjustment *models.InventoryAdjustment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadProduct(ctx, input.ProductID); err != nil {
			return err
		}

		system := decimal.Zero
		record, err := repo.Get(ctx, input.ProductID, input.BranchID)
		switch {
		case err == nil:
			system = record.Quantity
		case errors.Is(err, gorm.ErrRecordNotFound):
			// counting a product never stocked at this branch starts from zero
		default:
			return err
		}

		diff := input.CountedQty.Sub(system)
		updated, err := repo.ApplyDelta(ctx, input.ProductID, input.BranchID, diff)
		if err != nil {
			return err
		}

		adjustment = &models.InventoryAdjustment{
			ProductID:      input.ProductID,
			BranchID:       input.BranchID,
			SystemQuantity: system,
			CountedQty:     input.CountedQty,
			Difference:     diff,
			Reason:         input.Reason,
			UserID:         input.UserID,
		}
		if err := repo.CreateAdjustment(ctx, adjustment); err != nil {
			return err
		}

		reason := input.Reason
		return repo.CreateMovement(ctx, &models.InventoryMovement{
			ProductID:   input.ProductID,
			BranchID:    input.BranchID,
			Type:        enums.MovementAuditAdjustment,
			Moved:       diff,
			Previous:    system,
			Resulting:   updated.Quantity,
			ReferenceID: &adjustment.ID,
			UserID:      input.UserID,
			Reason:      &reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

func (s *service) ListStock(ctx context.Context, filters StockFilters) ([]models.InventoryRecord, error) {
	return s.repo.ListStock(ctx, filters)
}

func (s *service) ListEntries(ctx context.Context, filters EntryFilters, page pagination.Params) ([]models.StockEntry, string, error) {
	return s.repo.ListEntries(ctx, filters, page)
}

func (s *service) History(ctx context.Context, filters MovementFilters, page pagination.Params) ([]models.InventoryMovement, string, error) {
	return s.repo.ListMovements(ctx, filters, page)
}

func (s *service) loadProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto not found").
				WithDetails(map[string]any{"producto_id": id})
		}
		return nil, err
	}
	return product, nil
}
