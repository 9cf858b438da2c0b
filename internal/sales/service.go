package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/internal/discounts"
	"github.com/granverde/forrajera-backend/internal/inventory"
	"github.com/granverde/forrajera-backend/internal/shifts"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	"github.com/granverde/forrajera-backend/pkg/enums"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

var oneHundred = decimal.NewFromInt(100)

// Service executes sale tickets against the inventory ledger and the open
// shift, and reverses them on cancellation.
type Service interface {
	Record(ctx context.Context, input SaleInput) (*models.Sale, error)
	Cancel(ctx context.Context, saleID, userID int64) error
	Get(ctx context.Context, saleID int64) (*models.Sale, error)
}

// LineInput is one requested ticket line in the unit the cashier entered.
type LineInput struct {
	ProductID int64
	Quantity  decimal.Decimal
	IsBulk    bool
}

// SaleInput captures a full ticket.
type SaleInput struct {
	UserID         int64
	BranchID       int64
	ClientID       *int64
	PaymentMethod  string
	ManualDiscount decimal.Decimal
	Lines          []LineInput
}

type service struct {
	tx        txRunner
	repo      Repository
	inventory inventory.Repository
	shifts    shifts.Repository
	discounts discounts.Repository
	products  productLoader
}

// NewService builds the sales service.
func NewService(
	tx txRunner,
	repo Repository,
	inventoryRepo inventory.Repository,
	shiftRepo shifts.Repository,
	discountRepo discounts.Repository,
	products productLoader,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if shiftRepo == nil {
		return nil, fmt.Errorf("shift repository required")
	}
	if discountRepo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		inventory: inventoryRepo,
		shifts:    shiftRepo,
		discounts: discountRepo,
		products:  products,
	}, nil
}

// Record runs the whole ticket in one transaction: resolve the open shift,
// price and discount every line, debit the ledger, and write the movement
// trail. Any line failure (unknown product, insufficient stock) aborts the
// entire ticket.
func (s *service) Record(ctx context.Context, input SaleInput) (*models.Sale, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "venta requires at least one line")
	}
	for _, line := range input.Lines {
		if !line.Quantity.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cantidad must be positive").
				WithDetails(map[string]any{"producto_id": line.ProductID})
		}
	}
	if input.ManualDiscount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "descuento must not be negative")
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invRepo := s.inventory.WithTx(tx)
		discountRepo := s.discounts.WithTx(tx)

		shift, err := s.shifts.WithTx(tx).FindOpenByUser(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeConflict, "no open corte for user").
					WithDetails(map[string]any{"usuario_id": input.UserID})
			}
			return err
		}

		paymentMethod := input.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "efectivo"
		}

		sale = &models.Sale{
			UserID:        input.UserID,
			BranchID:      input.BranchID,
			ClientID:      input.ClientID,
			ShiftID:       shift.ID,
			PaymentMethod: paymentMethod,
			GrossTotal:    decimal.Zero,
			DiscountTotal: decimal.Zero,
			FinalTotal:    decimal.Zero,
		}
		if err := repo.Create(ctx, sale); err != nil {
			return err
		}

		grossTotal := decimal.Zero
		lineDiscounts := decimal.Zero
		netTotal := decimal.Zero
		lines := make([]models.SaleLine, 0, len(input.Lines))

		for _, lineInput := range input.Lines {
			line, gross, err := s.buildLine(ctx, invRepo, discountRepo, sale, input, lineInput)
			if err != nil {
				return err
			}
			grossTotal = grossTotal.Add(gross)
			lineDiscounts = lineDiscounts.Add(line.DiscountAmt)
			netTotal = netTotal.Add(line.Subtotal)
			lines = append(lines, *line)
		}

		finalTotal := netTotal.Sub(input.ManualDiscount)
		if finalTotal.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "descuento exceeds ticket total").
				WithDetails(map[string]any{"total": netTotal.String(), "descuento": input.ManualDiscount.String()})
		}

		if err := repo.CreateLines(ctx, lines); err != nil {
			return err
		}

		sale.GrossTotal = grossTotal
		sale.DiscountTotal = lineDiscounts.Add(input.ManualDiscount)
		sale.FinalTotal = finalTotal
		sale.Lines = lines
		return repo.UpdateTotals(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) buildLine(
	ctx context.Context,
	invRepo inventory.Repository,
	discountRepo discounts.Repository,
	sale *models.Sale,
	input SaleInput,
	lineInput LineInput,
) (*models.SaleLine, decimal.Decimal, error) {
	product, err := s.products.FindByID(ctx, lineInput.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, productNotFound(lineInput.ProductID)
		}
		return nil, decimal.Zero, err
	}
	if !product.Active {
		return nil, decimal.Zero, productNotFound(lineInput.ProductID)
	}

	mode := inventory.PricingModeFor(product, lineInput.IsBulk)
	listPrice, err := listPriceFor(product, mode)
	if err != nil {
		return nil, decimal.Zero, err
	}

	candidates, err := discountRepo.ListMatching(ctx, input.ClientID, product.ID, product.BrandID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	rule := discounts.BestRule(candidates, product.ID, product.BrandID)

	discountPct := decimal.Zero
	var ruleID *int64
	if rule != nil {
		discountPct = rule.Percentage
		ruleID = &rule.ID
	}

	unitPrice := listPrice.Mul(oneHundred.Sub(discountPct)).Div(oneHundred).Round(2)
	gross := lineInput.Quantity.Mul(listPrice).Round(2)
	subtotal := lineInput.Quantity.Mul(unitPrice).Round(2)

	base := inventory.BaseUnits(product, lineInput.Quantity, mode)
	record, err := invRepo.ApplyDelta(ctx, product.ID, input.BranchID, base.Neg())
	if err != nil {
		return nil, decimal.Zero, err
	}

	err = invRepo.CreateMovement(ctx, &models.InventoryMovement{
		ProductID:   product.ID,
		BranchID:    input.BranchID,
		Type:        enums.MovementSale,
		Moved:       base.Neg(),
		Previous:    record.Quantity.Add(base),
		Resulting:   record.Quantity,
		ReferenceID: &sale.ID,
		UserID:      input.UserID,
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	return &models.SaleLine{
		SaleID:      sale.ID,
		ProductID:   product.ID,
		Quantity:    lineInput.Quantity,
		PricingMode: mode,
		UnitPrice:   unitPrice,
		BaseUnits:   base,
		DiscountPct: discountPct,
		DiscountAmt: gross.Sub(subtotal),
		Subtotal:    subtotal,
		RuleID:      ruleID,
	}, gross, nil
}

// Cancel restores every line's base units to the ledger, writes the reversal
// movements, and removes the ticket.
func (s *service) Cancel(ctx context.Context, saleID, userID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invRepo := s.inventory.WithTx(tx)

		sale, err := repo.FindByID(ctx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "venta not found").
					WithDetails(map[string]any{"venta_id": saleID})
			}
			return err
		}

		for _, line := range sale.Lines {
			record, err := invRepo.ApplyDelta(ctx, line.ProductID, sale.BranchID, line.BaseUnits)
			if err != nil {
				return err
			}
			err = invRepo.CreateMovement(ctx, &models.InventoryMovement{
				ProductID:   line.ProductID,
				BranchID:    sale.BranchID,
				Type:        enums.MovementSaleCancelation,
				Moved:       line.BaseUnits,
				Previous:    record.Quantity.Sub(line.BaseUnits),
				Resulting:   record.Quantity,
				ReferenceID: &sale.ID,
				UserID:      userID,
			})
			if err != nil {
				return err
			}
		}

		return repo.Delete(ctx, sale.ID)
	})
}

func (s *service) Get(ctx context.Context, saleID int64) (*models.Sale, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "venta not found").
				WithDetails(map[string]any{"venta_id": saleID})
		}
		return nil, err
	}
	return sale, nil
}

func listPriceFor(product *models.Product, mode enums.PricingMode) (decimal.Decimal, error) {
	if mode == enums.PricingBulk && product.Unit.IsPackaged() {
		if !product.AllowBulkSale {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "producto is not sold in bulk").
				WithDetails(map[string]any{"producto_id": product.ID})
		}
		if product.BulkPrice == nil {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "producto has no bulk price").
				WithDetails(map[string]any{"producto_id": product.ID})
		}
		return *product.BulkPrice, nil
	}
	return product.BasePrice, nil
}

func productNotFound(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "producto not found").
		WithDetails(map[string]any{"producto_id": id})
}
