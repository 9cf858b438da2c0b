package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db"
	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the shift state machine: a user's shift goes from open to
// closed exactly once, and no reopen path exists.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*models.Shift, error)
	Current(ctx context.Context, userID int64) (*Status, error)
	Close(ctx context.Context, input CloseInput) (*models.Shift, error)
}

// OpenInput captures the opening of a register shift.
type OpenInput struct {
	UserID      int64
	BranchID    int64
	OpeningFund decimal.Decimal
}

// CloseInput captures the closing count. ShiftID is optional; when absent the
// user's open shift is resolved.
type CloseInput struct {
	ShiftID       *int64
	UserID        int64
	CountedCash   decimal.Decimal
	WithdrawnCash decimal.Decimal
	Comments      *string
}

// Status is an open shift plus its live running totals.
type Status struct {
	Shift        *models.Shift
	TotalSales   decimal.Decimal
	ExpectedCash decimal.Decimal
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService builds the shifts service.
func NewService(tx txRunner, repo Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("shift repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*models.Shift, error) {
	if input.OpeningFund.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fondo_inicial must not be negative")
	}

	_, err := s.repo.FindOpenByUser(ctx, input.UserID)
	if err == nil {
		return nil, openShiftConflict(input.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	zero := decimal.Zero
	expected := input.OpeningFund
	shift := &models.Shift{
		UserID:       input.UserID,
		BranchID:     input.BranchID,
		OpeningFund:  input.OpeningFund,
		TotalSales:   &zero,
		ExpectedCash: &expected,
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		// the partial unique index backs the check above under races
		if db.IsUniqueViolation(err, "idx_corte_caja_abierto_por_usuario") {
			return nil, openShiftConflict(input.UserID)
		}
		return nil, err
	}
	return shift, nil
}

func (s *service) Current(ctx context.Context, userID int64) (*Status, error) {
	shift, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noOpenShift(userID)
		}
		return nil, err
	}

	sales, err := s.repo.SumSales(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	return &Status{
		Shift:        shift,
		TotalSales:   sales,
		ExpectedCash: shift.OpeningFund.Add(sales),
	}, nil
}

func (s *service) Close(ctx context.Context, input CloseInput) (*models.Shift, error) {
	if input.CountedCash.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "efectivo_real must not be negative")
	}
	if input.WithdrawnCash.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "monto_retirado must not be negative")
	}
	if input.WithdrawnCash.GreaterThan(input.CountedCash) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "monto_retirado cannot exceed efectivo_real")
	}

	var closed *models.Shift
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shift, err := s.resolveShift(ctx, repo, input)
		if err != nil {
			return err
		}
		if !shift.IsOpen() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "corte already closed").
				WithDetails(map[string]any{"corte_id": shift.ID})
		}

		sales, err := repo.SumSales(ctx, shift.ID)
		if err != nil {
			return err
		}

		expected := shift.OpeningFund.Add(sales)
		difference := input.CountedCash.Sub(expected)
		nextFund := input.CountedCash.Sub(input.WithdrawnCash)
		now := time.Now().UTC()

		shift.TotalSales = &sales
		shift.ExpectedCash = &expected
		shift.CountedCash = &input.CountedCash
		shift.Difference = &difference
		shift.WithdrawnCash = &input.WithdrawnCash
		shift.NextFund = &nextFund
		shift.Comments = input.Comments
		shift.ClosedAt = &now

		if err := repo.Update(ctx, shift); err != nil {
			return err
		}
		closed = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *service) resolveShift(ctx context.Context, repo Repository, input CloseInput) (*models.Shift, error) {
	if input.ShiftID != nil {
		shift, err := repo.FindByID(ctx, *input.ShiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "corte not found").
					WithDetails(map[string]any{"corte_id": *input.ShiftID})
			}
			return nil, err
		}
		return shift, nil
	}

	shift, err := repo.FindOpenByUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noOpenShift(input.UserID)
		}
		return nil, err
	}
	return shift, nil
}

func openShiftConflict(userID int64) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "user already has an open corte").
		WithDetails(map[string]any{"usuario_id": userID})
}

func noOpenShift(userID int64) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "no open corte for user").
		WithDetails(map[string]any{"usuario_id": userID})
}
