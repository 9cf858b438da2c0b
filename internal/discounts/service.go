package discounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
)

// Service exposes discount rule management and resolution.
type Service interface {
	Create(ctx context.Context, input RuleInput) (*models.DiscountRule, error)
	Update(ctx context.Context, id int64, input RuleInput) (*models.DiscountRule, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.DiscountRule, error)
	Resolve(ctx context.Context, clientID *int64, productID int64, brandID *int64) (*models.DiscountRule, error)
}

// RuleInput captures a discount rule definition.
type RuleInput struct {
	Name       string
	ProductID  *int64
	BrandID    *int64
	ClientID   *int64
	Percentage decimal.Decimal
	Active     bool
}

type service struct {
	repo Repository
}

// NewService builds the discounts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input RuleInput) (*models.DiscountRule, error) {
	if err := validateRule(input); err != nil {
		return nil, err
	}
	rule := &models.DiscountRule{
		Name:       input.Name,
		ProductID:  input.ProductID,
		BrandID:    input.BrandID,
		ClientID:   input.ClientID,
		Percentage: input.Percentage,
		Active:     input.Active,
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Update(ctx context.Context, id int64, input RuleInput) (*models.DiscountRule, error) {
	if err := validateRule(input); err != nil {
		return nil, err
	}
	rule, err := s.findRule(ctx, id)
	if err != nil {
		return nil, err
	}
	rule.Name = input.Name
	rule.ProductID = input.ProductID
	rule.BrandID = input.BrandID
	rule.ClientID = input.ClientID
	rule.Percentage = input.Percentage
	rule.Active = input.Active
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.findRule(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.DiscountRule, error) {
	return s.repo.List(ctx)
}

// Resolve returns the winning rule for the line, or nil when no discount
// applies.
func (s *service) Resolve(ctx context.Context, clientID *int64, productID int64, brandID *int64) (*models.DiscountRule, error) {
	candidates, err := s.repo.ListMatching(ctx, clientID, productID, brandID)
	if err != nil {
		return nil, err
	}
	return BestRule(candidates, productID, brandID), nil
}

func (s *service) findRule(ctx context.Context, id int64) (*models.DiscountRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "regla de descuento not found").
				WithDetails(map[string]any{"id": id})
		}
		return nil, err
	}
	return rule, nil
}

func validateRule(input RuleInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "nombre is required")
	}
	if !input.Percentage.IsPositive() || input.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "descuento_porcentaje must be in (0, 100]")
	}
	if input.ProductID != nil && input.BrandID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "a rule targets a product or a brand, not both")
	}
	return nil
}
