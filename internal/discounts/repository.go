package discounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
)

// Repository manages persistence for discount rules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rule *models.DiscountRule) error
	FindByID(ctx context.Context, id int64) (*models.DiscountRule, error)
	Update(ctx context.Context, rule *models.DiscountRule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.DiscountRule, error)
	ListMatching(ctx context.Context, clientID *int64, productID int64, brandID *int64) ([]models.DiscountRule, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a discount repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rule *models.DiscountRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.DiscountRule, error) {
	var rule models.DiscountRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) Update(ctx context.Context, rule *models.DiscountRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DiscountRule{}).Error
}

func (r *repository) List(ctx context.Context) ([]models.DiscountRule, error) {
	var rules []models.DiscountRule
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rules).Error
	return rules, err
}

// ListMatching loads the active rules that could apply to a sale line: rules
// scoped to the product, to its brand, or to no scope at all, restricted to
// the buying client when the rule names one.
func (r *repository) ListMatching(ctx context.Context, clientID *int64, productID int64, brandID *int64) ([]models.DiscountRule, error) {
	qb := r.db.WithContext(ctx).Where("activo = ?", true)

	if clientID != nil {
		qb = qb.Where("cliente_id IS NULL OR cliente_id = ?", *clientID)
	} else {
		qb = qb.Where("cliente_id IS NULL")
	}

	if brandID != nil {
		qb = qb.Where(
			"producto_id = ? OR marca_id = ? OR (producto_id IS NULL AND marca_id IS NULL)",
			productID, *brandID,
		)
	} else {
		qb = qb.Where(
			"producto_id = ? OR (producto_id IS NULL AND marca_id IS NULL)",
			productID,
		)
	}

	var rules []models.DiscountRule
	err := qb.Order("id ASC").Find(&rules).Error
	return rules, err
}
