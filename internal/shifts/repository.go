package shifts

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
)

// Repository manages persistence for cash-register shifts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, shift *models.Shift) error
	FindByID(ctx context.Context, id int64) (*models.Shift, error)
	FindOpenByUser(ctx context.Context, userID int64) (*models.Shift, error)
	Update(ctx context.Context, shift *models.Shift) error
	SumSales(ctx context.Context, shiftID int64) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shift repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repository) FindOpenByUser(ctx context.Context, userID int64) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.WithContext(ctx).
		First(&shift, "usuario_id = ? AND fecha_cierre IS NULL", userID).
		Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *repository) Update(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

// SumSales totals the tickets registered against the shift. Canceled sales
// are deleted outright, so whatever remains is what counts.
func (r *repository) SumSales(ctx context.Context, shiftID int64) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("SUM(total_final)").
		Where("corte_caja_id = ?", shiftID).
		Scan(&total).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
