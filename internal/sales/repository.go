package sales

import (
	"context"

	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
)

// Repository manages persistence for sale tickets and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	CreateLines(ctx context.Context, lines []models.SaleLine) error
	FindByID(ctx context.Context, id int64) (*models.Sale, error)
	UpdateTotals(ctx context.Context, sale *models.Sale) error
	Delete(ctx context.Context, saleID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Omit("Lines").Create(sale).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&sale, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) UpdateTotals(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"total_bruto":     sale.GrossTotal,
			"descuento_total": sale.DiscountTotal,
			"total_final":     sale.FinalTotal,
		}).
		Error
}

// Delete removes the lines and then the header. Cancellation is a full
// reversal, not a soft flag.
func (r *repository) Delete(ctx context.Context, saleID int64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("venta_id = ?", saleID).Delete(&models.SaleLine{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", saleID).Delete(&models.Sale{}).Error
}
