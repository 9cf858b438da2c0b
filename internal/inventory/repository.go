package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/granverde/forrajera-backend/pkg/db/models"
	pkgerrors "github.com/granverde/forrajera-backend/pkg/errors"
	"github.com/granverde/forrajera-backend/pkg/pagination"
)

// Repository manages persistence for inventory balances, goods receipts,
// audit adjustments and the movement history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, productID, branchID int64) (*models.InventoryRecord, error)
	ApplyDelta(ctx context.Context, productID, branchID int64, delta decimal.Decimal) (*models.InventoryRecord, error)
	ListStock(ctx context.Context, filters StockFilters) ([]models.InventoryRecord, error)
	CreateEntry(ctx context.Context, entry *models.StockEntry) error
	ListEntries(ctx context.Context, filters EntryFilters, page pagination.Params) ([]models.StockEntry, string, error)
	CreateMovement(ctx context.Context, movement *models.InventoryMovement) error
	ListMovements(ctx context.Context, filters MovementFilters, page pagination.Params) ([]models.InventoryMovement, string, error)
	CreateAdjustment(ctx context.Context, adjustment *models.InventoryAdjustment) error
}

// StockFilters narrows balance listings.
type StockFilters struct {
	BranchID  *int64
	ProductID *int64
}

// EntryFilters narrows goods receipt listings.
type EntryFilters struct {
	BranchID  *int64
	ProductID *int64
}

// MovementFilters narrows movement history listings.
type MovementFilters struct {
	BranchID  *int64
	ProductID *int64
	Type      *string
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, productID, branchID int64) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		First(&record, "producto_id = ? AND sucursal_id = ?", productID, branchID).
		Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ApplyDelta moves the balance by delta in one conditional update so the
// non-negative guard holds under concurrent writers. A missing row is created
// when the delta is non-negative; a guard miss on an existing row reports the
// available quantity.
func (r *repository) ApplyDelta(ctx context.Context, productID, branchID int64, delta decimal.Decimal) (*models.InventoryRecord, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("producto_id = ? AND sucursal_id = ? AND cantidad + ? >= 0", productID, branchID, delta).
		Updates(map[string]any{
			"cantidad":            gorm.Expr("cantidad + ?", delta),
			"fecha_actualizacion": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		existing, err := r.Get(ctx, productID, branchID)
		switch {
		case err == nil:
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock insuficiente").
				WithDetails(map[string]any{
					"producto_id": productID,
					"sucursal_id": branchID,
					"disponible":  existing.Quantity.String(),
					"solicitado":  delta.Neg().String(),
				})
		case errors.Is(err, gorm.ErrRecordNotFound):
			if delta.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock insuficiente").
					WithDetails(map[string]any{
						"producto_id": productID,
						"sucursal_id": branchID,
						"disponible":  "0",
						"solicitado":  delta.Neg().String(),
					})
			}
			record := &models.InventoryRecord{
				ProductID: productID,
				BranchID:  branchID,
				Quantity:  delta,
			}
			if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
				return nil, err
			}
			return record, nil
		default:
			return nil, err
		}
	}

	return r.Get(ctx, productID, branchID)
}

func (r *repository) ListStock(ctx context.Context, filters StockFilters) ([]models.InventoryRecord, error) {
	qb := r.db.WithContext(ctx).Preload("Product")
	if filters.BranchID != nil {
		qb = qb.Where("sucursal_id = ?", *filters.BranchID)
	}
	if filters.ProductID != nil {
		qb = qb.Where("producto_id = ?", *filters.ProductID)
	}

	var rows []models.InventoryRecord
	err := qb.Order("producto_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListEntries(ctx context.Context, filters EntryFilters, page pagination.Params) ([]models.StockEntry, string, error) {
	qb := r.db.WithContext(ctx).Model(&models.StockEntry{})
	if filters.BranchID != nil {
		qb = qb.Where("sucursal_id = ?", *filters.BranchID)
	}
	if filters.ProductID != nil {
		qb = qb.Where("producto_id = ?", *filters.ProductID)
	}

	var rows []models.StockEntry
	next, err := listPage(qb, "fecha", page, &rows, func(last models.StockEntry) pagination.Cursor {
		return pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	})
	return rows, next, err
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, filters MovementFilters, page pagination.Params) ([]models.InventoryMovement, string, error) {
	qb := r.db.WithContext(ctx).Model(&models.InventoryMovement{})
	if filters.BranchID != nil {
		qb = qb.Where("sucursal_id = ?", *filters.BranchID)
	}
	if filters.ProductID != nil {
		qb = qb.Where("producto_id = ?", *filters.ProductID)
	}
	if filters.Type != nil {
		qb = qb.Where("tipo_movimiento = ?", *filters.Type)
	}

	var rows []models.InventoryMovement
	next, err := listPage(qb, "fecha", page, &rows, func(last models.InventoryMovement) pagination.Cursor {
		return pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	})
	return rows, next, err
}

func (r *repository) CreateAdjustment(ctx context.Context, adjustment *models.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// listPage applies keyset pagination over (timeColumn DESC, id DESC) and
// returns the encoded cursor for the next page, if any.
func listPage[T any](qb *gorm.DB, timeColumn string, page pagination.Params, dest *[]T, cursorOf func(T) pagination.Cursor) (string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		qb = qb.Where("("+timeColumn+" < ?) OR ("+timeColumn+" = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	err = qb.Order(timeColumn + " DESC").Order("id DESC").Limit(pageSize + 1).Find(dest).Error
	if err != nil {
		return "", err
	}

	rows := *dest
	if len(rows) <= pageSize {
		return "", nil
	}
	rows = rows[:pageSize]
	*dest = rows
	return pagination.EncodeCursor(cursorOf(rows[len(rows)-1])), nil
}
