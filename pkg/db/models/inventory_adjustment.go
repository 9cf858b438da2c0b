package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryAdjustment records a physical count correction: the system balance
// at the moment of counting, the counted quantity, and the applied difference.
type InventoryAdjustment struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID      int64           `gorm:"column:producto_id;not null;index"`
	BranchID       int64           `gorm:"column:sucursal_id;not null;index"`
	SystemQuantity decimal.Decimal `gorm:"column:cantidad_sistema;type:numeric(12,3);not null"`
	CountedQty     decimal.Decimal `gorm:"column:cantidad_fisica;type:numeric(12,3);not null"`
	Difference     decimal.Decimal `gorm:"column:diferencia;type:numeric(12,3);not null"`
	Reason         string          `gorm:"column:motivo;not null"`
	UserID         int64           `gorm:"column:usuario_id;not null"`
	CreatedAt      time.Time       `gorm:"column:fecha;autoCreateTime"`
}

func (InventoryAdjustment) TableName() string { return "ajuste_inventario" }
