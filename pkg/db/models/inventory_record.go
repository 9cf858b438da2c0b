package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord holds the on-hand balance for one product at one branch,
// always expressed in the product's base unit. One row per (product, branch).
type InventoryRecord struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64           `gorm:"column:producto_id;not null;uniqueIndex:idx_inventario_producto_sucursal"`
	BranchID  int64           `gorm:"column:sucursal_id;not null;uniqueIndex:idx_inventario_producto_sucursal"`
	Quantity  decimal.Decimal `gorm:"column:cantidad;type:numeric(12,3);not null;default:0"`
	UpdatedAt time.Time       `gorm:"column:fecha_actualizacion;autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Branch  *Branch  `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
}

func (InventoryRecord) TableName() string { return "inventario" }
