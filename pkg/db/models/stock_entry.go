package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry records one goods receipt. Quantity is captured in the product's
// sale unit (packages for packaged products); BaseUnits is the converted
// amount that was credited to the inventory balance.
type StockEntry struct {
	ID        int64            `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64            `gorm:"column:producto_id;not null;index"`
	BranchID  int64            `gorm:"column:sucursal_id;not null;index"`
	Quantity  decimal.Decimal  `gorm:"column:cantidad;type:numeric(12,3);not null"`
	BaseUnits decimal.Decimal  `gorm:"column:unidades_base;type:numeric(12,3);not null"`
	UnitCost  *decimal.Decimal `gorm:"column:costo_unitario;type:numeric(10,2)"`
	Supplier  *string          `gorm:"column:proveedor"`
	UserID    int64            `gorm:"column:usuario_id;not null"`
	CreatedAt time.Time        `gorm:"column:fecha;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Branch  *Branch  `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
}

func (StockEntry) TableName() string { return "ingreso_inventario" }
