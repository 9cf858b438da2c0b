package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/enums"
)

// InventoryMovement is the append-only audit trail behind every balance
// change. Moved and the before/after quantities are in base units;
// ReferenceID points at the sale or stock entry that produced the movement.
type InventoryMovement struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64              `gorm:"column:producto_id;not null;index"`
	BranchID    int64              `gorm:"column:sucursal_id;not null;index"`
	Type        enums.MovementType `gorm:"column:tipo_movimiento;type:text;not null"`
	Moved       decimal.Decimal    `gorm:"column:cantidad_movida;type:numeric(12,3);not null"`
	Previous    decimal.Decimal    `gorm:"column:cantidad_anterior;type:numeric(12,3);not null"`
	Resulting   decimal.Decimal    `gorm:"column:cantidad_nueva;type:numeric(12,3);not null"`
	ReferenceID *int64             `gorm:"column:referencia_id"`
	UserID      int64              `gorm:"column:usuario_id;not null"`
	Reason      *string            `gorm:"column:motivo"`
	CreatedAt   time.Time          `gorm:"column:fecha;autoCreateTime;index"`
}

func (InventoryMovement) TableName() string { return "historial_inventario" }
