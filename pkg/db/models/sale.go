package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/granverde/forrajera-backend/pkg/enums"
)

// Sale is one completed ticket. Totals are denormalized at sale time:
// GrossTotal is the sum of undiscounted line amounts, DiscountTotal the line
// discounts plus any manual ticket discount, and FinalTotal what was charged.
// Cancellation removes the ticket entirely after restoring inventory, so no
// canceled flag exists.
type Sale struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        int64           `gorm:"column:usuario_id;not null;index"`
	BranchID      int64           `gorm:"column:sucursal_id;not null;index"`
	ClientID      *int64          `gorm:"column:cliente_id"`
	ShiftID       int64           `gorm:"column:corte_caja_id;not null;index"`
	GrossTotal    decimal.Decimal `gorm:"column:total_bruto;type:numeric(10,2);not null"`
	DiscountTotal decimal.Decimal `gorm:"column:descuento_total;type:numeric(10,2);not null;default:0"`
	FinalTotal    decimal.Decimal `gorm:"column:total_final;type:numeric(10,2);not null"`
	PaymentMethod string          `gorm:"column:metodo_pago;not null;default:efectivo"`
	CreatedAt     time.Time       `gorm:"column:fecha;autoCreateTime;index"`

	Lines []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Shift *Shift     `gorm:"foreignKey:ShiftID"`
}

func (Sale) TableName() string { return "venta" }

// SaleLine is one priced line of a ticket. Quantity is in the unit the
// cashier entered; BaseUnits is the converted amount debited from inventory,
// kept so cancellation restores exactly what was taken. PricingMode records
// which price and conversion applied.
type SaleLine struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID       int64             `gorm:"column:venta_id;not null;index"`
	ProductID    int64             `gorm:"column:producto_id;not null"`
	Quantity     decimal.Decimal   `gorm:"column:cantidad;type:numeric(12,3);not null"`
	PricingMode  enums.PricingMode `gorm:"column:modo_precio;type:text;not null"`
	UnitPrice    decimal.Decimal   `gorm:"column:precio_unitario;type:numeric(10,2);not null"`
	BaseUnits    decimal.Decimal   `gorm:"column:unidades_base;type:numeric(12,3);not null"`
	DiscountPct  decimal.Decimal   `gorm:"column:descuento_porcentaje;type:numeric(5,2);not null;default:0"`
	DiscountAmt  decimal.Decimal   `gorm:"column:descuento_aplicado;type:numeric(10,2);not null;default:0"`
	Subtotal     decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	RuleID       *int64            `gorm:"column:regla_descuento_id"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (SaleLine) TableName() string { return "venta_detalle" }
