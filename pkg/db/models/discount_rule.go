package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountRule grants a percentage off a sale line. Scope narrows from global
// (product and brand both nil) to brand-wide to a single product, optionally
// restricted to one client; the resolver picks the most specific match.
type DiscountRule struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string          `gorm:"column:nombre;not null"`
	ProductID  *int64          `gorm:"column:producto_id;index"`
	BrandID    *int64          `gorm:"column:marca_id;index"`
	ClientID   *int64          `gorm:"column:cliente_id;index"`
	Percentage decimal.Decimal `gorm:"column:descuento_porcentaje;type:numeric(5,2);not null"`
	Active     bool            `gorm:"column:activo;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:fecha_creacion;autoCreateTime"`
}

func (DiscountRule) TableName() string { return "regla_descuento" }
